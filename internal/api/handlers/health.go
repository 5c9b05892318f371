package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: log,
	}
}

// Healthz handles the liveness probe. No side effects.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Readyz handles the readiness probe: the service is ready when the store
// answers a ping.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorWithErr(err, "Readiness check failed")
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
