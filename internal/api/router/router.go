package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipcap/clipcap/internal/api/handlers"
	"github.com/clipcap/clipcap/internal/api/middleware"
	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/metrics"
)

// Handlers groups the endpoint handlers wired by main
type Handlers struct {
	Health  *handlers.HealthHandler
	Process *handlers.ProcessHandler
	Webhook *handlers.WebhookHandler
	Usage   *handlers.UsageHandler
}

// New builds the HTTP routing tree
func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(10, 20)) // 10 req/sec, burst of 20
	r.Use(metrics.Middleware)

	r.Get("/health", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/full_process", h.Process.FullProcess)
	r.Get("/usage", h.Usage.Get)
	r.Post("/stripe/webhook", h.Webhook.HandleStripe)

	return r
}
