package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipcap/clipcap/internal/pkg/logger"
)

func TestHealthHandler_Healthz(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	handler := NewHealthHandler(nil, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	handler.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp["ok"] {
		t.Errorf(`body = %v, want {"ok": true}`, resp)
	}
}
