package handlers

import (
	"io"
	"net/http"

	"github.com/clipcap/clipcap/internal/billing"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/utils"
	"github.com/clipcap/clipcap/internal/services"
)

// Webhook payloads are small; anything larger is hostile
const maxWebhookBytes = 1 << 20

// WebhookHandler handles payment provider webhook notifications
type WebhookHandler struct {
	billing  *services.BillingService
	verifier billing.Verifier
	logger   *logger.Logger
}

// NewWebhookHandler creates a new webhook handler. verifier may be nil when
// billing integration is unconfigured; events are then acknowledged and
// ignored.
func NewWebhookHandler(b *services.BillingService, v billing.Verifier, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing:  b,
		verifier: v,
		logger:   log,
	}
}

// HandleStripe verifies the event signature and applies plan upgrades for
// completed checkouts. Unrecognized event types are acknowledged and ignored.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Unreadable webhook body"))
		return
	}

	event, err := h.verifier.VerifyAndDecode(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("Webhook verification failed")
		utils.WriteError(w, errors.WebhookVerificationError(err))
		return
	}

	if event.Type != billing.EventCheckoutCompleted {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	email, err := event.CheckoutEmail()
	if err != nil {
		utils.WriteError(w, errors.WebhookVerificationError(err))
		return
	}

	if err := h.billing.ApplyPlanUpgrade(r.Context(), email); err != nil {
		h.logger.ErrorWithErr(err, "Failed to apply plan upgrade")
		utils.WriteAppError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"email":    email,
		"event_id": event.ID,
	}).Info("Plan upgrade applied from webhook")

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
