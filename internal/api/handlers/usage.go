package handlers

import (
	"net/http"
	"strings"

	"github.com/clipcap/clipcap/internal/api/dto"
	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/utils"
	"github.com/clipcap/clipcap/internal/pkg/validator"
)

// UsageHandler reports a user's plan and month-to-date consumption
type UsageHandler struct {
	accounts  account.Service
	quota     usage.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(accounts account.Service, quota usage.Service, log *logger.Logger, val *validator.Validator) *UsageHandler {
	return &UsageHandler{
		accounts:  accounts,
		quota:     quota,
		logger:    log,
		validator: val,
	}
}

// Get returns the plan, monthly limit, and month-to-date use for an email.
// Looking up an unseen email creates the account on its free plan, the same
// first-sight behavior as a processing request.
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if err := h.validator.ValidateVar(email, "required,email"); err != nil {
		utils.WriteError(w, errors.ValidationError("Provide a valid email address", nil))
		return
	}

	plan, err := h.accounts.Resolve(r.Context(), email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	used, err := h.quota.UsedThisMonth(r.Context(), email)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.UsageDTO{
		Email: email,
		Plan:  string(plan),
		Limit: plan.Allowance(),
		Used:  used,
	})
}
