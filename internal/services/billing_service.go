package services

import (
	"context"

	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/metrics"
)

// BillingService applies verified payment events to accounts. Only the
// checkout-completed upgrade path exists; there is no downgrade.
type BillingService struct {
	accounts account.Service
	logger   *logger.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(accounts account.Service, log *logger.Logger) *BillingService {
	return &BillingService{
		accounts: accounts,
		logger:   log,
	}
}

// ApplyPlanUpgrade promotes the account to the creator plan. Idempotent.
func (s *BillingService) ApplyPlanUpgrade(ctx context.Context, email string) error {
	if err := s.accounts.UpgradePlan(ctx, email, account.PlanCreator); err != nil {
		return err
	}

	metrics.RecordPlanUpgrade()
	return nil
}
