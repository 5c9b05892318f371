package services

import (
	"context"

	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
)

// AccountService implements account.Service
type AccountService struct {
	repo   account.Repository
	logger *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(repo account.Repository, log *logger.Logger) account.Service {
	return &AccountService{
		repo:   repo,
		logger: log,
	}
}

// Resolve returns the plan for the email, creating a free account on first
// sight.
func (s *AccountService) Resolve(ctx context.Context, email string) (account.Plan, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return a.Plan, nil
	}
	if !errors.IsNotFound(err) {
		return "", err
	}

	a = &account.Account{
		Email: email,
		Plan:  account.PlanFree,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// A concurrent first-sight request may have won the insert; the
		// unique constraint turns into a plain read of the winner's row
		if existing, getErr := s.repo.GetByEmail(ctx, email); getErr == nil {
			return existing.Plan, nil
		}
		s.logger.ErrorWithErr(err, "Failed to create account")
		return "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"email":      a.Email,
	}).Info("Account created")

	return a.Plan, nil
}

// GetByEmail retrieves an account by email
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

// UpgradePlan promotes the account to the given plan. The upgrade is
// idempotent: re-applying the same plan is a no-op.
func (s *AccountService) UpgradePlan(ctx context.Context, email string, plan account.Plan) error {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.IsNotFound(err) {
			return err
		}
		// A payment event can arrive before the user's first upload
		a = &account.Account{Email: email, Plan: plan}
		if err := s.repo.Create(ctx, a); err != nil {
			// Lost the insert race to a concurrent request; fall back to
			// updating the row that won
			existing, getErr := s.repo.GetByEmail(ctx, email)
			if getErr != nil {
				s.logger.ErrorWithErr(err, "Failed to create account for plan upgrade")
				return err
			}
			a = existing
		} else {
			s.logger.WithFields(map[string]interface{}{
				"email": email,
				"plan":  plan,
			}).Info("Account created with upgraded plan")
			return nil
		}
	}

	if a.Plan == plan {
		return nil
	}

	if err := s.repo.UpdatePlan(ctx, email, plan); err != nil {
		s.logger.ErrorWithErr(err, "Failed to upgrade plan")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"email": email,
		"plan":  plan,
	}).Info("Plan upgraded")

	return nil
}
