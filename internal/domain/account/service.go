package account

import "context"

// Service defines the interface for account business logic
type Service interface {
	// Resolve returns the plan for the email, creating a free account on
	// first sight.
	Resolve(ctx context.Context, email string) (Plan, error)

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpgradePlan promotes the account to the given plan. Creates the
	// account first if it does not exist yet; applying the same upgrade
	// twice is a no-op.
	UpgradePlan(ctx context.Context, email string, plan Plan) error
}
