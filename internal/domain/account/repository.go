package account

import "context"

// Repository defines the interface for account data access
type Repository interface {
	// Create creates a new account
	Create(ctx context.Context, a *Account) error

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpdatePlan sets the plan for the account with the given email
	UpdatePlan(ctx context.Context, email string, plan Plan) error
}
