package usage

import "context"

// Service defines the interface for quota accounting. Reserve and the
// subsequent Commit or Release form the per-request accounting pair: a
// reservation holds a slot against the monthly allowance while the pipeline
// runs, so concurrent requests from one user cannot slip past the limit
// between the check and the ledger append.
type Service interface {
	// UsedThisMonth counts ledger records for the email within the current
	// UTC calendar month.
	UsedThisMonth(ctx context.Context, email string) (int, error)

	// Reserve claims one allowance slot for the email, failing with a quota
	// error naming the plan when committed use plus in-flight reservations
	// reach the limit.
	Reserve(ctx context.Context, email, plan string, limit int) error

	// Commit appends the ledger record for a completed run, releasing the
	// reservation on success. On failure the reservation stays held and the
	// caller releases it.
	Commit(ctx context.Context, email, videoLabel, plan string) error

	// Release drops a reservation without writing a record (failed run).
	Release(email string)
}
