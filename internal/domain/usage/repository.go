package usage

import (
	"context"
	"time"
)

// Repository defines the interface for the usage ledger
type Repository interface {
	// Append inserts a ledger record
	Append(ctx context.Context, r *Record) error

	// CountSince counts records for the email with a timestamp at or after
	// the given instant
	CountSince(ctx context.Context, email string, since time.Time) (int, error)
}
