package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/pkg/errors"
)

// UsageRepository implements usage.Repository
type UsageRepository struct {
	db *sql.DB
	pg bool
}

// NewUsageRepository creates a new usage ledger repository for the driver
func NewUsageRepository(db *sql.DB, driver string) usage.Repository {
	return &UsageRepository{db: db, pg: driver == "postgres"}
}

// Append inserts a ledger record
func (r *UsageRepository) Append(ctx context.Context, rec *usage.Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO usage_records (email, video_label, plan, created_at)
		VALUES (?, ?, ?, ?)
	`

	if r.pg {
		err := r.db.QueryRowContext(ctx, rebind(true, query+" RETURNING id"),
			rec.Email, rec.VideoLabel, rec.Plan, rec.CreatedAt.Unix(),
		).Scan(&rec.ID)
		if err != nil {
			return errors.DatabaseError("Failed to append usage record", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, query,
		rec.Email, rec.VideoLabel, rec.Plan, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to append usage record", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get usage record ID", err)
	}

	rec.ID = id
	return nil
}

// CountSince counts records for the email created at or after the instant
func (r *UsageRepository) CountSince(ctx context.Context, email string, since time.Time) (int, error) {
	query := rebind(r.pg, `
		SELECT COUNT(*) FROM usage_records
		WHERE email = ? AND created_at >= ?
	`)

	var count int
	err := r.db.QueryRowContext(ctx, query, email, since.Unix()).Scan(&count)
	if err != nil {
		return 0, errors.DatabaseError("Failed to count usage records", err)
	}

	return count, nil
}
