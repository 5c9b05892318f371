package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/pkg/errors"
)

// AccountRepository implements account.Repository
type AccountRepository struct {
	db *sql.DB
	pg bool
}

// NewAccountRepository creates a new account repository for the driver
func NewAccountRepository(db *sql.DB, driver string) account.Repository {
	return &AccountRepository{db: db, pg: driver == "postgres"}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO accounts (email, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	// lib/pq has no LastInsertId; postgres hands the id back instead
	if r.pg {
		err := r.db.QueryRowContext(ctx, rebind(true, query+" RETURNING id"),
			a.Email, string(a.Plan), now.Unix(), now.Unix(),
		).Scan(&a.ID)
		if err != nil {
			return errors.DatabaseError("Failed to create account", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, query,
		a.Email, string(a.Plan), now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create account", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get account ID", err)
	}

	a.ID = id
	return nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := rebind(r.pg, `
		SELECT id, email, plan, created_at, updated_at
		FROM accounts WHERE email = ?
	`)

	var a account.Account
	var plan string
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Email, &plan, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Account")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get account", err)
	}

	a.Plan = account.ParsePlan(plan)
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &a, nil
}

// UpdatePlan sets the plan for the account with the given email
func (r *AccountRepository) UpdatePlan(ctx context.Context, email string, plan account.Plan) error {
	query := rebind(r.pg, `
		UPDATE accounts
		SET plan = ?, updated_at = ?
		WHERE email = ?
	`)

	result, err := r.db.ExecContext(ctx, query, string(plan), time.Now().UTC().Unix(), email)
	if err != nil {
		return errors.DatabaseError("Failed to update plan", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("Account")
	}

	return nil
}
