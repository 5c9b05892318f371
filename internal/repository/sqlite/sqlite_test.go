package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationFS, err := migrations.GetFS("sqlite")
	if err != nil {
		t.Fatalf("loading migrations: %v", err)
	}
	if err := RunMigrations(db, migrationFS, "sqlite"); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func TestAccountRepository(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t), "sqlite")
	ctx := context.Background()

	a := &account.Account{Email: "a@b.com", Plan: account.PlanFree}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.ID == 0 {
		t.Error("Create did not assign an ID")
	}

	got, err := repo.GetByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if got.Plan != account.PlanFree {
		t.Errorf("plan = %q, want free", got.Plan)
	}

	if err := repo.UpdatePlan(ctx, "a@b.com", account.PlanCreator); err != nil {
		t.Fatalf("UpdatePlan returned error: %v", err)
	}
	got, err = repo.GetByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail after update returned error: %v", err)
	}
	if got.Plan != account.PlanCreator {
		t.Errorf("plan after update = %q, want creator", got.Plan)
	}
}

func TestAccountRepositoryNotFound(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t), "sqlite")
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "missing@example.com")
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("GetByEmail error = %v, want code %s", err, errors.ErrCodeNotFound)
	}

	err = repo.UpdatePlan(ctx, "missing@example.com", account.PlanCreator)
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("UpdatePlan error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}

func TestAccountRepositoryDuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t), "sqlite")
	ctx := context.Background()

	if err := repo.Create(ctx, &account.Account{Email: "a@b.com", Plan: account.PlanFree}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, &account.Account{Email: "a@b.com", Plan: account.PlanFree}); err == nil {
		t.Error("duplicate Create succeeded, want unique constraint error")
	}
}

func TestUsageRepositoryCountSince(t *testing.T) {
	repo := NewUsageRepository(newTestDB(t), "sqlite")
	ctx := context.Background()

	base := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	records := []*usage.Record{
		{Email: "a@b.com", VideoLabel: "one.mp4", Plan: "free", CreatedAt: base.AddDate(0, -1, 0)},
		{Email: "a@b.com", VideoLabel: "two.mp4", Plan: "free", CreatedAt: base},
		{Email: "a@b.com", VideoLabel: "three.mp4", Plan: "free", CreatedAt: base.Add(time.Hour)},
		{Email: "c@d.com", VideoLabel: "other.mp4", Plan: "free", CreatedAt: base},
	}
	for _, rec := range records {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	count, err := repo.CountSince(ctx, "a@b.com", monthStart)
	if err != nil {
		t.Fatalf("CountSince returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("CountSince = %d, want 2 (prior month and other emails excluded)", count)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)

	migrationFS, err := migrations.GetFS("sqlite")
	if err != nil {
		t.Fatalf("loading migrations: %v", err)
	}

	// Applying the same migration set again is a no-op
	if err := RunMigrations(db, migrationFS, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations returned error: %v", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		pg       bool
		query    string
		expected string
	}{
		{
			name:     "sqlite keeps question marks",
			pg:       false,
			query:    "INSERT INTO t (a, b) VALUES (?, ?)",
			expected: "INSERT INTO t (a, b) VALUES (?, ?)",
		},
		{
			name:     "postgres numbers placeholders",
			pg:       true,
			query:    "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			expected: "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			name:     "postgres without placeholders",
			pg:       true,
			query:    "SELECT COUNT(*) FROM t",
			expected: "SELECT COUNT(*) FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rebind(tt.pg, tt.query); got != tt.expected {
				t.Errorf("rebind = %q, want %q", got, tt.expected)
			}
		})
	}
}
