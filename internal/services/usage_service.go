package services

import (
	"context"
	"sync"
	"time"

	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
)

// UsageService implements usage.Service. The quota check and the in-flight
// reservation counter are updated under one lock, which closes the
// check-then-append race between concurrent requests from the same user.
type UsageService struct {
	repo   usage.Repository
	logger *logger.Logger

	mu       sync.Mutex
	inflight map[string]int

	// injectable clock for month-boundary tests
	now func() time.Time
}

// NewUsageService creates a new usage service
func NewUsageService(repo usage.Repository, log *logger.Logger) *UsageService {
	return &UsageService{
		repo:     repo,
		logger:   log,
		inflight: make(map[string]int),
		now:      time.Now,
	}
}

// startOfMonth returns the first instant of t's UTC calendar month.
func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// UsedThisMonth counts ledger records for the email within the current UTC
// calendar month.
func (s *UsageService) UsedThisMonth(ctx context.Context, email string) (int, error) {
	return s.repo.CountSince(ctx, email, startOfMonth(s.now()))
}

// Reserve claims one allowance slot for the email.
func (s *UsageService) Reserve(ctx context.Context, email, plan string, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used, err := s.repo.CountSince(ctx, email, startOfMonth(s.now()))
	if err != nil {
		return err
	}

	if used+s.inflight[email] >= limit {
		return errors.QuotaExceeded(plan, limit)
	}

	s.inflight[email]++
	return nil
}

// Commit appends the ledger record for a completed run, releasing the
// reservation only when the append succeeds. A failed append leaves the
// reservation held; the caller's failure path releases it exactly once, so
// another request's slot is never freed by mistake.
func (s *UsageService) Commit(ctx context.Context, email, videoLabel, plan string) error {
	rec := &usage.Record{
		Email:      email,
		VideoLabel: videoLabel,
		Plan:       plan,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		s.logger.ErrorWithErr(err, "Failed to append usage record")
		return err
	}
	s.Release(email)

	s.logger.WithFields(map[string]interface{}{
		"email":       email,
		"video_label": videoLabel,
		"plan":        plan,
	}).Info("Usage recorded")

	return nil
}

// Release drops a reservation without writing a record.
func (s *UsageService) Release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[email] > 0 {
		s.inflight[email]--
	}
	if s.inflight[email] == 0 {
		delete(s.inflight, email)
	}
}
