// Package testutil provides in-memory mock repositories and fake pipeline
// collaborators for tests.
package testutil

import (
	"context"
	"time"

	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/pkg/errors"
)

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	Accounts    map[string]*account.Account
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*account.Account),
		NextID:   1,
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	a.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.Accounts[a.Email] = a
	return nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[email]
	if !ok {
		return nil, errors.NotFound("Account")
	}
	return a, nil
}

func (m *MockAccountRepository) UpdatePlan(ctx context.Context, email string, plan account.Plan) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.Accounts[email]
	if !ok {
		return errors.NotFound("Account")
	}
	a.Plan = plan
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// MockUsageRepository is a mock implementation of usage.Repository
type MockUsageRepository struct {
	Records     []*usage.Record
	NextID      int64
	AppendError error
	CountError  error
}

func NewMockUsageRepository() *MockUsageRepository {
	return &MockUsageRepository{NextID: 1}
}

func (m *MockUsageRepository) Append(ctx context.Context, r *usage.Record) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	r.ID = m.NextID
	m.NextID++
	m.Records = append(m.Records, r)
	return nil
}

func (m *MockUsageRepository) CountSince(ctx context.Context, email string, since time.Time) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	count := 0
	for _, r := range m.Records {
		if r.Email == email && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
