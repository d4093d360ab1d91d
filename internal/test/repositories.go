package test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
)

// UserTableStub serves a fixed user table and counts fetches.
type UserTableStub struct {
	mu      sync.Mutex
	Users   []model.UserRecord
	Err     error
	FetchFn func(context.Context) ([]model.UserRecord, error)
	Calls   int
}

// FetchAll returns configured rows or error.
func (s *UserTableStub) FetchAll(ctx context.Context) ([]model.UserRecord, error) {
	s.mu.Lock()
	s.Calls++
	fn, users, err := s.FetchFn, append([]model.UserRecord(nil), s.Users...), s.Err
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetUsers replaces the table content.
func (s *UserTableStub) SetUsers(users []model.UserRecord) {
	s.mu.Lock()
	s.Users = users
	s.mu.Unlock()
}

// FetchCount reports how many times the table was fetched.
func (s *UserTableStub) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

// AccountSlotStub keeps the persisted account in memory.
type AccountSlotStub struct {
	mu      sync.Mutex
	Account string
	Err     error
}

// Load returns stored account or not found.
func (s *AccountSlotStub) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.Account == "" {
		return "", domainErrors.ErrNotFound
	}
	return s.Account, nil
}

// Save stores account.
func (s *AccountSlotStub) Save(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Account = account
	return nil
}

// Clear empties the slot.
func (s *AccountSlotStub) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Account = ""
	return nil
}

// Stored returns current slot value.
func (s *AccountSlotStub) Stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Account
}

// CashoutRepositoryStub records cashouts in memory.
type CashoutRepositoryStub struct {
	mu        sync.Mutex
	Items     []model.Cashout
	CreateErr error
	ListErr   error
}

// Create appends cashout unless configured to fail.
func (s *CashoutRepositoryStub) Create(ctx context.Context, cashout model.Cashout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.Items = append(s.Items, cashout)
	return nil
}

// ListByAccount filters stored cashouts by account.
func (s *CashoutRepositoryStub) ListByAccount(ctx context.Context, account string) ([]model.Cashout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []model.Cashout
	for _, c := range s.Items {
		if c.Account == account {
			out = append(out, c)
		}
	}
	return out, nil
}

// Summary aggregates stored cashouts of account.
func (s *CashoutRepositoryStub) Summary(ctx context.Context, account string) (model.CashoutSummary, error) {
	items, err := s.ListByAccount(ctx, account)
	if err != nil {
		return model.CashoutSummary{}, err
	}
	summary := model.CashoutSummary{USD: decimal.Zero}
	for _, c := range items {
		summary.Count++
		summary.Points += c.Points
		summary.USD = summary.USD.Add(c.USD)
	}
	return summary, nil
}

// Count returns number of stored cashouts.
func (s *CashoutRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Items)
}

// ActivityFeedStub returns predefined entries.
type ActivityFeedStub struct {
	Entries []model.ActivityEntry
	Err     error
}

// FetchAll returns configured entries or error.
func (s ActivityFeedStub) FetchAll(ctx context.Context) ([]model.ActivityEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Entries, nil
}
