package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artcove/artcove/internal/domain/account"
	ierr "github.com/artcove/artcove/internal/errors"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

// NewInMemoryAccountStore creates a new in-memory account repository
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*account.Account),
	}
}

// Clear resets all stored data
func (m *InMemoryAccountStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = make(map[string]*account.Account)
}

// Create stores a new account
func (m *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if a.ID == "" {
		return ierr.NewError("account ID cannot be empty").
			WithHint("Account ID cannot be empty").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[a.ID]; exists {
		return ierr.NewError("account already exists").
			WithHint("An account with this id already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	stored := *a
	m.accounts[a.ID] = &stored
	return nil
}

// Get retrieves an account by ID, returning a copy so callers mutate their
// own view until Update is called, as they would against a real store
func (m *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.accounts[id]
	if !exists {
		return nil, ierr.NewError("account not found").
			WithHintf("Account %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

// Update replaces an existing account
func (m *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	if a == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account cannot be nil").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[a.ID]; !exists {
		return ierr.NewError("account not found").
			WithHintf("Account %s was not found", a.ID).
			Mark(ierr.ErrNotFound)
	}

	a.UpdatedAt = time.Now().UTC()
	stored := *a
	m.accounts[a.ID] = &stored
	return nil
}

// CreditBalance atomically increments the balance under the store lock,
// mirroring the single-statement UPDATE of the Postgres implementation
func (m *InMemoryAccountStore) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.accounts[id]
	if !exists {
		return decimal.Zero, ierr.NewError("account not found").
			WithHintf("Account %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	stored.Balance = stored.Balance.Add(amount)
	stored.UpdatedAt = time.Now().UTC()
	return stored.Balance, nil
}
