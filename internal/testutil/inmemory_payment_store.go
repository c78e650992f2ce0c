package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/artcove/artcove/internal/domain/payment"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
	// byGatewayKey enforces the (gateway, gateway_payment_id) uniqueness
	// the Postgres store gets from its unique index
	byGatewayKey map[string]string
}

// NewInMemoryPaymentStore creates a new in-memory payment repository
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		payments:     make(map[string]*payment.Payment),
		byGatewayKey: make(map[string]string),
	}
}

// Clear resets all stored data
func (m *InMemoryPaymentStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = make(map[string]*payment.Payment)
	m.byGatewayKey = make(map[string]string)
}

func gatewayKey(gateway types.PaymentGateway, gatewayPaymentID string) string {
	return gateway.String() + "|" + gatewayPaymentID
}

// Create stores a new payment, rejecting duplicates of the same gateway
// payment exactly as the database unique constraint would
func (m *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if p.ID == "" {
		return ierr.NewError("payment ID cannot be empty").
			WithHint("Payment ID cannot be empty").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := gatewayKey(p.Gateway, p.GatewayPaymentID)
	if _, exists := m.byGatewayKey[key]; exists {
		return ierr.NewError("payment already exists").
			WithHint("This gateway payment has already been recorded").
			Mark(ierr.ErrAlreadyExists)
	}

	stored := *p
	m.payments[p.ID] = &stored
	m.byGatewayKey[key] = p.ID
	return nil
}

// Get retrieves a payment by ID
func (m *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, exists := m.payments[id]
	if !exists {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	copied := *stored
	return &copied, nil
}

// GetByGatewayPaymentID retrieves a payment by its gateway identity
func (m *InMemoryPaymentStore) GetByGatewayPaymentID(ctx context.Context, gateway types.PaymentGateway, gatewayPaymentID string) (*payment.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.byGatewayKey[gatewayKey(gateway, gatewayPaymentID)]
	if !exists {
		return nil, ierr.NewError("payment not found").
			WithHintf("No payment recorded for %s order %s", gateway, gatewayPaymentID).
			Mark(ierr.ErrNotFound)
	}

	copied := *m.payments[id]
	return &copied, nil
}

// ListByAccount returns the payments credited to an account, newest first
func (m *InMemoryPaymentStore) ListByAccount(ctx context.Context, accountID string) ([]*payment.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range m.payments {
		if p.AccountID == accountID {
			copied := *p
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
