package payment

import (
	"context"

	"github.com/artcove/artcove/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// Create inserts a payment record. It must fail with a distinguishable
	// already-exists error when a record with the same
	// (gateway, gateway_payment_id) pair was inserted concurrently; that
	// constraint is the authoritative idempotency guard.
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	GetByGatewayPaymentID(ctx context.Context, gateway types.PaymentGateway, gatewayPaymentID string) (*Payment, error)
	ListByAccount(ctx context.Context, accountID string) ([]*Payment, error)
}
