package account

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for account persistence
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, account *Account) error

	// CreditBalance atomically increments the account balance by the given
	// major-unit amount and returns the new balance. The increment must be a
	// single store-level operation, never a read-modify-write round trip.
	CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
}
