package payment

import (
	"time"

	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/types"
	"github.com/shopspring/decimal"
)

// Metadata keys recorded alongside a verified payment
const (
	MetadataKeyCaptureID   = "capture_id"
	MetadataKeyEnvironment = "environment"
	MetadataKeyVerified    = "verified"
)

// Payment represents a gateway payment credited to an account. The pair
// (gateway, gateway_payment_id) is unique across all records; that
// constraint is the sole mechanism preventing double-crediting.
type Payment struct {
	// Unique identifier for this payment record
	ID string `json:"id" db:"id"`
	// The account this payment was credited to
	AccountID string `json:"account_id" db:"account_id"`
	// The gateway that processed the payment (paypal)
	Gateway types.PaymentGateway `json:"gateway" db:"gateway"`
	// The gateway_payment_id is the provider-side order identifier
	GatewayPaymentID string `json:"gateway_payment_id" db:"gateway_payment_id"`
	// ReceiptNumber is the short human-facing identifier printed on receipts
	ReceiptNumber string `json:"receipt_number" db:"receipt_number"`
	// The amount field holds the claimed amount in minor units, as submitted
	// by the caller
	Amount decimal.Decimal `json:"amount" db:"amount"`
	// The currency field uses a three-letter ISO code (GBP, USD, etc.)
	Currency string `json:"currency" db:"currency"`
	// The payment_status shows the state of this payment; records created by
	// the ledger recorder are always COMPLETED and never transition
	PaymentStatus types.PaymentStatus `json:"payment_status" db:"payment_status"`
	// The metadata field carries the capture id, verification flag and
	// provider environment (optional)
	Metadata types.Metadata `json:"metadata,omitempty" db:"metadata"`
	// The verified_at timestamp shows when provider verification succeeded
	VerifiedAt *time.Time `json:"verified_at,omitempty" db:"verified_at"`

	types.BaseModel
}

// Validate validates the payment
func (p *Payment) Validate() error {
	if p.AccountID == "" {
		return ierr.NewError("invalid account id").
			WithHint("Account id is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.Gateway.Validate(); err != nil {
		return ierr.NewError("invalid gateway").
			WithHint("Payment gateway is invalid").
			Mark(ierr.ErrValidation)
	}
	if p.GatewayPaymentID == "" {
		return ierr.NewError("invalid gateway payment id").
			WithHint("Gateway payment id is required").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsZero() || p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.Currency == "" {
		return ierr.NewError("invalid currency").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for the payment
func (p *Payment) TableName() string {
	return "payments"
}
