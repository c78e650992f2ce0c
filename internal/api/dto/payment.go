package dto

import (
	"github.com/shopspring/decimal"

	"github.com/artcove/artcove/internal/domain/payment"
	ierr "github.com/artcove/artcove/internal/errors"
)

// TopUpRequest submits a gateway payment confirmation to be verified and
// credited to an account balance
type TopUpRequest struct {
	// AccountID is the account to credit
	AccountID string `json:"account_id" binding:"required"`
	// Amount is the claimed payment amount in minor currency units
	Amount int64 `json:"amount" binding:"required"`
	// Currency is the three-letter ISO code the payment was made in
	Currency string `json:"currency" binding:"required"`
	// OrderID is the provider-side order identifier
	OrderID string `json:"order_id" binding:"required"`
	// CaptureID is the provider-side capture identifier, when the caller
	// has one. Verification falls back to the order when it is absent.
	CaptureID string `json:"capture_id,omitempty"`
}

// Validate validates the top-up request. Malformed input is rejected here,
// before any provider call is made.
func (r *TopUpRequest) Validate() error {
	if r.AccountID == "" {
		return ierr.NewError("account id is required").
			WithHint("Account id is required").
			Mark(ierr.ErrValidation)
	}
	if r.Amount <= 0 {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be a positive number of minor currency units").
			Mark(ierr.ErrValidation)
	}
	if len(r.Currency) != 3 {
		return ierr.NewError("invalid currency").
			WithHint("Currency must be a three-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	if r.OrderID == "" {
		return ierr.NewError("order id is required").
			WithHint("The provider order id is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TopUpResponse is the outcome of a verified top-up. Duplicate submissions
// succeed with AlreadyProcessed set and the current balance; that is the
// idempotency contract, not a fallback.
type TopUpResponse struct {
	PaymentID        string          `json:"payment_id,omitempty"`
	NewBalance       decimal.Decimal `json:"new_balance"`
	AlreadyProcessed bool            `json:"already_processed"`
}

// PaymentResponse represents a recorded payment in API responses
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a new payment response
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse represents a list of recorded payments
type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}
