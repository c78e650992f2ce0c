package paypal

import (
	"github.com/shopspring/decimal"

	ierr "github.com/artcove/artcove/internal/errors"
)

const (
	// CaptureStatusCompleted is the only capture state that releases funds
	CaptureStatusCompleted = "COMPLETED"
	// OrderStatusCompleted is the only order state that releases funds
	OrderStatusCompleted = "COMPLETED"
)

// Money is PayPal's currency-value pair. Value is a decimal string.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Decimal parses the money value into a decimal
func (m Money) Decimal() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(m.Value)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("PayPal returned a malformed amount").
			WithReportableDetails(map[string]any{
				"value": m.Value,
			}).
			Mark(ierr.ErrInternal)
	}
	return amount, nil
}

// Capture is a provider-side record of funds actually collected for an order
type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

// IsCompleted reports whether funds were collected for this capture
func (c *Capture) IsCompleted() bool {
	return c != nil && c.Status == CaptureStatusCompleted
}

// Order is a provider-side record of a payment intent. It may contain one or
// more captures under its purchase units.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PurchaseUnit groups the payments collected for one part of an order
type PurchaseUnit struct {
	Payments *PurchaseUnitPayments `json:"payments,omitempty"`
}

// PurchaseUnitPayments holds the captures recorded against a purchase unit
type PurchaseUnitPayments struct {
	Captures []Capture `json:"captures"`
}

// FirstCapture returns the first capture recorded on the order, or nil when
// no funds have been captured yet
func (o *Order) FirstCapture() *Capture {
	if o == nil {
		return nil
	}
	for _, unit := range o.PurchaseUnits {
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			return &unit.Payments.Captures[0]
		}
	}
	return nil
}

// tokenResponse is the OAuth2 client-credentials exchange response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
