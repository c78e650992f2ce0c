package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PaymentStatus represents the status of a recorded payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusCompleted,
		PaymentStatusFailed,
		PaymentStatusRefunded,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid payment status: %s", s)
	}
	return nil
}

// PaymentGateway represents the external provider a payment was processed by
type PaymentGateway string

const (
	PaymentGatewayPayPal PaymentGateway = "paypal"
)

func (g PaymentGateway) String() string {
	return string(g)
}

func (g PaymentGateway) Validate() error {
	allowed := []PaymentGateway{
		PaymentGatewayPayPal,
	}
	if !lo.Contains(allowed, g) {
		return fmt.Errorf("invalid payment gateway: %s", g)
	}
	return nil
}

// IsMatchingCurrency reports whether two ISO currency codes are identical.
// The comparison is exact; "gbp" does not match "GBP".
func IsMatchingCurrency(a, b string) bool {
	return a != "" && a == b
}
