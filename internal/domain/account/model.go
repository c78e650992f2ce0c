package account

import (
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/types"
	"github.com/shopspring/decimal"
)

// Account represents a collector account holding a spendable balance
type Account struct {
	// Unique identifier for this account
	ID string `json:"id" db:"id"`
	// Display name of the account holder
	Name string `json:"name" db:"name"`
	// Contact email of the account holder
	Email string `json:"email" db:"email"`
	// The balance field holds the spendable amount in major currency units
	// (pounds, not pence). Legacy rows may still carry minor-unit values
	// until first touched; see service.LedgerService.NormalizeBalance.
	Balance decimal.Decimal `json:"balance" db:"balance"`

	types.BaseModel
}

// Validate validates the account
func (a *Account) Validate() error {
	if a.ID == "" {
		return ierr.NewError("invalid account id").
			WithHint("Account id is required").
			Mark(ierr.ErrValidation)
	}
	if a.Balance.IsNegative() {
		return ierr.NewError("invalid balance").
			WithHint("Balance cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// HasLegacyBalance reports whether the stored balance still uses the legacy
// minor-unit representation
func (a *Account) HasLegacyBalance() bool {
	return a.Balance.GreaterThan(types.LegacyBalanceThresholdDecimal)
}

// TableName returns the table name for the account
func (a *Account) TableName() string {
	return "accounts"
}
