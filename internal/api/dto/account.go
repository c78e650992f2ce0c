package dto

import (
	"github.com/artcove/artcove/internal/domain/account"
)

// AccountResponse represents an account in API responses
type AccountResponse struct {
	*account.Account
}

// NewAccountResponse creates a new account response
func NewAccountResponse(a *account.Account) *AccountResponse {
	return &AccountResponse{Account: a}
}
