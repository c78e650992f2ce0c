package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchingCurrency(t *testing.T) {
	assert.True(t, IsMatchingCurrency("GBP", "GBP"))
	assert.False(t, IsMatchingCurrency("GBP", "USD"))
	// exact match: case variants are different codes
	assert.False(t, IsMatchingCurrency("GBP", "gbp"))
	assert.False(t, IsMatchingCurrency("", ""))
}

func TestPaymentGatewayValidate(t *testing.T) {
	assert.NoError(t, PaymentGatewayPayPal.Validate())
	assert.Error(t, PaymentGateway("stripe").Validate())
}

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix(UUID_PREFIX_PAYMENT)
	assert.True(t, strings.HasPrefix(id, "pay_"))
	assert.NotEqual(t, id, GenerateUUIDWithPrefix(UUID_PREFIX_PAYMENT))
}
