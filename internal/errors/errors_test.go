package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		sentinel error
		status   int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrEnvironmentMismatch, http.StatusUnprocessableEntity},
		{ErrServiceUnavailable, http.StatusBadGateway},
		{ErrProviderAuth, http.StatusBadGateway},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrHTTPClient, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := NewError("boom").Mark(tt.sentinel)
		assert.Equal(t, tt.status, HTTPStatusFromErr(err), "sentinel %v", tt.sentinel)
	}

	// unmarked errors fall through to 500
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromErr(NewError("boom").Error()))
}

func TestSentinelMatchingSurvivesWrapping(t *testing.T) {
	err := WithError(NewError("inner").Mark(ErrServiceUnavailable)).
		WithHint("outer").
		Mark(ErrHTTPClient)

	// marks accumulate; the original classification stays visible
	assert.True(t, IsServiceUnavailable(err))
	assert.True(t, IsHTTPClient(err))
	assert.False(t, IsNotFound(err))
}
