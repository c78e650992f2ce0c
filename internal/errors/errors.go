package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound            = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists       = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation          = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation    = new(ErrCodeInvalidOperation, "invalid operation")
	ErrHTTPClient          = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase            = new(ErrCodeDatabase, "database error")
	ErrInternal            = new(ErrCodeInternal, "internal error")
	ErrServiceUnavailable  = new(ErrCodeServiceUnavailable, "service unavailable")
	ErrProviderAuth        = new(ErrCodeProviderAuth, "provider authentication error")
	ErrEnvironmentMismatch = new(ErrCodeEnvironmentMismatch, "provider environment mismatch")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:          http.StatusInternalServerError,
		ErrDatabase:            http.StatusInternalServerError,
		ErrInternal:            http.StatusInternalServerError,
		ErrNotFound:            http.StatusNotFound,
		ErrAlreadyExists:       http.StatusConflict,
		ErrValidation:          http.StatusBadRequest,
		ErrInvalidOperation:    http.StatusBadRequest,
		ErrServiceUnavailable:  http.StatusBadGateway,
		ErrProviderAuth:        http.StatusBadGateway,
		ErrEnvironmentMismatch: http.StatusUnprocessableEntity,
	}
)

const (
	ErrCodeHTTPClient          = "http_client_error"
	ErrCodeInternal            = "internal_error"
	ErrCodeNotFound            = "not_found"
	ErrCodeAlreadyExists       = "already_exists"
	ErrCodeValidation          = "validation_error"
	ErrCodeInvalidOperation    = "invalid_operation"
	ErrCodeDatabase            = "database_error"
	ErrCodeServiceUnavailable  = "service_unavailable"
	ErrCodeProviderAuth        = "provider_auth_error"
	ErrCodeEnvironmentMismatch = "environment_mismatch"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsServiceUnavailable checks if an error is a transient provider error
// that exhausted its retries
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

// IsProviderAuth checks if an error is a provider authentication error
func IsProviderAuth(err error) bool {
	return errors.Is(err, ErrProviderAuth)
}

// IsEnvironmentMismatch checks if an error indicates the provider resources
// exist in a different environment than the configured credentials
func IsEnvironmentMismatch(err error) bool {
	return errors.Is(err, ErrEnvironmentMismatch)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
