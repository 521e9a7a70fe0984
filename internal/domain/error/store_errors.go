// Package error defines domain-specific errors for the local sync agent.
package error

import "errors"

// Storage domain errors.
var (
	// ErrStoreUnavailable is returned when a store backend cannot be reached.
	ErrStoreUnavailable = errors.New("store backend unavailable")

	// ErrStoreSerialization is returned when a value cannot be encoded or decoded.
	ErrStoreSerialization = errors.New("store value serialization failed")

	// ErrSecureKeyInvalid is returned when the protected-tier key is missing or malformed.
	ErrSecureKeyInvalid = errors.New("secure store key must be 32 bytes, hex encoded")
)

// StoreErrorCode defines error codes for storage errors.
// Format: STO-XXYYYY where XX is category and YYYY is specific error.
type StoreErrorCode string

const (
	ErrCodeStoreUnavailable   StoreErrorCode = "STO-010001"
	ErrCodeStoreSerialization StoreErrorCode = "STO-010002"
	ErrCodeSecureKeyInvalid   StoreErrorCode = "STO-010003"
)

// StoreError represents a storage error with code and message.
type StoreError struct {
	Code    StoreErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given code and message.
func NewStoreError(code StoreErrorCode, message string, err error) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
