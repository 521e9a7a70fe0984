package error

import "errors"

// Sync domain errors.
var (
	// ErrSyncInProgress is returned when a sync trigger arrives while a cycle is running.
	ErrSyncInProgress = errors.New("sync cycle already in progress")

	// ErrRemoteUnavailable is returned when the remote API cannot be reached.
	ErrRemoteUnavailable = errors.New("remote API unavailable")

	// ErrRemoteRejected is returned when the remote API answered with a non-2xx status.
	ErrRemoteRejected = errors.New("remote API rejected the request")

	// ErrNoSession is returned when no valid bearer token is available.
	ErrNoSession = errors.New("no valid session token available")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionStatus is returned when the transaction status is invalid.
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")

	// ErrTransactionNotFound is returned when a transaction is not in the local cache.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrEventNotFound is returned when an event is not in the local agenda.
	ErrEventNotFound = errors.New("event not found")
)

// SyncErrorCode defines error codes for sync errors.
// Format: SYN-XXYYYY where XX is category and YYYY is specific error.
type SyncErrorCode string

const (
	ErrCodeSyncInProgress           SyncErrorCode = "SYN-010001"
	ErrCodeRemoteUnavailable        SyncErrorCode = "SYN-020001"
	ErrCodeRemoteRejected           SyncErrorCode = "SYN-020002"
	ErrCodeNoSession                SyncErrorCode = "SYN-020003"
	ErrCodeInvalidTransactionType   SyncErrorCode = "SYN-030001"
	ErrCodeInvalidTransactionStatus SyncErrorCode = "SYN-030002"
	ErrCodeTransactionNotFound      SyncErrorCode = "SYN-030003"
	ErrCodeEventNotFound            SyncErrorCode = "SYN-030004"
)

// SyncError represents a sync error with code and message.
type SyncError struct {
	Code    SyncErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError with the given code and message.
func NewSyncError(code SyncErrorCode, message string, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
