// Package refresh implements the session-credential refresh engine
// (spec §4.6) and its scheduler (spec §4.7): HTTP scrape, validation,
// retry with exponential backoff and jitter, a concurrent-refresh
// guard, and classification of failures as retryable or terminal.
package refresh

// Code is the refresh error classification from spec §4.6.4.
type Code string

const (
	CodeNetworkError         Code = "NETWORK_ERROR"
	CodeRateLimited          Code = "RATE_LIMITED"
	CodeStorageError         Code = "STORAGE_ERROR"
	CodeRefreshInProgress    Code = "REFRESH_IN_PROGRESS"
	CodeSessionRevoked       Code = "SESSION_REVOKED"
	CodeInvalidResponse      Code = "INVALID_RESPONSE"
	CodeRefreshNotAvailable  Code = "REFRESH_NOT_AVAILABLE"
	CodeUnknown              Code = "UNKNOWN"
)

// retryable mirrors the table in spec §4.6.4.
var retryable = map[Code]bool{
	CodeNetworkError:        true,
	CodeRateLimited:         true,
	CodeStorageError:        true,
	CodeRefreshInProgress:   true,
	CodeSessionRevoked:      false,
	CodeInvalidResponse:     false,
	CodeRefreshNotAvailable: false,
	CodeUnknown:             false,
}

// Error is a classified refresh failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

// Retryable reports whether this error's code permits another attempt.
func (e *Error) Retryable() bool { return retryable[e.Code] }

func newErr(code Code, msg string) *Error { return &Error{Code: code, Message: msg} }
