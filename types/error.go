package types

import "fmt"

// ErrorCode represents a unified error code across the orchestration layer.
type ErrorCode string

// Orchestration error codes
const (
	// ErrConfiguration covers unknown model ids and malformed capability
	// table entries. Fatal, never retried.
	ErrConfiguration ErrorCode = "CONFIGURATION"

	// ErrValidation covers requested settings outside a model's declared
	// sets. Surfaced before any network call, never retried.
	ErrValidation ErrorCode = "VALIDATION"

	// ErrProvider covers failed remote calls, malformed responses, and
	// application-level failure statuses reported by the remote.
	ErrProvider ErrorCode = "PROVIDER"

	// ErrTimeout covers polling deadlines. A distinct code so callers can
	// tell the two apart, but it follows the ErrProvider retry policy.
	ErrTimeout ErrorCode = "TIMEOUT"

	// ErrCreditDenied is returned when an external billing check vetoes a
	// submission. Never retried.
	ErrCreditDenied ErrorCode = "CREDIT_DENIED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Provider  string    `json:"provider,omitempty"`
	Field     string    `json:"field,omitempty"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
// Provider and timeout errors are retryable by default.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: code == ErrProvider || code == ErrTimeout,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider tag.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// WithField records the offending request field for validation errors.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
