package api

import "fmt"

// APIError reports a non-success HTTP status. Message comes from the
// backend's structured detail field when present, otherwise the raw body or
// the status line.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a client-side precondition failure raised before any
// network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
