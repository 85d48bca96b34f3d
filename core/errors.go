package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound signals that the requested entity does not exist on the
	// backend. Terminal for the current view; no retry.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals a role/permission mismatch. Terminal for the
	// current view; no retry.
	ErrForbidden = errors.New("permission denied")

	// ErrUnauthenticated signals a missing/expired token (HTTP 401); the app
	// shell is expected to redirect to login.
	ErrUnauthenticated = errors.New("user not authenticated")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// TransportError wraps a network failure or an unexpected backend status.
// Transport errors are retryable: the triggering action may be re-invoked
// without rebuilding state.
type TransportError struct {
	Op         string // e.g. "GET /api/quizzes/q1"
	StatusCode int    // 0 when the request never completed
	Err        error
}

func NewTransportError(op string, status int, err error) error {
	return &TransportError{Op: op, StatusCode: status, Err: err}
}

func (e TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

// IsRetryable reports whether the failed action may simply be re-invoked.
func IsRetryable(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}
