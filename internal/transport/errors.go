package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for the remote API. Callers match with errors.Is; none of
// these is fatal to the process, every failure is scoped to the triggering
// action.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("request rejected by server validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServerFault  = errors.New("server fault")
	ErrNetwork      = errors.New("network failure")
)

// APIError carries the server's error body alongside the taxonomy sentinel.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(status int, message string) *APIError {
	e := &APIError{StatusCode: status, Message: message}
	switch {
	case status == http.StatusNotFound:
		e.kind = ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.kind = ErrUnauthorized
	case status >= 500:
		e.kind = ErrServerFault
	default:
		e.kind = ErrValidation
	}
	return e
}
