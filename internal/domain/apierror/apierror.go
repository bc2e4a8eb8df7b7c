// Package apierror defines the client-observable error taxonomy for calls
// into the remote backend: unreachable network, definite 4xx rejection,
// 5xx failure, expired authentication and local pre-request validation.
package apierror

import (
	"net/http"

	"medash/internal/errors"
)

// APIError is the interface every taxonomy member implements, so the
// delivery layer can map any propagated error to a response uniformly.
type APIError interface {
	error
	HTTPCode() int     // HTTP status code to surface
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
}

// NetworkUnreachableError means the backend could not be reached at all:
// connection refused, DNS failure, or timeout after retries were exhausted.
type NetworkUnreachableError struct {
	Err error
}

func (e *NetworkUnreachableError) Error() string { return e.Message() }

// Unwrap exposes the underlying transport error.
func (e *NetworkUnreachableError) Unwrap() error { return e.Err }

func (e *NetworkUnreachableError) HTTPCode() int { return http.StatusBadGateway }

func (e *NetworkUnreachableError) ErrorCode() string { return "BACKEND_UNREACHABLE" }

func (e *NetworkUnreachableError) Message() string {
	return "Cannot connect to backend. Please ensure your backend is running."
}

// ClientError is a definite 4xx outcome from the backend. It is never
// retried and carries the message extracted from the response body.
type ClientError struct {
	Status int
	Msg    string
}

func (e *ClientError) Error() string { return e.Msg }

func (e *ClientError) HTTPCode() int { return e.Status }

func (e *ClientError) ErrorCode() string { return "BACKEND_REJECTED" }

func (e *ClientError) Message() string { return e.Msg }

// ServerError is a 5xx outcome from the backend. The status is kept for
// logging; callers only see a generic try-again message.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string { return e.Message() }

func (e *ServerError) HTTPCode() int { return http.StatusBadGateway }

func (e *ServerError) ErrorCode() string { return "BACKEND_FAILED" }

func (e *ServerError) Message() string {
	return "Server error. Please try again later."
}

// AuthExpiredError is a 401 from any endpoint. Beyond being an error value
// it triggers session teardown through the client's expiry signal.
type AuthExpiredError struct{}

func (e *AuthExpiredError) Error() string { return e.Message() }

func (e *AuthExpiredError) HTTPCode() int { return http.StatusUnauthorized }

func (e *AuthExpiredError) ErrorCode() string { return "AUTH_EXPIRED" }

func (e *AuthExpiredError) Message() string {
	return "Your session has expired. Please log in again."
}

// ValidationError is raised locally before any request is made, e.g. for
// mismatched password confirmation or missing required fields.
type ValidationError struct {
	Msg string
}

// NewValidation creates a ValidationError with the given message.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) HTTPCode() int { return http.StatusBadRequest }

func (e *ValidationError) ErrorCode() string { return "VALIDATION_FAILED" }

func (e *ValidationError) Message() string { return e.Msg }

// IsAuthExpired reports whether err is (or wraps) an AuthExpiredError.
func IsAuthExpired(err error) bool {
	var target *AuthExpiredError

	return errors.As(err, &target)
}

// Retryable reports whether err may be retried. Definite server-side
// outcomes (4xx, auth expiry, local validation) are final; everything
// else is treated as transient.
func Retryable(err error) bool {
	var clientErr *ClientError
	var validationErr *ValidationError
	var authErr *AuthExpiredError

	return !errors.As(err, &clientErr) &&
		!errors.As(err, &validationErr) &&
		!errors.As(err, &authErr)
}
