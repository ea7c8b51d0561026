// Package errdefs defines the error taxonomy shared by every remote call the
// Hermes client makes.
//
// Every concrete error unwraps to one of the sentinel values below, so callers
// can branch with errors.Is and extract structured fields with errors.As.
package errdefs

import (
	"errors"
	"fmt"
)

// Sentinel errors for each error class.
var (
	ErrAuth        = errors.New("authentication failed")
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrAPI         = errors.New("api error")
	ErrConnection  = errors.New("connection error")
	ErrTimeout     = errors.New("request timed out")
	ErrValidation  = errors.New("validation error")
)

// APIError is returned for any HTTP response with status >= 400 that has no
// more specific mapping.
type APIError struct {
	Msg        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *APIError) Unwrap() []error { return unwrap(ErrAPI, e.Err) }

// AuthError is returned for 401 and 403 responses.
type AuthError struct {
	Msg        string
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string { return e.Msg }

func (e *AuthError) Unwrap() error { return ErrAuth }

// Forbidden reports whether the server rejected the caller's permissions
// rather than its credentials.
func (e *AuthError) Forbidden() bool { return e.StatusCode == 403 }

// NotFoundError is returned for 404 responses. Resource facades fill in the
// resource type and identifier they asked for.
type NotFoundError struct {
	Msg          string
	ResourceType string
	ResourceID   string
	Body         []byte
}

func (e *NotFoundError) Error() string {
	switch {
	case e.ResourceType != "" && e.ResourceID != "":
		return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
	case e.Msg != "":
		return e.Msg
	default:
		return ErrNotFound.Error()
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// RateLimitError is returned for 429 responses. RetryAfter is the number of
// seconds from the Retry-After header, or zero when absent or unparsable.
type RateLimitError struct {
	Msg        string
	RetryAfter int
	Body       []byte
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %ds)", e.Msg, e.RetryAfter)
	}
	return e.Msg
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ConnectionError is returned when the server stays unreachable after all retries.
type ConnectionError struct {
	Msg      string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConnectionError) Unwrap() []error { return unwrap(ErrConnection, e.Err) }

// TimeoutError is returned when every attempt exceeded the request deadline.
type TimeoutError struct {
	Msg      string
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TimeoutError) Unwrap() []error { return unwrap(ErrTimeout, e.Err) }

// ValidationError reports malformed local input or configuration.
type ValidationError struct {
	Field string
	Value any
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, msg)
	}
	return fmt.Sprintf("validation error: %s", msg)
}

func (e *ValidationError) Unwrap() []error { return unwrap(ErrValidation, e.Err) }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field: field,
		Value: value,
		Msg:   fmt.Sprintf(format, args...),
	}
}

func unwrap(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAuth reports whether err is an authentication or authorization error.
func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

// IsRateLimited reports whether err is a rate-limit error.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsTransient reports whether err is a transport failure that exhausted its retries.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// StatusCode returns the HTTP status carried by err, or 0 if it has none.
func StatusCode(err error) int {
	var (
		apiErr  *APIError
		authErr *AuthError
		nfErr   *NotFoundError
		rlErr   *RateLimitError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.StatusCode
	case errors.As(err, &authErr):
		return authErr.StatusCode
	case errors.As(err, &nfErr):
		return 404
	case errors.As(err, &rlErr):
		return 429
	}
	return 0
}

// Body returns the raw response body carried by err, if any.
func Body(err error) []byte {
	var (
		apiErr  *APIError
		authErr *AuthError
		nfErr   *NotFoundError
		rlErr   *RateLimitError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Body
	case errors.As(err, &authErr):
		return authErr.Body
	case errors.As(err, &nfErr):
		return nfErr.Body
	case errors.As(err, &rlErr):
		return rlErr.Body
	}
	return nil
}
