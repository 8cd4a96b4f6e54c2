package canvas

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrTooManyPages is returned when a pagination chain exceeds the
	// configured page guard, which means the server never terminated it.
	ErrTooManyPages = errors.New("pagination chain exceeded page limit")
)

// bodyExcerptLimit caps how much of a response body gets carried inside an
// error or failure message.
const bodyExcerptLimit = 500

// APIError represents a non-2xx response from the Canvas API.
type APIError struct {
	StatusCode int
	Body       string // excerpt, capped at bodyExcerptLimit
	URL        string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("canvas API error (status %d) at %s: %s", e.StatusCode, e.URL, e.Body)
}

// TransportError represents a network-level failure (DNS, timeout,
// connection refused) before any HTTP status was received.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("canvas transport error at %s: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError represents locally rejected input that never reaches the
// network, such as non-numeric grade text.
type ValidationError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// excerpt truncates a response body for inclusion in errors and outcomes.
func excerpt(body []byte) string {
	if len(body) > bodyExcerptLimit {
		return string(body[:bodyExcerptLimit])
	}
	return string(body)
}
