package psychonautwiki

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQueryFailed is matched by every query failure, as opposed to a zero-result success
var ErrQueryFailed = errors.New("substance query failed")

var (
	// ErrTransport wraps connection-level failures, including timeouts
	ErrTransport = fmt.Errorf("%w: transport error", ErrQueryFailed)
	// ErrMalformedResponse is returned when the body is empty or not valid JSON
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrQueryFailed)
	// ErrMissingData is returned when the envelope has no data field
	ErrMissingData = fmt.Errorf("%w: response has no data", ErrQueryFailed)
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("substance query failed: upstream returned status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrQueryFailed
}

// APIError is returned when the envelope carries a GraphQL error list
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "substance query failed: api errors: " + strings.Join(e.Messages, "; ")
}

func (e *APIError) Unwrap() error {
	return ErrQueryFailed
}
