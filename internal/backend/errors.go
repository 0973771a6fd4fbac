package backend

import (
	"fmt"
)

// ExchangeError reports a backend rejection of the authorization code. The
// message is the backend response body.
type ExchangeError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	return fmt.Sprintf("auth code exchange failed (status %d): %s", e.Status, e.Message)
}

// TransportError wraps a transport-level failure so callers can tell a
// network problem apart from a backend rejection.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
