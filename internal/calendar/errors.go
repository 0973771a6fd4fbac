package calendar

import (
	"errors"
	"fmt"
)

// ErrSessionExpired signals a 401/403 from a session-bearing call. Sources
// map their transport's expiry signal to this error and never retry on
// their own; the importer owns the single-retry recovery.
var ErrSessionExpired = errors.New("session expired")

// ErrMalformedResponse signals a source body that does not conform to the
// documented shape.
var ErrMalformedResponse = errors.New("malformed response")

// MalformedEventError reports a single raw event that could not be
// normalized. Import continues with the remaining items; this error is
// never escalated to abort a whole window fetch.
type MalformedEventError struct {
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *MalformedEventError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed event: %s", e.Reason)
	}
	return fmt.Sprintf("malformed event %s: %s", e.ID, e.Reason)
}
