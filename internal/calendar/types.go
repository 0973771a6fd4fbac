package calendar

import (
	"time"
)

// Calendar describes one entry of the catalog visible to a session.
// Values are immutable snapshots of a single catalog fetch.
type Calendar struct {
	ID          string `json:"id"`
	DisplayName string `json:"summary"`
	Primary     bool   `json:"primary,omitempty"`
}

// RawEvent is the provider-shaped event record as returned by the backend.
// It is never mutated; normalization consumes it and produces an Event.
type RawEvent struct {
	ID       string        `json:"id"`
	Summary  string        `json:"summary"`
	Location string        `json:"location"`
	Start    *RawEventTime `json:"start"`
	End      *RawEventTime `json:"end"`
}

// RawEventTime carries either a timestamped instant (DateTime, RFC 3339) or
// a whole calendar date (Date, "2006-01-02") for all-day events.
type RawEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is the canonical, display-ready event. Start never exceeds End; a
// raw record that cannot satisfy that is rejected during normalization
// instead of being constructed.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Location string
}
