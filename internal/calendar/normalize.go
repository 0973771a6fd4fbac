package calendar

import (
	"fmt"
	"time"
)

// NoTitle is the placeholder used when an event has no summary.
const NoTitle = "(no title)"

// Normalize converts one provider-shaped raw event into a canonical Event.
//
// When both endpoints carry a whole date and no timestamp, the event is
// all-day and the instants are those dates at local midnight in loc.
// Otherwise both endpoints must carry an RFC 3339 timestamp. Anything else,
// including an interval that ends before it starts, yields a
// MalformedEventError.
func Normalize(raw RawEvent, loc *time.Location) (Event, error) {
	if loc == nil {
		loc = time.Local
	}

	ev := Event{
		ID:       raw.ID,
		Title:    raw.Summary,
		Location: raw.Location,
	}
	if ev.Title == "" {
		ev.Title = NoTitle
	}

	if raw.Start == nil || raw.End == nil {
		return Event{}, &MalformedEventError{ID: raw.ID, Reason: "missing start or end"}
	}

	allDay := raw.Start.Date != "" && raw.End.Date != "" &&
		raw.Start.DateTime == "" && raw.End.DateTime == ""

	if allDay {
		start, err := time.ParseInLocation("2006-01-02", raw.Start.Date, loc)
		if err != nil {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: fmt.Sprintf("invalid start date %q", raw.Start.Date)}
		}
		end, err := time.ParseInLocation("2006-01-02", raw.End.Date, loc)
		if err != nil {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: fmt.Sprintf("invalid end date %q", raw.End.Date)}
		}
		ev.Start, ev.End, ev.AllDay = start, end, true
	} else {
		if raw.Start.DateTime == "" {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: "missing start time"}
		}
		if raw.End.DateTime == "" {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: "missing end time"}
		}
		start, err := time.Parse(time.RFC3339, raw.Start.DateTime)
		if err != nil {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: fmt.Sprintf("invalid start time %q", raw.Start.DateTime)}
		}
		end, err := time.Parse(time.RFC3339, raw.End.DateTime)
		if err != nil {
			return Event{}, &MalformedEventError{ID: raw.ID, Reason: fmt.Sprintf("invalid end time %q", raw.End.DateTime)}
		}
		ev.Start, ev.End = start.In(loc), end.In(loc)
	}

	if ev.Start.After(ev.End) {
		return Event{}, &MalformedEventError{ID: raw.ID, Reason: "start is after end"}
	}

	return ev, nil
}
