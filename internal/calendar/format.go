package calendar

import (
	"fmt"

	"github.com/campusnav/nextclass/internal/location"
)

// FormatWhen renders the event's time span for display, e.g.
// "Tue, 14:35 - 15:50", or "All day" for all-day events.
func FormatWhen(ev Event) string {
	if ev.AllDay {
		return "All day"
	}
	if ev.Start.IsZero() || ev.End.IsZero() {
		return "(missing time)"
	}
	return fmt.Sprintf("%s, %s - %s",
		ev.Start.Format("Mon"),
		ev.Start.Format("15:04"),
		ev.End.Format("15:04"))
}

// FormatEventBlock renders the display block for an event: campus,
// building, room and time span on separate lines.
func FormatEventBlock(ev Event) string {
	label := location.Parse(ev.Location)
	return fmt.Sprintf("%s\n%s\nClassroom: %s\n%s",
		label.Campus, label.Building, label.Room, FormatWhen(ev))
}
