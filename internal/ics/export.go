// Package ics serializes normalized events to an iCalendar file so an
// imported window can be handed to other tools.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/campusnav/nextclass/internal/calendar"
)

// prodID identifies this application in generated calendars.
const prodID = "-//campusnav//nextclass//EN"

// Write serializes the events as a VCALENDAR to w.
func Write(w io.Writer, events []calendar.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().UTC()
	for _, ev := range events {
		id := ev.ID
		if id == "" {
			id = fmt.Sprintf("nextclass-%d", ev.Start.Unix())
		}

		ve := cal.AddEvent(id)
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.End)
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
	}

	return cal.SerializeTo(w)
}
