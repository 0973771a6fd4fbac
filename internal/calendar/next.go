package calendar

import (
	"sort"
	"time"
)

// NextEvent selects the soonest event starting at or after now. The sort is
// stable, so events sharing the same start keep their input order and the
// first one wins. The boolean reports whether an upcoming event exists.
func NextEvent(events []Event, now time.Time) (Event, bool) {
	upcoming := make([]Event, 0, len(events))
	for _, ev := range events {
		if !ev.Start.Before(now) {
			upcoming = append(upcoming, ev)
		}
	}
	if len(upcoming) == 0 {
		return Event{}, false
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	return upcoming[0], true
}
