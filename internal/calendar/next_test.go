package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextEvent(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)

	at := func(offset time.Duration, id string) Event {
		return Event{ID: id, Start: now.Add(offset), End: now.Add(offset + time.Hour)}
	}

	t.Run("picks soonest upcoming", func(t *testing.T) {
		events := []Event{
			at(3*time.Hour, "later"),
			at(-2*time.Hour, "past"),
			at(time.Hour, "soonest"),
		}

		ev, ok := NextEvent(events, now)
		require.True(t, ok)
		assert.Equal(t, "soonest", ev.ID)
	})

	t.Run("event starting exactly now counts", func(t *testing.T) {
		events := []Event{at(0, "now")}

		ev, ok := NextEvent(events, now)
		require.True(t, ok)
		assert.Equal(t, "now", ev.ID)
	})

	t.Run("all in the past", func(t *testing.T) {
		events := []Event{at(-time.Hour, "a"), at(-2*time.Hour, "b")}

		_, ok := NextEvent(events, now)
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := NextEvent(nil, now)
		assert.False(t, ok)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		events := []Event{
			at(time.Hour, "first"),
			at(time.Hour, "second"),
		}

		ev, ok := NextEvent(events, now)
		require.True(t, ok)
		assert.Equal(t, "first", ev.ID)
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		events := []Event{
			at(2*time.Hour, "b"),
			at(time.Hour, "a"),
		}

		_, _ = NextEvent(events, now)
		assert.Equal(t, "b", events[0].ID)
		assert.Equal(t, "a", events[1].ID)
	})
}
