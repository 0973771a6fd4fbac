package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnav/nextclass/internal/calendar"
)

func TestWrite(t *testing.T) {
	start := time.Date(2026, 9, 8, 14, 35, 0, 0, time.UTC)
	events := []calendar.Event{
		{
			ID:       "ev1",
			Title:    "COMP 248 Lecture",
			Location: "SGW - Hall Building Rm 607",
			Start:    start,
			End:      start.Add(75 * time.Minute),
		},
		{
			ID:     "ev2",
			Title:  "Reading week",
			AllDay: true,
			Start:  time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, events))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "UID:ev1")
	assert.Contains(t, out, "SUMMARY:COMP 248 Lecture")
	assert.Contains(t, out, "LOCATION:SGW - Hall Building Rm 607")
	assert.Contains(t, out, "UID:ev2")
	assert.Contains(t, out, "SUMMARY:Reading week")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestWriteGeneratesUIDWhenMissing(t *testing.T) {
	start := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	events := []calendar.Event{{Title: "Untracked", Start: start, End: start.Add(time.Hour)}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, events))
	assert.Contains(t, buf.String(), "UID:nextclass-")
}
