package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusnav/nextclass/internal/instrumentation"
	"github.com/campusnav/nextclass/internal/logging"
)

// SessionBroker is the importer's view of the session owner. The importer
// never holds a session id beyond a single call.
type SessionBroker interface {
	// Establish returns the active session id, creating one if needed.
	Establish(ctx context.Context) (string, error)

	// Reauthorize replaces a session observed as expired. Concurrent
	// callers share a single re-authorization.
	Reauthorize(ctx context.Context, stale string) (string, error)
}

// Source fetches catalog and event data under a session. Implementations
// map their transport's 401/403 to ErrSessionExpired and perform no retries
// of their own.
type Source interface {
	ListCalendars(ctx context.Context, sessionID string) ([]Calendar, error)
	FetchWindow(ctx context.Context, sessionID, calendarID string, days int, timeZone string) ([]RawEvent, error)
}

// Importer runs the import pipeline: session-bearing fetches with the
// single documented expiry retry, per-item normalization and next-event
// selection.
type Importer struct {
	source  Source
	broker  SessionBroker
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewImporter creates an importer. logger and metrics may be nil.
func NewImporter(source Source, broker SessionBroker, logger *slog.Logger, metrics *instrumentation.Metrics) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Importer{
		source:  source,
		broker:  broker,
		logger:  logger,
		metrics: metrics,
	}
}

// Calendars lists the catalog visible to the current session, recovering
// from expiry once.
func (i *Importer) Calendars(ctx context.Context) ([]Calendar, error) {
	var cals []Calendar
	err := i.withSession(ctx, "list_calendars", func(ctx context.Context, sessionID string) error {
		var err error
		cals, err = i.source.ListCalendars(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cals, nil
}

// CalendarByName resolves a calendar display name to its catalog entry.
// An empty name or "primary" selects the primary calendar.
func (i *Importer) CalendarByName(ctx context.Context, name string) (Calendar, error) {
	cals, err := i.Calendars(ctx)
	if err != nil {
		return Calendar{}, err
	}

	for _, cal := range cals {
		if name == "" || name == "primary" {
			if cal.Primary {
				return cal, nil
			}
			continue
		}
		if cal.DisplayName == name {
			return cal, nil
		}
	}

	if name == "" || name == "primary" {
		// No entry flagged primary; the provider accepts the id alias.
		return Calendar{ID: "primary", DisplayName: "primary", Primary: true}, nil
	}
	return Calendar{}, fmt.Errorf("calendar not found by name: %s", name)
}

// ImportWindow fetches the raw events of one calendar over the next days
// days. On expiry the session is re-authorized and the fetch retried
// exactly once; whatever the retry returns is final. The bounded retry
// keeps the import from looping against a provider that keeps rejecting
// credentials.
func (i *Importer) ImportWindow(ctx context.Context, calendarID string, days int, timeZone string) ([]RawEvent, error) {
	var events []RawEvent
	err := i.withSession(ctx, "import_window", func(ctx context.Context, sessionID string) error {
		var err error
		events, err = i.source.FetchWindow(ctx, sessionID, calendarID, days, timeZone)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ImportEvents fetches a window and normalizes it. Malformed raw events are
// dropped individually and counted; they never abort the import.
func (i *Importer) ImportEvents(ctx context.Context, calendarID string, days int, timeZone string) ([]Event, int, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid time zone %q: %w", timeZone, err)
	}

	started := time.Now()
	raw, err := i.ImportWindow(ctx, calendarID, days, timeZone)
	if err != nil {
		i.metrics.RecordImport(ctx, calendarID, 0, time.Since(started), false)
		return nil, 0, err
	}

	events := make([]Event, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		ev, err := Normalize(r, loc)
		if err != nil {
			dropped++
			i.logger.Warn("dropping malformed event",
				logging.CalendarID(calendarID),
				logging.Err(err))
			continue
		}
		events = append(events, ev)
	}

	i.metrics.RecordImport(ctx, calendarID, dropped, time.Since(started), true)
	i.logger.Info("imported event window",
		logging.CalendarID(calendarID),
		slog.Int("days", days),
		slog.Int("events", len(events)),
		slog.Int("dropped", dropped))
	return events, dropped, nil
}

// NextUpcoming imports a window and returns the next upcoming event. The
// boolean reports whether one exists within the window.
func (i *Importer) NextUpcoming(ctx context.Context, calendarID string, days int, timeZone string, now time.Time) (Event, bool, error) {
	events, _, err := i.ImportEvents(ctx, calendarID, days, timeZone)
	if err != nil {
		return Event{}, false, err
	}
	ev, ok := NextEvent(events, now)
	return ev, ok, nil
}

// withSession runs one session-bearing call with the bounded expiry
// recovery: invalidate-and-reauthorize, then a single retry. The importer
// never issues more than two fetch attempts per call, and the retry starts
// only after the re-authorization has fully completed.
func (i *Importer) withSession(ctx context.Context, op string, call func(ctx context.Context, sessionID string) error) error {
	sessionID, err := i.broker.Establish(ctx)
	if err != nil {
		return err
	}

	err = call(ctx, sessionID)
	i.metrics.RecordFetchAttempt(ctx, op, err == nil)
	if !errors.Is(err, ErrSessionExpired) {
		return err
	}

	i.logger.Info("session expired; re-authorizing once", logging.Operation(op))
	fresh, err := i.broker.Reauthorize(ctx, sessionID)
	i.metrics.RecordReauthorization(ctx, err == nil)
	if err != nil {
		return err
	}

	err = call(ctx, fresh)
	i.metrics.RecordFetchAttempt(ctx, op, err == nil)
	return err
}
