// Package google is the direct-provider event source for the token-based
// variant: catalog and event fetches go straight to the Google Calendar API
// using the provider access token as the session credential.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/campusnav/nextclass/internal/calendar"
	"github.com/campusnav/nextclass/internal/logging"
)

// maxResults caps one window fetch; recurring events arrive pre-expanded.
const maxResults = 250

// Source implements the importer's Source against the Google Calendar API.
// It holds no credential state: the session id passed per call is the
// provider access token.
type Source struct {
	logger *slog.Logger
}

// NewSource creates a direct-provider source.
func NewSource(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{logger: logger}
}

// service builds a Calendar API client authenticated with the given access
// token.
func (s *Source) service(ctx context.Context, accessToken string) (*calendarapi.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	svc, err := calendarapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// ListCalendars lists the calendars visible to the token.
func (s *Source) ListCalendars(ctx context.Context, sessionID string) ([]calendar.Calendar, error) {
	svc, err := s.service(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("list calendars", err)
	}

	cals := make([]calendar.Calendar, 0, len(list.Items))
	for _, entry := range list.Items {
		cals = append(cals, calendar.Calendar{
			ID:          entry.Id,
			DisplayName: entry.Summary,
			Primary:     entry.Primary,
		})
	}

	s.logger.Debug("listed calendars from provider",
		logging.Operation("list_calendars"),
		slog.Int("count", len(cals)))
	return cals, nil
}

// FetchWindow fetches the raw events of one calendar over the next days
// days, evaluated in the given time zone.
func (s *Source) FetchWindow(ctx context.Context, sessionID, calendarID string, days int, timeZone string) ([]calendar.RawEvent, error) {
	svc, err := s.service(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	call := svc.Events.List(calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		TimeZone(timeZone).
		Context(ctx)

	events, err := call.Do()
	if err != nil {
		return nil, mapAPIError("fetch window", err)
	}

	raw := make([]calendar.RawEvent, 0, len(events.Items))
	for _, item := range events.Items {
		raw = append(raw, toRawEvent(item))
	}

	s.logger.Debug("fetched event window from provider",
		logging.Operation("import_window"),
		logging.CalendarID(calendarID),
		slog.Int("count", len(raw)))
	return raw, nil
}

// toRawEvent converts a provider event into the provider-shaped record the
// normalizer consumes.
func toRawEvent(item *calendarapi.Event) calendar.RawEvent {
	raw := calendar.RawEvent{
		ID:       item.Id,
		Summary:  item.Summary,
		Location: item.Location,
	}
	if item.Start != nil {
		raw.Start = &calendar.RawEventTime{
			DateTime: item.Start.DateTime,
			Date:     item.Start.Date,
			TimeZone: item.Start.TimeZone,
		}
	}
	if item.End != nil {
		raw.End = &calendar.RawEventTime{
			DateTime: item.End.DateTime,
			Date:     item.End.Date,
			TimeZone: item.End.TimeZone,
		}
	}
	return raw
}

// mapAPIError maps provider 401/403 responses to the expiry signal the
// importer recovers from.
func mapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return calendar.ErrSessionExpired
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
