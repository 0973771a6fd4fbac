// Package backend is the HTTP client for the campus backend that fronts the
// calendar provider: it exchanges authorization codes for opaque sessions,
// lists the calendar catalog and fetches windowed raw events.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/campusnav/nextclass/internal/calendar"
	"github.com/campusnav/nextclass/internal/logging"
)

// SessionHeader carries the opaque session id on catalog and import calls.
const SessionHeader = "X-Session-Id"

// DefaultTimeout bounds a single backend request when no custom HTTP client
// is supplied.
const DefaultTimeout = 15 * time.Second

// Client talks to the campus backend. It holds no session state; the caller
// passes the session id per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to change the
// request timeout or the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request-level debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeAuthCode posts the provider authorization code and returns the
// opaque session id issued by the backend. A non-2xx response surfaces the
// response body as the exchange failure message.
func (c *Client) ExchangeAuthCode(ctx context.Context, authCode string) (string, error) {
	body, err := json.Marshal(map[string]string{"authCode": authCode})
	if err != nil {
		return "", fmt.Errorf("failed to encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/exchange", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ExchangeError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", calendar.ErrMalformedResponse, err)
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("%w: exchange response carries no session id", calendar.ErrMalformedResponse)
	}

	c.logger.Debug("exchanged auth code for session",
		logging.Operation("exchange"),
		slog.String("session", logging.SanitizeToken(out.SessionID)))
	return out.SessionID, nil
}

// ListCalendars returns the catalog of calendars visible to the session, in
// backend order. A 401/403 maps to ErrSessionExpired; the caller owns the
// expiry recovery.
func (c *Client) ListCalendars(ctx context.Context, sessionID string) ([]calendar.Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calendars", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set(SessionHeader, sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "list calendars", Err: err}
	}
	defer resp.Body.Close()

	if err := checkSessionStatus(resp, "list calendars"); err != nil {
		return nil, err
	}

	var cals []calendar.Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cals); err != nil {
		return nil, fmt.Errorf("%w: calendars body is not an array: %v", calendar.ErrMalformedResponse, err)
	}

	c.logger.Debug("listed calendars", logging.Operation("list_calendars"), slog.Int("count", len(cals)))
	return cals, nil
}

// FetchWindow fetches the raw events of one calendar over the next days
// days, evaluated in the given IANA time zone. The backend may answer with
// a bare array or an object wrapping it in an "events" field.
func (c *Client) FetchWindow(ctx context.Context, sessionID, calendarID string, days int, timeZone string) ([]calendar.RawEvent, error) {
	u := fmt.Sprintf("%s/calendars/%s/import?days=%s&timeZone=%s",
		c.baseURL,
		url.PathEscape(calendarID),
		strconv.Itoa(days),
		url.QueryEscape(timeZone))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build import request: %w", err)
	}
	req.Header.Set(SessionHeader, sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "import window", Err: err}
	}
	defer resp.Body.Close()

	if err := checkSessionStatus(resp, "import window"); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "import window", Err: err}
	}

	events, err := decodeEvents(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched event window",
		logging.Operation("import_window"),
		slog.String("calendar", calendarID),
		slog.Int("days", days),
		slog.Int("count", len(events)))
	return events, nil
}

// decodeEvents accepts either a bare event array or {"events": [...]}.
func decodeEvents(body []byte) ([]calendar.RawEvent, error) {
	var events []calendar.RawEvent
	if err := json.Unmarshal(body, &events); err == nil {
		return events, nil
	}

	var wrapped struct {
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.Events == nil {
		return nil, fmt.Errorf("%w: import body is neither an event array nor an events object", calendar.ErrMalformedResponse)
	}
	if err := json.Unmarshal(wrapped.Events, &events); err != nil {
		return nil, fmt.Errorf("%w: events field is not an array: %v", calendar.ErrMalformedResponse, err)
	}
	return events, nil
}

// checkSessionStatus maps 401/403 to ErrSessionExpired and any other non-2xx
// status to an error carrying the backend message.
func checkSessionStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return calendar.ErrSessionExpired
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: backend returned status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
}
