package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnav/nextclass/internal/calendar"
)

func TestExchangeAuthCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/exchange", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "code-123", body["authCode"])

		json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-abc"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.ExchangeAuthCode(context.Background(), "code-123")
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", id)
}

func TestExchangeAuthCodeFailureCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid authorization code", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ExchangeAuthCode(context.Background(), "bad-code")

	var exchangeErr *ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.Status)
	assert.Equal(t, "invalid authorization code", exchangeErr.Message)
}

func TestExchangeAuthCodeMissingSessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ExchangeAuthCode(context.Background(), "code")
	require.ErrorIs(t, err, calendar.ErrMalformedResponse)
}

func TestExchangeAuthCodeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL)
	_, err := c.ExchangeAuthCode(context.Background(), "code")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "exchange", transportErr.Op)
}

func TestListCalendars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars", r.URL.Path)
		assert.Equal(t, "sess-abc", r.Header.Get(SessionHeader))

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "primary-id", "summary": "School", "primary": true},
			{"id": "club-id", "summary": "Chess Club"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	cals, err := c.ListCalendars(context.Background(), "sess-abc")
	require.NoError(t, err)
	require.Len(t, cals, 2)
	assert.Equal(t, "primary-id", cals[0].ID)
	assert.Equal(t, "School", cals[0].DisplayName)
	assert.True(t, cals[0].Primary)
	assert.False(t, cals[1].Primary)
}

func TestListCalendarsExpiredSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := New(srv.URL)
		_, err := c.ListCalendars(context.Background(), "expired")
		require.ErrorIs(t, err, calendar.ErrSessionExpired, "status %d", status)

		srv.Close()
	}
}

func TestListCalendarsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListCalendars(context.Background(), "sess")
	require.ErrorIs(t, err, calendar.ErrMalformedResponse)
}

func TestFetchWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary-id/import", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		assert.Equal(t, "America/Montreal", r.URL.Query().Get("timeZone"))
		assert.Equal(t, "sess-abc", r.Header.Get(SessionHeader))

		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":      "ev1",
				"summary": "COMP 248",
				"start":   map[string]string{"dateTime": "2026-09-08T14:35:00-04:00"},
				"end":     map[string]string{"dateTime": "2026-09-08T15:50:00-04:00"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	events, err := c.FetchWindow(context.Background(), "sess-abc", "primary-id", 7, "America/Montreal")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].ID)
	assert.Equal(t, "COMP 248", events[0].Summary)
	require.NotNil(t, events[0].Start)
	assert.Equal(t, "2026-09-08T14:35:00-04:00", events[0].Start.DateTime)
}

func TestFetchWindowWrappedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[{"id":"ev1"},{"id":"ev2"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	events, err := c.FetchWindow(context.Background(), "sess", "cal", 7, "UTC")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev2", events[1].ID)
}

func TestFetchWindowMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"object without events": `{"items":[]}`,
		"scalar":                `42`,
		"events not an array":   `{"events":{"id":"ev1"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.FetchWindow(context.Background(), "sess", "cal", 7, "UTC")
			require.ErrorIs(t, err, calendar.ErrMalformedResponse)
		})
	}
}

func TestFetchWindowExpiredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchWindow(context.Background(), "expired", "cal", 7, "UTC")
	require.ErrorIs(t, err, calendar.ErrSessionExpired)
}

func TestFetchWindowServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream quota exceeded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchWindow(context.Background(), "sess", "cal", 7, "UTC")
	require.Error(t, err)
	assert.NotErrorIs(t, err, calendar.ErrSessionExpired)
	assert.Contains(t, err.Error(), "upstream quota exceeded")
}
