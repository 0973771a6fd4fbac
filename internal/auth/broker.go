// Package auth owns the session lifecycle: the authorization-code exchange,
// resumption of a persisted session and serialized re-authorization after
// expiry.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campusnav/nextclass/internal/instrumentation"
	"github.com/campusnav/nextclass/internal/logging"
	"github.com/campusnav/nextclass/internal/session"
)

// ErrCancelled is returned when the user aborts the provider sign-in.
var ErrCancelled = errors.New("authorization cancelled")

// ProviderError reports a provider sign-in that completed but yielded no
// usable credential.
type ProviderError struct {
	Reason string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error: %s", e.Reason)
}

// Credential is the opaque artifact returned by the identity provider.
// Exactly one field is set: an authorization code to be exchanged at the
// backend, or an access token used directly against the provider in the
// token-based variant. Neither is ever parsed.
type Credential struct {
	AuthCode    string
	AccessToken string
}

// Authorizer drives the identity provider's sign-in and returns the
// resulting credential. Implementations fail with ErrCancelled when the
// user aborts and with ProviderError when no credential comes back.
type Authorizer interface {
	Authorize(ctx context.Context) (Credential, error)
}

// Exchanger turns an authorization code into an opaque session id. The
// backend client satisfies this.
type Exchanger interface {
	ExchangeAuthCode(ctx context.Context, authCode string) (string, error)
}

// State is the broker's position in the session lifecycle.
type State int

// Session lifecycle states.
const (
	StateNoSession State = iota
	StateAuthorizing
	StateExchanging
	StateActive
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateAuthorizing:
		return "authorizing"
	case StateExchanging:
		return "exchanging"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Broker is the single owner of the session. Other components obtain the id
// through Establish/SessionID and hand expiry back via Reauthorize; none of
// them keeps its own copy.
type Broker struct {
	authorizer Authorizer
	exchanger  Exchanger
	store      session.Store
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	// flight serializes authorize/exchange sequences so concurrent expiry
	// observers share a single provider sign-in.
	flight sync.Mutex

	mu      sync.RWMutex
	session string
	state   State

	// flightSeq counts completed authorize/exchange sequences and flightErr
	// records the outcome of the most recent one. Together they let a caller
	// that queued behind an in-flight re-authorization observe that flight's
	// result instead of starting another.
	flightSeq uint64
	flightErr error
}

// NewBroker creates a broker and resumes an Active session from the store
// when one is persisted. Validity of a resumed id is established lazily by
// the first backend call that uses it.
func NewBroker(authorizer Authorizer, exchanger Exchanger, store session.Store, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broker{
		authorizer: authorizer,
		exchanger:  exchanger,
		store:      store,
		logger:     logger,
		metrics:    &instrumentation.Metrics{},
	}

	if id, ok, err := store.Load(); err != nil {
		logger.Warn("failed to load persisted session", logging.Err(err))
	} else if ok {
		b.session = id
		b.state = StateActive
		logger.Debug("resumed persisted session",
			slog.String(logging.KeyState, b.state.String()),
			slog.String("session", logging.SanitizeToken(id)))
	}
	return b
}

// SetMetrics attaches a metrics recorder. Must be called before the broker
// is shared.
func (b *Broker) SetMetrics(m *instrumentation.Metrics) {
	if m != nil {
		b.metrics = m
	}
}

// State returns the current lifecycle state.
func (b *Broker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// SessionID returns the current session id if the broker is Active.
func (b *Broker) SessionID() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session, b.state == StateActive
}

// Establish returns the active session id, running the full
// authorize-and-exchange sequence first when none exists.
func (b *Broker) Establish(ctx context.Context) (string, error) {
	if id, ok := b.SessionID(); ok {
		return id, nil
	}

	b.flight.Lock()
	defer b.flight.Unlock()

	// Another caller may have finished the sequence while we waited.
	if id, ok := b.SessionID(); ok {
		return id, nil
	}
	return b.run(ctx)
}

// Invalidate drops the session after an observed expiry: the store is
// cleared and the machine returns to NoSession. Idempotent.
func (b *Broker) Invalidate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = ""
	b.state = StateNoSession
	if err := b.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session store: %w", err)
	}
	b.logger.Info("session invalidated", slog.String(logging.KeyState, b.state.String()))
	return nil
}

// Reauthorize re-runs the full sequence after an expiry observed against
// stale. Concurrent callers are serialized: whoever arrives while a
// re-authorization is in flight waits for it and observes its result
// instead of starting another provider sign-in.
func (b *Broker) Reauthorize(ctx context.Context, stale string) (string, error) {
	b.mu.RLock()
	seen := b.flightSeq
	b.mu.RUnlock()

	b.flight.Lock()
	defer b.flight.Unlock()

	// A flight completed while we waited for the lock; share its result,
	// success or failure, rather than prompting the user again.
	b.mu.RLock()
	completed := b.flightSeq != seen
	flightErr := b.flightErr
	b.mu.RUnlock()
	if completed {
		if flightErr != nil {
			return "", flightErr
		}
		if id, ok := b.SessionID(); ok {
			return id, nil
		}
	}

	// A re-authorization that finished earlier already replaced the stale
	// id; use it directly.
	if id, ok := b.SessionID(); ok && id != stale {
		return id, nil
	}

	// The persisted copy is cleared before the attempt begins, so a crash
	// mid-flight leaves the device in NoSession, which is safe.
	if err := b.Invalidate(); err != nil {
		return "", err
	}
	return b.run(ctx)
}

// SignOut explicitly ends the session.
func (b *Broker) SignOut() error {
	return b.Invalidate()
}

// run executes Authorizing -> Exchanging -> Active. The flight lock must be
// held. On any failure the machine is left in NoSession.
func (b *Broker) run(ctx context.Context) (id string, err error) {
	defer func() {
		b.mu.Lock()
		b.flightSeq++
		b.flightErr = err
		b.mu.Unlock()
		b.metrics.RecordAuthSequence(ctx, err == nil)
	}()

	b.setState(StateAuthorizing)

	cred, err := b.authorizer.Authorize(ctx)
	if err != nil {
		b.setState(StateNoSession)
		return "", err
	}
	if cred.AuthCode == "" && cred.AccessToken == "" {
		b.setState(StateNoSession)
		return "", &ProviderError{Reason: "sign-in returned no credential"}
	}

	b.setState(StateExchanging)

	if cred.AuthCode != "" {
		if b.exchanger == nil {
			b.setState(StateNoSession)
			return "", errors.New("no exchanger configured for authorization codes")
		}
		id, err = b.exchanger.ExchangeAuthCode(ctx, cred.AuthCode)
		if err != nil {
			b.setState(StateNoSession)
			return "", err
		}
	} else {
		// Token-based variant: the provider access token stands in for the
		// session and is used directly against the provider.
		id = cred.AccessToken
	}

	// Persist only after a successful exchange.
	if err := b.store.Save(id); err != nil {
		b.logger.Warn("failed to persist session; it will not survive a restart", logging.Err(err))
	}

	b.mu.Lock()
	b.session = id
	b.state = StateActive
	b.mu.Unlock()

	b.logger.Info("session established",
		slog.String(logging.KeyState, StateActive.String()),
		slog.String("session", logging.SanitizeToken(id)))
	return id, nil
}

func (b *Broker) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	b.logger.Debug("session state changed", slog.String(logging.KeyState, s.String()))
}
