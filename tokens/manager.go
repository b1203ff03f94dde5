package tokens

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/events"
	"github.com/status-im/provider-guard/metrics"
	"github.com/status-im/provider-guard/ratelimit"
	"github.com/status-im/provider-guard/scheduler"
)

// ErrAuthUnavailable is returned by CurrentToken when no valid access token
// exists yet, or the one held has expired
var ErrAuthUnavailable = errors.New("tokens: no valid access token available")

// Token is the OAuth credential pair held in memory. It is replaced wholesale
// on every refresh, never updated field by field.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// CredentialsClient performs the wire-level OAuth grant exchanges. Both calls
// may fail with a provider error; the manager treats any refresh error as a
// refresh failure.
//
//go:generate mockgen -destination=mocks/manager.go . CredentialsClient,TokenProvider
type CredentialsClient interface {
	ExchangeAuthCode(ctx context.Context, authCode string) (Token, error)
	RefreshTokens(ctx context.Context, refreshToken string) (Token, error)
}

// TokenProvider hands out the current access token to outbound callers
type TokenProvider interface {
	CurrentToken() (Token, error)
}

// Manager keeps a valid access token available without refreshing outside
// the coordinator's gates. A single background loop owns renewal; callers
// only ever read the current pair, so concurrent callers can never trigger
// duplicate refresh storms.
type Manager struct {
	config        config.TokenManagerConfig
	client        CredentialsClient
	gate          ratelimit.RefreshGate
	metricsWriter *metrics.MetricsWriter

	subscriptionManager *events.SubscriptionManager
	scheduler           *scheduler.Scheduler

	token struct {
		sync.RWMutex
		current Token
	}

	// now is replaceable in tests to control expiry arithmetic
	now func() time.Time
}

// NewManager creates a token manager. The gate is the coordinator's refresh
// gate, shared by reference with the rest of the process.
func NewManager(cfg config.TokenManagerConfig, client CredentialsClient, gate ratelimit.RefreshGate) *Manager {
	m := &Manager{
		config:              cfg,
		client:              client,
		gate:                gate,
		metricsWriter:       metrics.NewMetricsWriter(metrics.ServiceTokenManager),
		subscriptionManager: events.NewSubscriptionManager(),
		now:                 time.Now,
	}
	m.scheduler = scheduler.New(cfg.CheckInterval, m.tick)
	return m
}

// Start begins the periodic expiry checks. Starting an already running
// manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.scheduler.Start(ctx, true)
	log.Printf("TokenManager: started, checking every %v with %v refresh margin",
		m.config.CheckInterval, m.config.RefreshMargin)
	return nil
}

// Stop cancels future ticks and waits for an in-flight refresh to finish.
// Stopping twice is a no-op.
func (m *Manager) Stop() {
	m.scheduler.Stop()
	log.Printf("TokenManager: stopped")
}

// CurrentToken returns the held token without blocking and without ever
// triggering a refresh; renewal belongs to the background loop alone
func (m *Manager) CurrentToken() (Token, error) {
	m.token.RLock()
	t := m.token.current
	m.token.RUnlock()

	if t.AccessToken == "" || !m.now().Before(t.ExpiresAt) {
		return Token{}, ErrAuthUnavailable
	}
	return t, nil
}

// Authenticate performs the initial authorization-code exchange and seeds the
// token pair. The exchange is not a refresh: it neither consults nor feeds
// the refresh gates. The schedule is nudged so the first margin check happens
// right away instead of waiting out a full tick.
func (m *Manager) Authenticate(ctx context.Context, authCode string) error {
	t, err := m.client.ExchangeAuthCode(ctx, authCode)
	if err != nil {
		return fmt.Errorf("authorization code exchange failed: %w", err)
	}

	m.replaceToken(ctx, t)
	m.scheduler.RunNow()
	log.Printf("TokenManager: authenticated, token valid until %s", t.ExpiresAt.Format(time.RFC3339))
	return nil
}

// SetToken seeds a token pair restored from outside (for example a persisted
// session), replacing any current pair wholesale
func (m *Manager) SetToken(ctx context.Context, t Token) {
	m.replaceToken(ctx, t)
	log.Printf("TokenManager: token set externally, valid until %s", t.ExpiresAt.Format(time.RFC3339))
}

// SubscribeOnTokenUpdate returns a subscription signalled after every token
// replacement
func (m *Manager) SubscribeOnTokenUpdate() events.Subscription {
	return m.subscriptionManager.Subscribe()
}

// Healthy reports whether a valid token is currently held
func (m *Manager) Healthy() bool {
	_, err := m.CurrentToken()
	return err == nil
}

// tick runs once per schedule interval: check expiry, consult the gate,
// refresh if allowed. A failed refresh is not retried here; the next tick
// and the coordinator's gating own the retry cadence.
func (m *Manager) tick(ctx context.Context) {
	m.token.RLock()
	current := m.token.current
	m.token.RUnlock()

	if current.AccessToken == "" {
		log.Printf("TokenManager: no token pair yet, waiting for authentication")
		return
	}

	ttl := current.ExpiresAt.Sub(m.now())
	metrics.UpdateTokenTTL(ttl.Seconds())

	if ttl > m.config.RefreshMargin {
		return
	}

	if !m.gate.CanRefreshToken() {
		log.Printf("TokenManager: refresh needed (token expires in %v) but gate is closed, next attempt possible in %v",
			ttl, m.gate.TimeUntilNextRefresh())
		return
	}

	m.refresh(ctx, current)
}

// refresh performs one exchange against the provider. The outcome is recorded
// exactly once, whatever the error path: the gate was consulted already, and
// the exchange itself runs outside any lock.
func (m *Manager) refresh(ctx context.Context, current Token) {
	startTime := time.Now()

	fresh, err := m.client.RefreshTokens(ctx, current.RefreshToken)
	m.gate.RecordTokenRefresh(err == nil)
	m.metricsWriter.RecordFetchDuration("refreshTokens", startTime)

	if err != nil {
		log.Printf("TokenManager: refresh failed: %v", err)
		return
	}

	m.replaceToken(ctx, fresh)
	log.Printf("TokenManager: token refreshed, valid until %s", fresh.ExpiresAt.Format(time.RFC3339))
}

func (m *Manager) replaceToken(ctx context.Context, t Token) {
	m.token.Lock()
	m.token.current = t
	m.token.Unlock()

	metrics.UpdateTokenTTL(time.Until(t.ExpiresAt).Seconds())
	m.subscriptionManager.Emit(ctx)
}
