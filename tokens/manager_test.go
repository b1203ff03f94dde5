package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/provider-guard/config"
	mock_ratelimit "github.com/status-im/provider-guard/ratelimit/mocks"
)

// stubCredentials lets each test shape the exchange behavior inline
type stubCredentials struct {
	exchangeFn func(ctx context.Context, authCode string) (Token, error)
	refreshFn  func(ctx context.Context, refreshToken string) (Token, error)
}

func (s *stubCredentials) ExchangeAuthCode(ctx context.Context, authCode string) (Token, error) {
	return s.exchangeFn(ctx, authCode)
}

func (s *stubCredentials) RefreshTokens(ctx context.Context, refreshToken string) (Token, error) {
	return s.refreshFn(ctx, refreshToken)
}

func refuseRefresh(t *testing.T) *stubCredentials {
	return &stubCredentials{
		exchangeFn: func(context.Context, string) (Token, error) {
			t.Fatal("unexpected ExchangeAuthCode call")
			return Token{}, nil
		},
		refreshFn: func(context.Context, string) (Token, error) {
			t.Fatal("unexpected RefreshTokens call")
			return Token{}, nil
		},
	}
}

func newTestManager(client CredentialsClient, gate *mock_ratelimit.MockRefreshGate) (*Manager, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(config.DefaultTokenManagerConfig(), client, gate)
	m.now = func() time.Time { return current }
	return m, &current
}

func TestManager_CurrentToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m, now := newTestManager(refuseRefresh(t), mock_ratelimit.NewMockRefreshGate(ctrl))
	ctx := context.Background()

	// Nothing held yet
	_, err := m.CurrentToken()
	assert.ErrorIs(t, err, ErrAuthUnavailable)
	assert.False(t, m.Healthy())

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(time.Hour),
	})

	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.True(t, m.Healthy())

	// An expired pair is as good as none
	*now = now.Add(2 * time.Hour)
	_, err = m.CurrentToken()
	assert.ErrorIs(t, err, ErrAuthUnavailable)
	assert.False(t, m.Healthy())
}

func TestManager_TickRefreshesWithinMargin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	client := &stubCredentials{}
	m, now := newTestManager(client, gate)
	ctx := context.Background()

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(3 * time.Minute),
	})

	fresh := Token{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		ExpiresAt:    now.Add(time.Hour),
	}
	client.refreshFn = func(_ context.Context, refreshToken string) (Token, error) {
		assert.Equal(t, "refresh-1", refreshToken)
		return fresh, nil
	}

	gate.EXPECT().CanRefreshToken().Return(true)
	gate.EXPECT().RecordTokenRefresh(true)

	m.tick(ctx)

	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)
	assert.Equal(t, "refresh-2", tok.RefreshToken)
}

func TestManager_TickSkipsFreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No gate expectations: a token outside the margin never reaches the gate
	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	m, now := newTestManager(refuseRefresh(t), gate)
	ctx := context.Background()

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(time.Hour),
	})

	m.tick(ctx)

	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
}

func TestManager_TickDefersWhenGateClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	m, now := newTestManager(refuseRefresh(t), gate)
	ctx := context.Background()

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(time.Minute),
	})

	gate.EXPECT().CanRefreshToken().Return(false)
	gate.EXPECT().TimeUntilNextRefresh().Return(90 * time.Second)

	// Deferred: no exchange, no outcome recorded
	m.tick(ctx)

	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
}

func TestManager_RefreshFailureRecordedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	client := &stubCredentials{
		refreshFn: func(context.Context, string) (Token, error) {
			return Token{}, errors.New("invalid_grant")
		},
	}
	m, now := newTestManager(client, gate)
	ctx := context.Background()

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(time.Minute),
	})

	gate.EXPECT().CanRefreshToken().Return(true)
	gate.EXPECT().RecordTokenRefresh(false).Times(1)

	m.tick(ctx)

	// The held pair survives a failed exchange
	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
}

func TestManager_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The initial exchange is not a refresh: the gate stays untouched
	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	client := &stubCredentials{
		exchangeFn: func(_ context.Context, authCode string) (Token, error) {
			assert.Equal(t, "auth-code-1", authCode)
			return Token{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				ExpiresAt:    time.Now().Add(time.Hour),
			}, nil
		},
	}
	m := NewManager(config.DefaultTokenManagerConfig(), client, gate)
	ctx := context.Background()

	sub := m.SubscribeOnTokenUpdate()
	defer sub.Cancel()

	require.NoError(t, m.Authenticate(ctx, "auth-code-1"))

	tok, err := m.CurrentToken()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)

	select {
	case <-sub.Chan():
	default:
		t.Error("expected a token update signal after authentication")
	}
}

func TestManager_AuthenticateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := &stubCredentials{
		exchangeFn: func(context.Context, string) (Token, error) {
			return Token{}, errors.New("access_denied")
		},
	}
	m := NewManager(config.DefaultTokenManagerConfig(), client, mock_ratelimit.NewMockRefreshGate(ctrl))

	err := m.Authenticate(context.Background(), "bad-code")
	require.Error(t, err)

	_, err = m.CurrentToken()
	assert.ErrorIs(t, err, ErrAuthUnavailable)
}

func TestManager_SubscriptionSignalsOnRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := mock_ratelimit.NewMockRefreshGate(ctrl)
	client := &stubCredentials{}
	m, now := newTestManager(client, gate)
	ctx := context.Background()

	m.SetToken(ctx, Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    now.Add(time.Minute),
	})

	client.refreshFn = func(context.Context, string) (Token, error) {
		return Token{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresAt: now.Add(time.Hour)}, nil
	}
	gate.EXPECT().CanRefreshToken().Return(true)
	gate.EXPECT().RecordTokenRefresh(true)

	sub := m.SubscribeOnTokenUpdate()
	defer sub.Cancel()

	m.tick(ctx)

	select {
	case <-sub.Chan():
	default:
		t.Error("expected a token update signal after refresh")
	}
}
