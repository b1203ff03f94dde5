package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/provider-guard/config"
)

func testOAuthConfig(tokenURL string) config.OAuthConfig {
	return config.OAuthConfig{
		TokenURL:    tokenURL,
		ClientID:    "guard-client",
		RedirectURI: "https://example.com/callback",
	}
}

func newTestClient(t *testing.T, tokenURL string) *Client {
	t.Helper()
	client, err := NewClient(testOAuthConfig(tokenURL))
	require.NoError(t, err)
	client.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(config.OAuthConfig{ClientID: "guard-client"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token_url")
}

func TestClient_RefreshTokens(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"refresh_token": r.PostFormValue("refresh_token"),
			"client_id":     r.PostFormValue("client_id"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2","expires_in":3600}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	token, err := client.RefreshTokens(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "access-2", token.AccessToken)
	assert.Equal(t, "refresh-2", token.RefreshToken)
	assert.Equal(t, time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC), token.ExpiresAt)
	assert.Equal(t, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": "refresh-1",
		"client_id":     "guard-client",
	}, gotForm)
}

func TestClient_RefreshTokens_KeepsTokenWhenNotRotated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"access-2","expires_in":3600}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	token, err := client.RefreshTokens(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "access-2", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken, "non-rotating providers keep the old refresh token")
}

func TestClient_ExchangeAuthCode(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":   r.PostFormValue("grant_type"),
			"code":         r.PostFormValue("code"),
			"redirect_uri": r.PostFormValue("redirect_uri"),
		}
		w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1","expires_in":600}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	token, err := client.ExchangeAuthCode(context.Background(), "auth-code-xyz")
	require.NoError(t, err)

	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
	assert.Equal(t, map[string]string{
		"grant_type":   "authorization_code",
		"code":         "auth-code-xyz",
		"redirect_uri": "https://example.com/callback",
	}, gotForm)
}

func TestClient_SecretFromEnvironment(t *testing.T) {
	t.Setenv(ClientSecretEnvVar, "top-secret")

	var gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("client_secret")
		w.Write([]byte(`{"access_token":"access-1","expires_in":600}`))
	}))
	defer server.Close()

	client, err := NewClient(testOAuthConfig(server.URL))
	require.NoError(t, err)

	_, err = client.RefreshTokens(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", gotSecret)
}

func TestClient_EndpointErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "provider rejects the grant",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_grant"}`,
			wantErr: "status 400",
		},
		{
			name:    "provider rate limits the endpoint",
			status:  http.StatusTooManyRequests,
			body:    `slow down`,
			wantErr: "status 429",
		},
		{
			name:    "malformed response body",
			status:  http.StatusOK,
			body:    `not-json`,
			wantErr: "unmarshaling",
		},
		{
			name:    "missing access token",
			status:  http.StatusOK,
			body:    `{"expires_in":3600}`,
			wantErr: "no access token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.RefreshTokens(context.Background(), "refresh-1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"access-1","expires_in":600}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL)
	_, err := client.RefreshTokens(ctx, "refresh-1")
	require.Error(t, err)
}
