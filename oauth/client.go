package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/tokens"
)

// ClientSecretEnvVar names the environment variable holding the OAuth client
// secret. The secret never appears in config files.
const ClientSecretEnvVar = "PROVIDER_GUARD_CLIENT_SECRET"

const requestTimeout = 30 * time.Second

// maxErrorBodyBytes caps how much of an error response ends up in error
// messages and logs
const maxErrorBodyBytes = 512

// tokenResponse is the provider token endpoint payload
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Client talks to the provider's OAuth token endpoint. It makes a single
// attempt per call and never retries, the token manager's tick cadence owns
// retry timing.
type Client struct {
	config       config.OAuthConfig
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time
}

// NewClient validates the OAuth configuration and reads the client secret
// from the environment
func NewClient(cfg config.OAuthConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oauth config: %w", err)
	}

	return &Client{
		config:       cfg,
		clientSecret: os.Getenv(ClientSecretEnvVar),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		now: time.Now,
	}, nil
}

// ExchangeAuthCode trades an authorization code for a token pair
func (c *Client) ExchangeAuthCode(ctx context.Context, authCode string) (tokens.Token, error) {
	form := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {authCode},
	}
	if c.config.RedirectURI != "" {
		form.Set("redirect_uri", c.config.RedirectURI)
	}
	return c.requestToken(ctx, form)
}

// RefreshTokens trades a refresh token for a fresh pair. Providers that do
// not rotate refresh tokens omit them from the response, the caller's token
// is carried forward in that case.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (tokens.Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	token, err := c.requestToken(ctx, form)
	if err != nil {
		return tokens.Token{}, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (tokens.Token, error) {
	form.Set("client_id", c.config.ClientID)
	if c.clientSecret != "" {
		form.Set("client_secret", c.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokens.Token{}, fmt.Errorf("error creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tokens.Token{}, fmt.Errorf("error calling token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokens.Token{}, fmt.Errorf("error reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return tokens.Token{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return tokens.Token{}, fmt.Errorf("error unmarshaling token response: %w", err)
	}
	if payload.AccessToken == "" {
		return tokens.Token{}, fmt.Errorf("token endpoint returned no access token")
	}

	return tokens.Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return string(body)
}
