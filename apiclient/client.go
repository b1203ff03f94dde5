package apiclient

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/ratelimit"
	"github.com/status-im/provider-guard/tokens"
)

const logPrefix = "ProviderAPI"

// StatusHandler receives request outcome notifications
//
//go:generate mockgen -destination=mocks/client.go . StatusHandler
type StatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}

// Client issues requests against the upstream provider API behind the
// request gate. Every issued attempt is recorded against the request
// windows, a smoothing limiter spreads bursts out on the wire and retryable
// statuses are retried with exponential backoff.
type Client struct {
	httpClient    *http.Client
	config        config.ProviderAPIConfig
	gate          ratelimit.RequestGate
	tokenProvider tokens.TokenProvider
	statusHandler StatusHandler
	limiter       *rate.Limiter
	cache         *cache.Cache
}

// NewClient creates a provider API client. tokenProvider may be nil for
// unauthenticated providers, handler may be nil when no metrics are wanted.
func NewClient(cfg config.ProviderAPIConfig, gate ratelimit.RequestGate, tokenProvider tokens.TokenProvider, handler StatusHandler) *Client {
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: cfg.ConnectionTimeout,
			}).DialContext,
		},
	}

	var responseCache *cache.Cache
	if cfg.CacheTTL > 0 {
		responseCache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		httpClient:    httpClient,
		config:        cfg,
		gate:          gate,
		tokenProvider: tokenProvider,
		statusHandler: handler,
		limiter:       rate.NewLimiter(rate.Limit(cfg.SmoothingRPS), cfg.SmoothingBurst),
		cache:         responseCache,
	}
}

// ExecuteRequest executes an HTTP request with gating and retry logic. The
// request gate is consulted before every attempt and every issued attempt is
// recorded, a cached response never reaches this path.
func (c *Client) ExecuteRequest(req *http.Request) ([]byte, time.Duration, error) {
	var lastErr error

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("%s: Retry %d/%d after error: %v",
				logPrefix, attempt, c.config.MaxRetries-1, lastErr)

			if c.statusHandler != nil {
				c.statusHandler.OnRetry()
			}

			backoff := backoffWithJitter(c.config.BaseBackoff, attempt)
			log.Printf("%s: Waiting %.2fs before retry", logPrefix, backoff.Seconds())
			select {
			case <-time.After(backoff):
			case <-req.Context().Done():
				return nil, 0, req.Context().Err()
			}
		}

		if !c.gate.CanMakeAPIRequest() {
			if c.statusHandler != nil {
				c.statusHandler.OnRequest("denied")
			}
			if attempt == 0 {
				return nil, 0, ratelimit.ErrRequestDenied
			}
			lastErr = ratelimit.ErrRequestDenied
			break
		}

		// Smooth bursts that fit under the window quota
		if err := c.limiter.Wait(req.Context()); err != nil {
			lastErr = fmt.Errorf("rate limiter wait failed: %w", err)
			break
		}

		if err := c.attachAuth(req); err != nil {
			return nil, 0, err
		}

		requestStart := time.Now()
		c.gate.RecordAPIRequest()

		resp, err := c.httpClient.Do(req)
		requestDuration := time.Since(requestStart)

		if err != nil {
			lastErr = fmt.Errorf("request failed after %.2fs: %v", requestDuration.Seconds(), err)
			if c.statusHandler != nil {
				c.statusHandler.OnRequest("error")
			}
			continue
		}

		body, err := readResponse(resp, requestDuration)
		if err != nil {
			if isRetryableStatus(resp.StatusCode) {
				lastErr = err
				if c.statusHandler != nil {
					c.statusHandler.OnRequest("rate_limited")
				}
				continue
			}

			if c.statusHandler != nil {
				c.statusHandler.OnRequest("error")
			}
			return nil, requestDuration, err
		}

		if c.statusHandler != nil {
			c.statusHandler.OnRequest("success")
		}
		return body, requestDuration, nil
	}

	return nil, 0, fmt.Errorf("all %d attempts failed, last error: %w",
		c.config.MaxRetries, lastErr)
}

// Get issues a GET against the provider API. Successful responses are served
// from cache for the configured TTL, cache hits bypass the gate entirely and
// are not recorded.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s", strings.TrimSuffix(c.config.BaseURL, "/"), path)
	if len(query) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, query.Encode())
	}

	if c.cache != nil {
		if cached, found := c.cache.Get(fullURL); found {
			if body, ok := cached.([]byte); ok {
				return body, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	body, _, err := c.ExecuteRequest(req)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(fullURL, body, cache.DefaultExpiration)
	}
	return body, nil
}

// attachAuth sets the bearer token when a token provider is attached. The
// token is re-read on every attempt, a pair replaced mid-retry is picked up.
func (c *Client) attachAuth(req *http.Request) error {
	if c.tokenProvider == nil {
		return nil
	}
	token, err := c.tokenProvider.CurrentToken()
	if err != nil {
		return fmt.Errorf("bearer token unavailable: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return nil
}

// readResponse drains and closes the response body
func readResponse(resp *http.Response, requestDuration time.Duration) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			return nil, fmt.Errorf("provider rate limit exceeded (status %d), retry after %s: %s",
				resp.StatusCode, retryAfter, string(body))
		}

		return nil, fmt.Errorf("provider request failed with status %d after %.2fs: %s",
			resp.StatusCode, requestDuration.Seconds(), string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}
	return body, nil
}

// backoffWithJitter calculates backoff duration with jitter for retries
func backoffWithJitter(baseBackoff time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return baseBackoff
	}

	multiplier := uint(1) << uint(attempt-1)
	backoff := time.Duration(float64(baseBackoff) * float64(multiplier))
	if half := int64(backoff / 2); half > 0 {
		backoff += time.Duration(rand.Int63n(half))
	}
	return backoff
}

// isRetryableStatus determines if a given HTTP status code should trigger a retry
func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}
