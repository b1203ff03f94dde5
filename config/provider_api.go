package config

import (
	"fmt"
	"time"
)

// ProviderAPIConfig configures the outbound HTTP client for the upstream
// provider API
type ProviderAPIConfig struct {
	BaseURL string `yaml:"base_url"`

	// Per-attempt timeout and TCP connect timeout
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`

	// MaxRetries is the number of attempts per request, not the number of
	// retries after the first
	MaxRetries  int           `yaml:"max_retries"`
	BaseBackoff time.Duration `yaml:"base_backoff"`

	// Smoothing limiter applied on top of the coordinator windows, so that
	// bursts under the window quota still spread out on the wire
	SmoothingRPS   float64 `yaml:"smoothing_rps"`
	SmoothingBurst int     `yaml:"smoothing_burst"`

	// CacheTTL is how long successful GET responses are served from cache.
	// Zero disables response caching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// DefaultProviderAPIConfig returns provider API client defaults
func DefaultProviderAPIConfig() ProviderAPIConfig {
	return ProviderAPIConfig{
		BaseURL:           "https://api.provider.example.com",
		RequestTimeout:    30 * time.Second,
		ConnectionTimeout: 10 * time.Second,
		MaxRetries:        3,
		BaseBackoff:       time.Second,
		SmoothingRPS:      1.0,
		SmoothingBurst:    5,
		CacheTTL:          30 * time.Second,
	}
}

func (c *ProviderAPIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be greater than 0, got %v", c.RequestTimeout)
	}
	if c.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection_timeout must be greater than 0, got %v", c.ConnectionTimeout)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be greater than 0, got %d", c.MaxRetries)
	}
	if c.BaseBackoff <= 0 {
		return fmt.Errorf("base_backoff must be greater than 0, got %v", c.BaseBackoff)
	}
	if c.SmoothingRPS <= 0 {
		return fmt.Errorf("smoothing_rps must be greater than 0, got %v", c.SmoothingRPS)
	}
	if c.SmoothingBurst <= 0 {
		return fmt.Errorf("smoothing_burst must be greater than 0, got %d", c.SmoothingBurst)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %v", c.CacheTTL)
	}
	return nil
}
