package config

import (
	"fmt"
	"time"
)

// RateLimitRules configures the rate limit coordinator: refresh spacing, the
// refresh window quota, both request windows and the circuit breaker. The set
// is replaced atomically at runtime via Coordinator.UpdateRules; it is never
// mutated field by field.
type RateLimitRules struct {
	// TokenRefreshMinInterval is the minimum spacing between two successful
	// token refreshes. Zero disables the spacing check.
	TokenRefreshMinInterval time.Duration `yaml:"token_refresh_min_interval" json:"token_refresh_min_interval"`

	// MaxTokensPerWindow caps refresh attempts inside TokenWindowDuration
	MaxTokensPerWindow  int           `yaml:"max_tokens_per_window" json:"max_tokens_per_window"`
	TokenWindowDuration time.Duration `yaml:"token_window_duration" json:"token_window_duration"`

	// Independent sliding windows for outbound API requests
	MaxRequestsPerMinute int `yaml:"max_requests_per_minute" json:"max_requests_per_minute"`
	MaxRequestsPerHour   int `yaml:"max_requests_per_hour" json:"max_requests_per_hour"`

	// FailureThreshold is the number of consecutive refresh failures that
	// opens the circuit breaker
	FailureThreshold int `yaml:"failure_threshold" json:"failure_threshold"`

	// ResetTimeout is how long the breaker stays open before probing.
	// Zero allows an immediate probe.
	ResetTimeout time.Duration `yaml:"reset_timeout" json:"reset_timeout"`

	// HalfOpenRequests is the number of trial permits granted while half-open
	HalfOpenRequests int `yaml:"half_open_requests" json:"half_open_requests"`
}

// DefaultRateLimitRules returns the rule set used when no configuration is
// provided
func DefaultRateLimitRules() RateLimitRules {
	return RateLimitRules{
		TokenRefreshMinInterval: 3 * time.Minute,
		MaxTokensPerWindow:      10,
		TokenWindowDuration:     10 * time.Minute,
		MaxRequestsPerMinute:    60,
		MaxRequestsPerHour:      1000,
		FailureThreshold:        3,
		ResetTimeout:            30 * time.Second,
		HalfOpenRequests:        1,
	}
}

// Validate rejects rule sets that would make a gate degenerate. Durations may
// not be negative; TokenRefreshMinInterval and ResetTimeout may be zero, the
// quotas and thresholds may not.
func (r *RateLimitRules) Validate() error {
	if r.TokenRefreshMinInterval < 0 {
		return fmt.Errorf("token_refresh_min_interval must not be negative, got %v", r.TokenRefreshMinInterval)
	}
	if r.MaxTokensPerWindow <= 0 {
		return fmt.Errorf("max_tokens_per_window must be greater than 0, got %d", r.MaxTokensPerWindow)
	}
	if r.TokenWindowDuration <= 0 {
		return fmt.Errorf("token_window_duration must be greater than 0, got %v", r.TokenWindowDuration)
	}
	if r.MaxRequestsPerMinute <= 0 {
		return fmt.Errorf("max_requests_per_minute must be greater than 0, got %d", r.MaxRequestsPerMinute)
	}
	if r.MaxRequestsPerHour <= 0 {
		return fmt.Errorf("max_requests_per_hour must be greater than 0, got %d", r.MaxRequestsPerHour)
	}
	if r.FailureThreshold <= 0 {
		return fmt.Errorf("failure_threshold must be greater than 0, got %d", r.FailureThreshold)
	}
	if r.ResetTimeout < 0 {
		return fmt.Errorf("reset_timeout must not be negative, got %v", r.ResetTimeout)
	}
	if r.HalfOpenRequests <= 0 {
		return fmt.Errorf("half_open_requests must be greater than 0, got %d", r.HalfOpenRequests)
	}
	return nil
}
