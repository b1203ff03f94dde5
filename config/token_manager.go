package config

import (
	"fmt"
	"time"
)

// TokenManagerConfig configures the background token refresh loop
type TokenManagerConfig struct {
	// CheckInterval is how often the manager wakes up to inspect token expiry
	CheckInterval time.Duration `yaml:"check_interval"`

	// RefreshMargin is how long before expiry a token is considered due for
	// refresh. A token expiring within the margin is refreshed on the next
	// check.
	RefreshMargin time.Duration `yaml:"refresh_margin"`
}

// DefaultTokenManagerConfig returns token manager defaults
func DefaultTokenManagerConfig() TokenManagerConfig {
	return TokenManagerConfig{
		CheckInterval: 60 * time.Second,
		RefreshMargin: 5 * time.Minute,
	}
}

func (c *TokenManagerConfig) Validate() error {
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be greater than 0, got %v", c.CheckInterval)
	}
	if c.RefreshMargin < 0 {
		return fmt.Errorf("refresh_margin must not be negative, got %v", c.RefreshMargin)
	}
	return nil
}
