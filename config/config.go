package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for provider-guard
type Config struct {
	RateLimits   RateLimitRules     `yaml:"rate_limits"`
	TokenManager TokenManagerConfig `yaml:"token_manager"`
	Monitor      MonitorConfig      `yaml:"monitor"`
	ProviderAPI  ProviderAPIConfig  `yaml:"provider_api"`
	OAuth        OAuthConfig        `yaml:"oauth"`
}

// DefaultConfig returns a configuration with every section at its defaults
func DefaultConfig() *Config {
	return &Config{
		RateLimits:   DefaultRateLimitRules(),
		TokenManager: DefaultTokenManagerConfig(),
		Monitor:      DefaultMonitorConfig(),
		ProviderAPI:  DefaultProviderAPIConfig(),
		OAuth:        DefaultOAuthConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults, so absent keys keep their
// default values
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limits: %w", err)
	}
	if err := c.TokenManager.Validate(); err != nil {
		return fmt.Errorf("token_manager: %w", err)
	}
	if err := c.Monitor.Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	if err := c.ProviderAPI.Validate(); err != nil {
		return fmt.Errorf("provider_api: %w", err)
	}
	return nil
}
