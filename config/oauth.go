package config

import "fmt"

// OAuthConfig configures the OAuth token endpoint client. The client secret
// is taken from the PROVIDER_GUARD_CLIENT_SECRET environment variable, never
// from the config file.
type OAuthConfig struct {
	TokenURL    string `yaml:"token_url"`
	ClientID    string `yaml:"client_id"`
	RedirectURI string `yaml:"redirect_uri"`
}

// DefaultOAuthConfig returns OAuth client defaults. TokenURL and ClientID
// have no sensible defaults and must come from the config file.
func DefaultOAuthConfig() OAuthConfig {
	return OAuthConfig{}
}

func (c *OAuthConfig) Validate() error {
	if c.TokenURL == "" {
		return fmt.Errorf("token_url must not be empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id must not be empty")
	}
	return nil
}
