package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/status-im/provider-guard/config"
)

// createTestConfig creates a test configuration and returns the path to the
// file. Intervals are shrunk so refresh and collection cycles complete
// within test timeouts.
func createTestConfig(providerURL string) (string, error) {
	// Create a temporary directory for configuration
	tempDir, err := os.MkdirTemp("", "provider-guard-test")
	if err != nil {
		return "", err
	}

	configContent := `
rate_limits:
  token_refresh_min_interval: 100ms   # near-immediate retries for tests
  max_tokens_per_window: 5            # small refresh budget
  token_window_duration: 10s          # short window for tests
  max_requests_per_minute: 100
  max_requests_per_hour: 1000
  failure_threshold: 2                # breaker trips after two failures
  reset_timeout: 300ms                # fast half-open probing
  half_open_requests: 1

token_manager:
  check_interval: 100ms               # fast expiry checks for tests
  refresh_margin: 5m

monitor:
  collection_interval: 200ms          # fast sampling for tests
  history_capacity: 100
  alert_retention: 1h
  alert_dedup_interval: 1s            # allow repeated alerts across tests

provider_api:
  base_url: "%s"                      # mock provider data API
  request_timeout: 5s
  connection_timeout: 5s
  max_retries: 2
  base_backoff: 50ms
  smoothing_rps: 100                  # effectively unthrottled for tests
  smoothing_burst: 10
  cache_ttl: 30s                      # long enough to observe cache hits

oauth:
  token_url: "%s/oauth/token"         # mock provider token endpoint
  client_id: "test-client"
  redirect_uri: "http://localhost/callback"
`

	configContent = fmt.Sprintf(configContent, providerURL, providerURL)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(providerURL string) (*config.Config, string, error) {
	configPath, err := createTestConfig(providerURL)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
