package e2etest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/status-im/provider-guard/core"
)

// TestEnv represents a test environment
type TestEnv struct {
	App           *core.Application
	Provider      *MockProvider
	Context       context.Context
	CancelFunc    context.CancelFunc
	ConfigPath    string
	ServerBaseURL string
}

// SetupTest sets up the test environment: a mock provider, a configuration
// pointing at it and the full service stack on a local port.
func SetupTest(t *testing.T) *TestEnv {
	// Create a context with cancellation capability
	ctx, cancel := context.WithCancel(context.Background())

	// Create a mock provider
	provider := NewMockProvider()

	// Load test configuration with URLs from the mock provider
	cfg, configPath, err := loadTestConfig(provider.GetURL())
	if err != nil {
		provider.Close()
		cancel()
		t.Fatalf("Failed to load test config: %v", err)
	}

	// Use a specific port for testing
	testPort := "8081"
	os.Setenv("PORT", testPort)

	// Initialize services
	app, err := core.Setup(ctx, cfg)
	if err != nil {
		cleanupTestConfig(configPath)
		provider.Close()
		cancel()
		t.Fatalf("Failed to setup services: %v", err)
	}

	// Start services
	if err := app.Registry.StartAll(ctx); err != nil {
		app.Registry.StopAll()
		cleanupTestConfig(configPath)
		provider.Close()
		cancel()
		t.Fatalf("Failed to start services: %v", err)
	}

	serverBaseURL := fmt.Sprintf("http://localhost:%s", testPort)

	// Wait until the server responds
	if err := waitForServer(serverBaseURL); err != nil {
		app.Registry.StopAll()
		cleanupTestConfig(configPath)
		provider.Close()
		cancel()
		t.Fatalf("Server not responding: %v", err)
	}

	return &TestEnv{
		App:           app,
		Provider:      provider,
		Context:       ctx,
		CancelFunc:    cancel,
		ConfigPath:    configPath,
		ServerBaseURL: serverBaseURL,
	}
}

// waitForServer polls the health endpoint until the server answers
func waitForServer(baseURL string) error {
	deadline := time.Now().Add(5 * time.Second)
	var lastErr error

	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		time.Sleep(50 * time.Millisecond)
	}
	return lastErr
}

// TearDown releases test environment resources
func (env *TestEnv) TearDown() {
	if env.App != nil {
		env.App.Registry.StopAll()
	}
	if env.Provider != nil {
		env.Provider.Close()
	}
	if env.CancelFunc != nil {
		env.CancelFunc()
	}
	if env.ConfigPath != "" {
		cleanupTestConfig(env.ConfigPath)
	}
}
