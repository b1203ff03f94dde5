package core

import (
	"context"
	"fmt"
	"os"

	"github.com/status-im/provider-guard/api"
	"github.com/status-im/provider-guard/apiclient"
	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/metrics"
	"github.com/status-im/provider-guard/monitor"
	"github.com/status-im/provider-guard/oauth"
	"github.com/status-im/provider-guard/ratelimit"
	"github.com/status-im/provider-guard/tokens"
)

// Application bundles the wired guard components. The registry drives the
// lifecycle, embedding programs reach the components directly.
type Application struct {
	Registry     *Registry
	Coordinator  *ratelimit.Coordinator
	TokenManager *tokens.Manager
	Monitor      *monitor.Service
	ProviderAPI  *apiclient.Client
	Server       *api.Server
}

// Setup creates and registers all services. The coordinator is constructed
// once here and injected into every component that consults or feeds it.
func Setup(ctx context.Context, cfg *config.Config) (*Application, error) {
	registry := NewRegistry()

	coordinator := ratelimit.NewCoordinator(cfg.RateLimits)

	credentials, err := oauth.NewClient(cfg.OAuth)
	if err != nil {
		return nil, fmt.Errorf("oauth client: %w", err)
	}

	// Token manager refreshes through the coordinator's refresh gate
	tokenManager := tokens.NewManager(cfg.TokenManager, credentials, coordinator)
	registry.Register(tokenManager)

	// Monitor samples the coordinator
	monitorService := monitor.NewService(cfg.Monitor, coordinator)
	registry.Register(monitorService)

	// Provider API client checks the request gate and authenticates with the
	// manager's current token
	providerAPI := apiclient.NewClient(cfg.ProviderAPI, coordinator, tokenManager,
		metrics.NewMetricsWriter(metrics.ServiceProviderAPI))

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server and register it as a service
	server := api.New(port, coordinator, tokenManager, monitorService)
	registry.Register(server)

	// Sample the coordinator on every token replacement so a refresh shows
	// up in the monitor without waiting out a collection interval
	tokenManager.SubscribeOnTokenUpdate().Watch(ctx, monitorService.CollectNow, false)

	return &Application{
		Registry:     registry,
		Coordinator:  coordinator,
		TokenManager: tokenManager,
		Monitor:      monitorService,
		ProviderAPI:  providerAPI,
		Server:       server,
	}, nil
}
