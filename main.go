package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/core"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wire all services
	app, err := core.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("Error setting up services:", err)
	}

	if err := app.Registry.StartAll(ctx); err != nil {
		log.Fatal("Failed to start services:", err)
	}

	// Seed the first token pair when an authorization code is handed in from
	// the environment; otherwise the refresh loop waits for Authenticate or
	// SetToken through the embedding program.
	if authCode := os.Getenv("PROVIDER_GUARD_AUTH_CODE"); authCode != "" {
		if err := app.TokenManager.Authenticate(ctx, authCode); err != nil {
			log.Printf("Initial authorization failed: %v", err)
		}
	}

	<-sigChan
	log.Println("Received shutdown signal, stopping services...")
	cancel()
	app.Registry.StopAll()
}
