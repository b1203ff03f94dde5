package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/provider-guard/monitor"
	"github.com/status-im/provider-guard/ratelimit"
	"github.com/status-im/provider-guard/tokens"
)

// Server exposes the guard's diagnostics surface: coordinator status, monitor
// metrics, history, alerts, summaries and a websocket notification stream.
type Server struct {
	port           string
	coordinator    *ratelimit.Coordinator
	tokenManager   *tokens.Manager
	monitorService *monitor.Service
	server         *http.Server
}

func New(port string, coordinator *ratelimit.Coordinator, tokenManager *tokens.Manager, monitorService *monitor.Service) *Server {
	return &Server{
		port:           port,
		coordinator:    coordinator,
		tokenManager:   tokenManager,
		monitorService: monitorService,
	}
}

func (s *Server) Start(ctx context.Context) error {
	router := s.Router()

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Router builds the route table. Exposed for tests.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/guard/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/v1/guard/metrics", s.handleCurrentMetrics).Methods("GET")
	router.HandleFunc("/api/v1/guard/history", s.handleHistory).Methods("GET")
	router.HandleFunc("/api/v1/guard/alerts", s.handleAlerts).Methods("GET")
	router.HandleFunc("/api/v1/guard/summary", s.handleSummary).Methods("GET")
	router.HandleFunc("/api/v1/guard/rules", s.handleUpdateRules).Methods("POST")
	router.HandleFunc("/api/v1/guard/ws", s.handleWebSocket)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}
