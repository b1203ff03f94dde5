package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "provider_guard_"

// Service constants
const (
	ServiceCoordinator  = "coordinator"
	ServiceTokenManager = "token-manager"
	ServiceMonitor      = "monitor"
	ServiceProviderAPI  = "provider-api"
)

// Circuit breaker states as gauge values
const (
	CircuitStateClosed   = 0
	CircuitStateOpen     = 1
	CircuitStateHalfOpen = 2
)

var (
	// Refresh attempts by outcome
	// Cardinality: ~3 (success, failure, denied)
	TokenRefreshAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "token_refresh_attempts_total",
			Help: "Total number of token refresh attempts by outcome",
		},
		[]string{"result"},
	)

	// Circuit breaker trips
	BreakerTripsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "breaker_trips_total",
			Help: "Total number of circuit breaker transitions to open",
		},
	)

	// Gate denials
	// Cardinality: 2 (refresh, request)
	GateDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "gate_denials_total",
			Help: "Total number of operations denied by a rate limit gate",
		},
		[]string{"gate"},
	)

	// Global provider request counter (all services)
	// Cardinality: ~5 (success, error, rate_limited, timeout, etc.)
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "provider_requests_total",
			Help: "Total number of HTTP requests to the provider API across all services",
		},
		[]string{"status"},
	)

	// Service-specific provider request counter
	// Cardinality: ~20 (4 services x 5 statuses)
	ServiceProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_provider_requests_total",
			Help: "Total number of HTTP requests to the provider API per service",
		},
		[]string{"service", "status"},
	)

	// Retry attempts counter
	// Cardinality: ~4 (number of services)
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// Alerts raised by the monitor
	// Cardinality: ~10 (5 alert types x 2 levels)
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "alerts_total",
			Help: "Total number of alerts raised by type and level",
		},
		[]string{"type", "level"},
	)

	// Sampled window usage, set by the monitor each collection cycle
	RefreshesInWindowGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "refreshes_in_window",
			Help: "Token refreshes recorded in the current sliding window",
		},
	)

	RequestsLastMinuteGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "requests_last_minute",
			Help: "API requests recorded in the trailing minute",
		},
	)

	RequestsLastHourGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "requests_last_hour",
			Help: "API requests recorded in the trailing hour",
		},
	)

	// Circuit breaker state: 0 closed, 1 open, 2 half-open
	CircuitStateGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "circuit_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
	)

	ConsecutiveFailuresGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "consecutive_refresh_failures",
			Help: "Consecutive token refresh failures since the last success",
		},
	)

	TokenTTLGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "token_ttl_seconds",
			Help: "Seconds until the current access token expires",
		},
	)
)

// RecordRefreshAttempt records a token refresh attempt outcome
func RecordRefreshAttempt(result string) {
	TokenRefreshAttemptsTotal.WithLabelValues(result).Inc()
	log.Printf("Metrics: token refresh attempt recorded with result %s", result)
}

// RecordBreakerTrip records a circuit breaker transition to open
func RecordBreakerTrip() {
	BreakerTripsTotal.Inc()
	log.Printf("Metrics: circuit breaker trip recorded")
}

// RecordGateDenial records a denial by one of the rate limit gates
func RecordGateDenial(gate string) {
	GateDenialsTotal.WithLabelValues(gate).Inc()
}

// RecordAlert records an alert raised by the monitor
func RecordAlert(alertType, level string) {
	AlertsTotal.WithLabelValues(alertType, level).Inc()
	log.Printf("Metrics: alert recorded type=%s level=%s", alertType, level)
}

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordProviderRequest records a service-specific provider API request
func (mw *MetricsWriter) RecordProviderRequest(status string) {
	ProviderRequestsTotal.WithLabelValues(status).Inc()
	ServiceProviderRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
	log.Printf("Metrics: %s provider request recorded with status %s", mw.serviceName, status)
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
	log.Printf("Metrics: %s recorded a retry attempt", mw.serviceName)
}

// RecordFetchDuration records the duration of a fetch operation
func (mw *MetricsWriter) RecordFetchDuration(operation string, start time.Time) {
	duration := time.Since(start)
	FetchDurationHistogram.WithLabelValues(mw.serviceName, operation).Observe(duration.Seconds())
	log.Printf("Metrics: %s %s took %.2fs", mw.serviceName, operation, duration.Seconds())
}

// Implement the apiclient StatusHandler interface for MetricsWriter
// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordProviderRequest(status)
}

// OnRetry records an HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
