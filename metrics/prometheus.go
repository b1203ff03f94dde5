package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDurationHistogram tracks the duration of outbound operations
	FetchDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "fetch_duration_seconds",
			Help: "Time taken for outbound operations against external APIs",
		},
		[]string{"service", "operation"},
	)
)

// UpdateWindowUsage sets the sampled window gauges. Called by the monitor on
// each collection cycle.
func UpdateWindowUsage(refreshesInWindow, requestsLastMinute, requestsLastHour int) {
	RefreshesInWindowGauge.Set(float64(refreshesInWindow))
	RequestsLastMinuteGauge.Set(float64(requestsLastMinute))
	RequestsLastHourGauge.Set(float64(requestsLastHour))
}

// UpdateCircuitState sets the circuit breaker state gauge
func UpdateCircuitState(state float64, consecutiveFailures int) {
	CircuitStateGauge.Set(state)
	ConsecutiveFailuresGauge.Set(float64(consecutiveFailures))
}

// UpdateTokenTTL sets the token expiry gauge
func UpdateTokenTTL(seconds float64) {
	TokenTTLGauge.Set(seconds)
}
