package monitor

import (
	"sync"
	"time"

	"github.com/status-im/provider-guard/ratelimit"
)

// Metrics is one derived sample of coordinator state. Samples are immutable
// once collected.
type Metrics struct {
	Timestamp time.Time `json:"timestamp"`

	RefreshAllowed       bool          `json:"refresh_allowed"`
	TimeUntilNextRefresh time.Duration `json:"time_until_next_refresh"`
	RefreshesInWindow    int           `json:"refreshes_in_window"`
	RefreshQuota         int           `json:"refresh_quota"`

	RequestsLastMinute int     `json:"requests_last_minute"`
	RequestsLastHour   int     `json:"requests_last_hour"`
	MinuteUtilization  float64 `json:"minute_utilization"`
	HourUtilization    float64 `json:"hour_utilization"`

	CircuitState           ratelimit.CircuitState `json:"circuit_state"`
	CircuitDurationInState time.Duration          `json:"circuit_duration_in_state"`
	ConsecutiveFailures    int                    `json:"consecutive_failures"`

	TotalRefreshAttempts int64 `json:"total_refresh_attempts"`
	TotalBreakerTrips    int64 `json:"total_breaker_trips"`
}

// AlertLevel is the severity of a raised alert
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// AlertType identifies the condition that raised an alert
type AlertType string

const (
	AlertRefreshBlocked    AlertType = "refresh_blocked"
	AlertRefreshQuotaNear  AlertType = "refresh_quota_near"
	AlertRequestRateMinute AlertType = "request_rate_minute"
	AlertRequestRateHour   AlertType = "request_rate_hour"
	AlertCircuitOpen       AlertType = "circuit_open"
)

// Alert is a raised alert condition
type Alert struct {
	Level     AlertLevel `json:"level"`
	Type      AlertType  `json:"type"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}

// NotificationKind discriminates listener notifications
type NotificationKind string

const (
	NotificationMetrics NotificationKind = "metrics"
	NotificationAlert   NotificationKind = "alert"
)

// Notification is the fire-and-forget payload sent to listeners. Exactly one
// of Metrics and Alert is set, matching Kind.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Metrics *Metrics         `json:"metrics,omitempty"`
	Alert   *Alert           `json:"alert,omitempty"`
}

// Listener receives monitor notifications. Slow consumers lose notifications
// rather than slow down collection.
type Listener struct {
	ch     chan Notification
	cancel func()
	once   sync.Once
}

// Chan returns the notification channel
func (l *Listener) Chan() <-chan Notification {
	return l.ch
}

// Cancel detaches the listener. Idempotent.
func (l *Listener) Cancel() {
	l.once.Do(l.cancel)
}
