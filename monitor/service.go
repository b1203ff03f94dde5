package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/metrics"
	"github.com/status-im/provider-guard/ratelimit"
	"github.com/status-im/provider-guard/scheduler"
)

// notificationBuffer is the per-listener channel capacity. Sends beyond it
// are dropped.
const notificationBuffer = 16

type alertKey struct {
	Type  AlertType
	Level AlertLevel
}

// Service samples coordinator state on a fixed interval, keeps a bounded
// history of derived metrics, evaluates alert rules and fans notifications
// out to listeners.
type Service struct {
	config    config.MonitorConfig
	status    ratelimit.StatusProvider
	scheduler *scheduler.Scheduler

	mu         sync.RWMutex
	current    Metrics
	hasCurrent bool
	history    *history
	alerts     []Alert
	lastAlert  map[alertKey]time.Time

	listeners struct {
		sync.RWMutex
		chans map[chan Notification]struct{}
	}

	now func() time.Time
}

// NewService creates a monitor over the given status provider
func NewService(cfg config.MonitorConfig, status ratelimit.StatusProvider) *Service {
	s := &Service{
		config:    cfg,
		status:    status,
		history:   newHistory(cfg.HistoryCapacity),
		lastAlert: make(map[alertKey]time.Time),
		now:       time.Now,
	}
	s.listeners.chans = make(map[chan Notification]struct{})
	s.scheduler = scheduler.New(cfg.CollectionInterval, s.collect)
	return s
}

// Start begins periodic collection. The first sample is taken immediately.
func (s *Service) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid monitor config: %w", err)
	}
	s.scheduler.Start(ctx, true)
	log.Printf("Monitor: started with collection interval %v", s.config.CollectionInterval)
	return nil
}

// Stop halts collection. Listeners stay subscribed.
func (s *Service) Stop() {
	s.scheduler.Stop()
	log.Printf("Monitor: stopped")
}

// CollectNow requests an off-schedule collection cycle. The request is
// dropped when the monitor is not running.
func (s *Service) CollectNow() {
	s.scheduler.RunNow()
}

// Healthy returns true once at least one sample has been collected
func (s *Service) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCurrent
}

// CurrentMetrics returns the most recent sample. The second return is false
// until the first collection cycle completes.
func (s *Service) CurrentMetrics() (Metrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

// History returns the samples collected within the lookback period, oldest
// first
func (s *Service) History(lookback time.Duration) []Metrics {
	if lookback <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.since(s.now().Add(-lookback))
}

// RecentAlerts returns the alerts raised within the lookback period, oldest
// first. Alerts older than the retention period are gone regardless of
// lookback.
func (s *Service) RecentAlerts(lookback time.Duration) []Alert {
	if lookback <= 0 {
		return nil
	}
	cutoff := s.now().Add(-lookback)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Subscribe registers a listener for metrics and alert notifications
func (s *Service) Subscribe() *Listener {
	ch := make(chan Notification, notificationBuffer)
	s.listeners.Lock()
	s.listeners.chans[ch] = struct{}{}
	s.listeners.Unlock()

	return &Listener{
		ch: ch,
		cancel: func() {
			s.listeners.Lock()
			delete(s.listeners.chans, ch)
			s.listeners.Unlock()
		},
	}
}

// collect runs one collection cycle. A panicking status provider must not
// take the monitor loop down with it.
func (s *Service) collect(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Monitor: collection cycle panicked: %v", r)
		}
	}()

	st := s.status.Status()
	m := s.derive(st)

	s.mu.Lock()
	s.current = m
	s.hasCurrent = true
	s.history.add(m)
	s.pruneAlertsLocked(m.Timestamp)
	raised := s.evaluateAlertsLocked(m)
	s.mu.Unlock()

	s.updateGauges(m)

	s.publish(Notification{Kind: NotificationMetrics, Metrics: &m})
	for i := range raised {
		alert := raised[i]
		log.Printf("Monitor: %s alert raised: %s", alert.Level, alert.Message)
		metrics.RecordAlert(string(alert.Type), string(alert.Level))
		s.publish(Notification{Kind: NotificationAlert, Alert: &alert})
	}
}

// derive turns a coordinator status snapshot into a metrics sample
func (s *Service) derive(st ratelimit.Status) Metrics {
	now := s.now()
	return Metrics{
		Timestamp:              now,
		RefreshAllowed:         st.RefreshAllowed,
		TimeUntilNextRefresh:   st.TimeUntilNextRefresh,
		RefreshesInWindow:      st.RefreshesInWindow,
		RefreshQuota:           st.Rules.MaxTokensPerWindow,
		RequestsLastMinute:     st.RequestsLastMinute,
		RequestsLastHour:       st.RequestsLastHour,
		MinuteUtilization:      utilization(st.RequestsLastMinute, st.Rules.MaxRequestsPerMinute),
		HourUtilization:        utilization(st.RequestsLastHour, st.Rules.MaxRequestsPerHour),
		CircuitState:           st.CircuitState,
		CircuitDurationInState: now.Sub(st.StateChangedAt),
		ConsecutiveFailures:    st.ConsecutiveFailures,
		TotalRefreshAttempts:   st.TotalRefreshAttempts,
		TotalBreakerTrips:      st.TotalBreakerTrips,
	}
}

// utilization returns count as a percentage of limit
func utilization(count, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(count) / float64(limit) * 100
}

// evaluateAlertsLocked checks the alert rules against the sample and records
// the alerts that survive deduplication. An alert of the same type and level
// raised within the dedup interval suppresses a new one.
func (s *Service) evaluateAlertsLocked(m Metrics) []Alert {
	candidates := make([]Alert, 0, 4)

	if !m.RefreshAllowed && m.TimeUntilNextRefresh > 0 {
		candidates = append(candidates, Alert{
			Level:   AlertWarning,
			Type:    AlertRefreshBlocked,
			Message: fmt.Sprintf("token refresh blocked for another %v", m.TimeUntilNextRefresh.Round(time.Second)),
		})
	}
	if m.RefreshQuota > 0 && m.RefreshQuota-m.RefreshesInWindow <= 2 {
		candidates = append(candidates, Alert{
			Level:   AlertCritical,
			Type:    AlertRefreshQuotaNear,
			Message: fmt.Sprintf("refresh window nearly exhausted: %d of %d used", m.RefreshesInWindow, m.RefreshQuota),
		})
	}
	if m.MinuteUtilization > 80 {
		candidates = append(candidates, Alert{
			Level:   AlertWarning,
			Type:    AlertRequestRateMinute,
			Message: fmt.Sprintf("per-minute request utilization at %.1f%%", m.MinuteUtilization),
		})
	}
	if m.HourUtilization > 90 {
		candidates = append(candidates, Alert{
			Level:   AlertCritical,
			Type:    AlertRequestRateHour,
			Message: fmt.Sprintf("per-hour request utilization at %.1f%%", m.HourUtilization),
		})
	}
	if m.CircuitState == ratelimit.CircuitOpen {
		candidates = append(candidates, Alert{
			Level:   AlertCritical,
			Type:    AlertCircuitOpen,
			Message: fmt.Sprintf("circuit breaker open for %v", m.CircuitDurationInState.Round(time.Second)),
		})
	}

	raised := make([]Alert, 0, len(candidates))
	for _, a := range candidates {
		a.Timestamp = m.Timestamp
		key := alertKey{Type: a.Type, Level: a.Level}
		if last, ok := s.lastAlert[key]; ok && a.Timestamp.Sub(last) < s.config.AlertDedupInterval {
			continue
		}
		s.lastAlert[key] = a.Timestamp
		s.alerts = append(s.alerts, a)
		raised = append(raised, a)
	}
	return raised
}

// pruneAlertsLocked drops alerts older than the retention period
func (s *Service) pruneAlertsLocked(now time.Time) {
	cutoff := now.Add(-s.config.AlertRetention)
	drop := 0
	for drop < len(s.alerts) && s.alerts[drop].Timestamp.Before(cutoff) {
		drop++
	}
	if drop == 0 {
		return
	}
	n := copy(s.alerts, s.alerts[drop:])
	s.alerts = s.alerts[:n]
}

func (s *Service) updateGauges(m Metrics) {
	metrics.UpdateWindowUsage(m.RefreshesInWindow, m.RequestsLastMinute, m.RequestsLastHour)
	metrics.UpdateCircuitState(circuitGaugeValue(m.CircuitState), m.ConsecutiveFailures)
}

func circuitGaugeValue(state ratelimit.CircuitState) float64 {
	switch state {
	case ratelimit.CircuitOpen:
		return metrics.CircuitStateOpen
	case ratelimit.CircuitHalfOpen:
		return metrics.CircuitStateHalfOpen
	default:
		return metrics.CircuitStateClosed
	}
}

// publish delivers a notification to every listener without blocking
func (s *Service) publish(n Notification) {
	s.listeners.RLock()
	defer s.listeners.RUnlock()
	for ch := range s.listeners.chans {
		select {
		case ch <- n:
		default:
		}
	}
}
