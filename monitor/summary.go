package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/status-im/provider-guard/ratelimit"
)

// summaryWindow is the period a summary aggregates over
const summaryWindow = time.Hour

// Summary aggregates the trailing hour of samples and alerts
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`
	WindowStart time.Time `json:"window_start"`
	Samples     int       `json:"samples"`

	AvgRequestsPerMinute float64 `json:"avg_requests_per_minute"`
	MaxRequestsPerMinute int     `json:"max_requests_per_minute"`
	AvgMinuteUtilization float64 `json:"avg_minute_utilization"`
	MaxMinuteUtilization float64 `json:"max_minute_utilization"`
	AvgHourUtilization   float64 `json:"avg_hour_utilization"`
	MaxHourUtilization   float64 `json:"max_hour_utilization"`

	RefreshAttempts int64 `json:"refresh_attempts"`
	BreakerTrips    int64 `json:"breaker_trips"`

	CircuitState ratelimit.CircuitState `json:"circuit_state"`

	AlertCounts map[AlertType]int `json:"alert_counts"`
}

// GenerateSummary aggregates the samples and alerts of the trailing hour.
// Refresh attempt and breaker trip counts are deltas between the oldest and
// newest sample in the window.
func (s *Service) GenerateSummary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	cutoff := now.Add(-summaryWindow)
	samples := s.history.since(cutoff)

	sum := Summary{
		GeneratedAt: now,
		WindowStart: cutoff,
		Samples:     len(samples),
		AlertCounts: make(map[AlertType]int),
	}
	if s.hasCurrent {
		sum.CircuitState = s.current.CircuitState
	}

	if len(samples) > 0 {
		var minuteTotal, minuteUtilTotal, hourUtilTotal float64
		for _, m := range samples {
			minuteTotal += float64(m.RequestsLastMinute)
			minuteUtilTotal += m.MinuteUtilization
			hourUtilTotal += m.HourUtilization
			if m.RequestsLastMinute > sum.MaxRequestsPerMinute {
				sum.MaxRequestsPerMinute = m.RequestsLastMinute
			}
			if m.MinuteUtilization > sum.MaxMinuteUtilization {
				sum.MaxMinuteUtilization = m.MinuteUtilization
			}
			if m.HourUtilization > sum.MaxHourUtilization {
				sum.MaxHourUtilization = m.HourUtilization
			}
		}
		n := float64(len(samples))
		sum.AvgRequestsPerMinute = minuteTotal / n
		sum.AvgMinuteUtilization = minuteUtilTotal / n
		sum.AvgHourUtilization = hourUtilTotal / n

		first, last := samples[0], samples[len(samples)-1]
		sum.RefreshAttempts = last.TotalRefreshAttempts - first.TotalRefreshAttempts
		sum.BreakerTrips = last.TotalBreakerTrips - first.TotalBreakerTrips
	}

	for _, a := range s.alerts {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		sum.AlertCounts[a.Type]++
	}

	return sum
}

// FormatSummary renders the trailing-hour summary as human-readable text
func (s *Service) FormatSummary() string {
	return s.GenerateSummary().Format()
}

// Format renders the summary as human-readable text
func (sum Summary) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provider guard summary (generated %s)\n", sum.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "  Window: %s to %s, %d samples\n",
		sum.WindowStart.Format("15:04:05"), sum.GeneratedAt.Format("15:04:05"), sum.Samples)
	fmt.Fprintf(&b, "  Requests per minute: avg %.1f, max %d\n", sum.AvgRequestsPerMinute, sum.MaxRequestsPerMinute)
	fmt.Fprintf(&b, "  Minute utilization: avg %.1f%%, max %.1f%%\n", sum.AvgMinuteUtilization, sum.MaxMinuteUtilization)
	fmt.Fprintf(&b, "  Hour utilization: avg %.1f%%, max %.1f%%\n", sum.AvgHourUtilization, sum.MaxHourUtilization)
	fmt.Fprintf(&b, "  Refresh attempts: %d\n", sum.RefreshAttempts)
	fmt.Fprintf(&b, "  Breaker trips: %d\n", sum.BreakerTrips)
	fmt.Fprintf(&b, "  Circuit state: %s\n", sum.CircuitState)

	if len(sum.AlertCounts) == 0 {
		b.WriteString("  Alerts: none\n")
		return b.String()
	}
	types := make([]string, 0, len(sum.AlertCounts))
	for t := range sum.AlertCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	b.WriteString("  Alerts:")
	for _, t := range types {
		fmt.Fprintf(&b, " %s=%d", t, sum.AlertCounts[AlertType(t)])
	}
	b.WriteString("\n")
	return b.String()
}
