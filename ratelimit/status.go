package ratelimit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/status-im/provider-guard/config"
)

// CircuitState identifies the circuit breaker position
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the state in its string form
func (s CircuitState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form written by MarshalJSON
func (s *CircuitState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "closed":
		*s = CircuitClosed
	case "open":
		*s = CircuitOpen
	case "half-open":
		*s = CircuitHalfOpen
	default:
		return fmt.Errorf("unknown circuit state %q", raw)
	}
	return nil
}

// RefreshEvent is one recorded token refresh attempt
type RefreshEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// Status is a read-only snapshot of the coordinator. It is computed under a
// read lock and never mutated afterwards, so consumers may retain it freely.
type Status struct {
	Rules config.RateLimitRules `json:"rules"`

	RefreshesInWindow  int `json:"refreshes_in_window"`
	RequestsLastMinute int `json:"requests_last_minute"`
	RequestsLastHour   int `json:"requests_last_hour"`

	CircuitState        CircuitState `json:"circuit_state"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastFailureAt       time.Time    `json:"last_failure_at"`
	OpenedAt            time.Time    `json:"opened_at"`
	StateChangedAt      time.Time    `json:"state_changed_at"`
	HalfOpenRemaining   int          `json:"half_open_remaining"`

	LastSuccessfulRefresh time.Time `json:"last_successful_refresh"`

	// RefreshAllowed and RequestAllowed report what the gates would answer
	// right now, without consuming trial permits or moving the breaker
	RefreshAllowed bool `json:"refresh_allowed"`
	RequestAllowed bool `json:"request_allowed"`

	TimeUntilNextRefresh time.Duration `json:"time_until_next_refresh"`

	TotalRefreshAttempts int64 `json:"total_refresh_attempts"`
	TotalBreakerTrips    int64 `json:"total_breaker_trips"`
}
