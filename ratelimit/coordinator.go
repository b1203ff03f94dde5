package ratelimit

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/status-im/provider-guard/config"
	"github.com/status-im/provider-guard/metrics"
)

// RefreshGate arbitrates token refresh attempts
//
//go:generate mockgen -destination=mocks/coordinator.go . RefreshGate,RequestGate,StatusProvider
type RefreshGate interface {
	CanRefreshToken() bool
	RecordTokenRefresh(success bool)
	TimeUntilNextRefresh() time.Duration
}

// RequestGate arbitrates outbound API requests
type RequestGate interface {
	CanMakeAPIRequest() bool
	RecordAPIRequest()
}

// StatusProvider exposes a read-only snapshot of gates and breaker state
type StatusProvider interface {
	Status() Status
}

// Coordinator tracks sliding-window usage and owns the circuit breaker. It is
// the single authority consulted before every refresh attempt and outbound
// request: callers check the gate, act outside the lock, then record the
// outcome. One instance is built by the composition root and shared by
// reference across the token manager, the HTTP layer and the monitor.
//
// All state is in-memory and resets on process start. Instances sharing one
// provider account across processes each enforce limits independently.
type Coordinator struct {
	mu sync.RWMutex

	rules config.RateLimitRules

	refreshEvents []RefreshEvent
	requestTimes  []time.Time

	lastSuccessfulRefresh time.Time

	circuitState        CircuitState
	consecutiveFailures int
	lastFailureAt       time.Time
	openedAt            time.Time
	stateChangedAt      time.Time
	halfOpenRemaining   int

	totalRefreshAttempts int64
	totalBreakerTrips    int64

	// now is replaceable in tests to drive window and breaker timing
	now func() time.Time
}

// NewCoordinator creates a coordinator with the given rules. The rules are
// expected to be validated already; use UpdateRules for runtime replacement.
func NewCoordinator(rules config.RateLimitRules) *Coordinator {
	c := &Coordinator{
		rules: rules,
		now:   time.Now,
	}
	c.stateChangedAt = c.now()
	return c
}

// CanRefreshToken reports whether a token refresh attempt may proceed now.
// Checks, in order: the circuit breaker, the minimum interval since the last
// successful refresh, the refresh window quota. An open breaker transitions
// to half-open here once ResetTimeout has elapsed, and each half-open grant
// consumes one trial permit. Half-open probes bypass the interval and window
// checks: the breaker owns recovery while it is probing.
func (c *Coordinator) CanRefreshToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if c.circuitState == CircuitOpen {
		if now.Sub(c.openedAt) <= c.rules.ResetTimeout {
			metrics.RecordGateDenial("refresh")
			return false
		}
		c.circuitState = CircuitHalfOpen
		c.stateChangedAt = now
		c.halfOpenRemaining = c.rules.HalfOpenRequests
		log.Printf("RateLimit: circuit half-open after %v, %d trial permits", c.rules.ResetTimeout, c.halfOpenRemaining)
	}

	if c.circuitState == CircuitHalfOpen {
		if c.halfOpenRemaining <= 0 {
			metrics.RecordGateDenial("refresh")
			return false
		}
		c.halfOpenRemaining--
		return true
	}

	if !c.lastSuccessfulRefresh.IsZero() && now.Sub(c.lastSuccessfulRefresh) < c.rules.TokenRefreshMinInterval {
		metrics.RecordGateDenial("refresh")
		return false
	}

	c.refreshEvents = pruneRefreshEvents(c.refreshEvents, now.Add(-c.rules.TokenWindowDuration))
	if len(c.refreshEvents) >= c.rules.MaxTokensPerWindow {
		metrics.RecordGateDenial("refresh")
		return false
	}

	return true
}

// RecordTokenRefresh records the outcome of a refresh attempt. Callers must
// call it exactly once per attempt, success or not; it is the only path that
// opens or closes the breaker. A success resets the failure count and closes
// the breaker; a failure increments it and may trip the breaker open.
func (c *Coordinator) RecordTokenRefresh(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.refreshEvents = pruneRefreshEvents(c.refreshEvents, now.Add(-c.rules.TokenWindowDuration))
	c.refreshEvents = append(c.refreshEvents, RefreshEvent{Timestamp: now, Success: success})
	c.totalRefreshAttempts++

	if success {
		c.lastSuccessfulRefresh = now
		c.consecutiveFailures = 0
		if c.circuitState != CircuitClosed {
			c.circuitState = CircuitClosed
			c.stateChangedAt = now
			c.halfOpenRemaining = 0
			log.Printf("RateLimit: circuit closed after successful refresh")
		}
		metrics.RecordRefreshAttempt("success")
		return
	}

	c.consecutiveFailures++
	c.lastFailureAt = now
	metrics.RecordRefreshAttempt("failure")

	switch c.circuitState {
	case CircuitHalfOpen:
		c.tripLocked(now, "trial refresh failed")
	case CircuitClosed:
		if c.consecutiveFailures >= c.rules.FailureThreshold {
			c.tripLocked(now, fmt.Sprintf("%d consecutive failures", c.consecutiveFailures))
		}
	}
}

func (c *Coordinator) tripLocked(now time.Time, reason string) {
	c.circuitState = CircuitOpen
	c.openedAt = now
	c.stateChangedAt = now
	c.halfOpenRemaining = 0
	c.totalBreakerTrips++
	metrics.RecordBreakerTrip()
	log.Printf("RateLimit: circuit opened (%s), refusing refreshes for %v", reason, c.rules.ResetTimeout)
}

// CanMakeAPIRequest reports whether an outbound request fits inside both the
// per-minute and per-hour windows
func (c *Coordinator) CanMakeAPIRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.requestTimes = pruneTimes(c.requestTimes, now.Add(-time.Hour))

	if countSince(c.requestTimes, now.Add(-time.Minute)) >= c.rules.MaxRequestsPerMinute {
		metrics.RecordGateDenial("request")
		return false
	}
	if len(c.requestTimes) >= c.rules.MaxRequestsPerHour {
		metrics.RecordGateDenial("request")
		return false
	}

	return true
}

// RecordAPIRequest records one issued request against both request windows
func (c *Coordinator) RecordAPIRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.requestTimes = pruneTimes(c.requestTimes, now.Add(-time.Hour))
	c.requestTimes = append(c.requestTimes, now)
}

// TimeUntilNextRefresh returns how long callers should wait before the next
// refresh attempt: the larger of the remaining minimum-interval wait and the
// time until the oldest refresh event ages out of a full window. Zero means
// a refresh is allowed now. Breaker wait is not part of this figure; callers
// observing an open circuit consult Status instead.
func (c *Coordinator) TimeUntilNextRefresh() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.timeUntilNextRefreshLocked(c.now())
}

func (c *Coordinator) timeUntilNextRefreshLocked(now time.Time) time.Duration {
	var wait time.Duration

	if !c.lastSuccessfulRefresh.IsZero() {
		if d := c.rules.TokenRefreshMinInterval - now.Sub(c.lastSuccessfulRefresh); d > wait {
			wait = d
		}
	}

	cutoff := now.Add(-c.rules.TokenWindowDuration)
	if count := countRefreshesSince(c.refreshEvents, cutoff); count >= c.rules.MaxTokensPerWindow {
		// The slot frees when the newest event that must age out reaches the
		// window boundary
		oldest := c.refreshEvents[len(c.refreshEvents)-c.rules.MaxTokensPerWindow]
		if d := oldest.Timestamp.Sub(cutoff); d > wait {
			wait = d
		}
	}

	return wait
}

// UpdateRules validates and atomically replaces the rule set. An invalid set
// is rejected with ErrInvalidRules and the previous rules stay in force;
// counters and breaker state are never touched by an update.
func (c *Coordinator) UpdateRules(rules config.RateLimitRules) error {
	if err := rules.Validate(); err != nil {
		log.Printf("RateLimit: rejected rules update: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.rules
	c.rules = rules
	log.Printf("RateLimit: rules updated, refresh %d per %v (was %d per %v), requests %d/min %d/h",
		rules.MaxTokensPerWindow, rules.TokenWindowDuration,
		old.MaxTokensPerWindow, old.TokenWindowDuration,
		rules.MaxRequestsPerMinute, rules.MaxRequestsPerHour)
	return nil
}

// Status returns a consistent snapshot for monitoring and diagnostics. It
// takes only the read lock, never prunes and never moves the breaker:
// RefreshAllowed mirrors what CanRefreshToken would answer without consuming
// a trial permit.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	refreshes := countRefreshesSince(c.refreshEvents, now.Add(-c.rules.TokenWindowDuration))
	lastMinute := countSince(c.requestTimes, now.Add(-time.Minute))
	lastHour := countSince(c.requestTimes, now.Add(-time.Hour))

	return Status{
		Rules:                 c.rules,
		RefreshesInWindow:     refreshes,
		RequestsLastMinute:    lastMinute,
		RequestsLastHour:      lastHour,
		CircuitState:          c.circuitState,
		ConsecutiveFailures:   c.consecutiveFailures,
		LastFailureAt:         c.lastFailureAt,
		OpenedAt:              c.openedAt,
		StateChangedAt:        c.stateChangedAt,
		HalfOpenRemaining:     c.halfOpenRemaining,
		LastSuccessfulRefresh: c.lastSuccessfulRefresh,
		RefreshAllowed:        c.refreshAllowedLocked(now, refreshes),
		RequestAllowed:        lastMinute < c.rules.MaxRequestsPerMinute && lastHour < c.rules.MaxRequestsPerHour,
		TimeUntilNextRefresh:  c.timeUntilNextRefreshLocked(now),
		TotalRefreshAttempts:  c.totalRefreshAttempts,
		TotalBreakerTrips:     c.totalBreakerTrips,
	}
}

func (c *Coordinator) refreshAllowedLocked(now time.Time, refreshesInWindow int) bool {
	switch c.circuitState {
	case CircuitOpen:
		return now.Sub(c.openedAt) > c.rules.ResetTimeout
	case CircuitHalfOpen:
		return c.halfOpenRemaining > 0
	}
	if !c.lastSuccessfulRefresh.IsZero() && now.Sub(c.lastSuccessfulRefresh) < c.rules.TokenRefreshMinInterval {
		return false
	}
	return refreshesInWindow < c.rules.MaxTokensPerWindow
}
