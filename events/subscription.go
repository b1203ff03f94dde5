package events

//go:generate mockgen -destination=mocks/subscription.go . Subscription

import (
	"context"
	"sync"
)

// Subscription is a handle to a stream of change signals, such as token
// replacements announced by the token manager.
type Subscription interface {
	// Chan returns a read-only channel for self-handling signals
	Chan() <-chan struct{}
	// Cancel unsubscribes and closes the channel. Safe for repeated calls
	Cancel()
	// Watch starts a goroutine that calls cb on each signal.
	// If callNow is true, cb is called immediately.
	// When parentCtx finishes, the subscription is automatically cancelled
	Watch(parentCtx context.Context, cb func(), callNow bool) Subscription
}

type subscription struct {
	ch     chan struct{}
	mgr    *SubscriptionManager
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling signals.
func (s *subscription) Chan() <-chan struct{} { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each signal.
// If callNow is true, cb is called immediately.
// When parentCtx finishes, the subscription is automatically cancelled.
func (s *subscription) Watch(parentCtx context.Context, cb func(), callNow bool) Subscription {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	if callNow {
		cb()
	}

	go func(ctx context.Context) {
		defer s.Cancel() // cancel subscription on exit
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-s.ch:
				if !ok {
					// Cancelled from outside; the channel is closed
					return
				}
				cb()
			}
		}
	}(ctx)

	return s
}

// SubscriptionManager fans change signals out to subscribers. Channels are
// buffered with capacity one so repeated signals collapse while a subscriber
// is busy; emitting never blocks the signal source.
type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewSubscriptionManager creates an empty subscription manager.
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its handle.
func (m *SubscriptionManager) Subscribe() Subscription {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &subscription{ch: ch, mgr: m}
}

func (m *SubscriptionManager) unsubscribe(ch chan struct{}) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Emit sends a signal to all subscribers (non-blocking if a channel is full).
func (m *SubscriptionManager) Emit(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			// Stop notifying once the context is cancelled
			return
		case sub <- struct{}{}:
			// Notified successfully
		default:
			// Subscriber still has a pending signal; skip
		}
	}
}
