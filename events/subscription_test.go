package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionManager_EmitReachesAllSubscribers(t *testing.T) {
	sm := NewSubscriptionManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	subscriberCount := 5
	received := make([]bool, subscriberCount)

	for i := 0; i < subscriberCount; i++ {
		sub := sm.Subscribe()
		idx := i

		wg.Add(1)
		go func(sub Subscription, idx int) {
			defer wg.Done()
			select {
			case <-sub.Chan():
				received[idx] = true
			case <-time.After(1 * time.Second):
			}
		}(sub, idx)
	}

	sm.Emit(ctx)
	wg.Wait()

	for i, got := range received {
		require.Truef(t, got, "subscriber %d did not receive the signal", i)
	}
}

func TestSubscriptionManager_CancelIsIdempotent(t *testing.T) {
	sm := NewSubscriptionManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := sm.Subscribe()
	sub.Cancel()
	sub.Cancel() // Repeated cancel must not panic

	// Emitting after cancellation must not panic on a closed channel
	sm.Emit(ctx)

	sm.mu.RLock()
	count := len(sm.subscribers)
	sm.mu.RUnlock()
	assert.Equal(t, 0, count)
}

func TestSubscriptionManager_SignalsCollapseWhileBusy(t *testing.T) {
	sm := NewSubscriptionManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := sm.Subscribe()
	defer sub.Cancel()

	// Three rapid emissions with nobody draining: the buffered channel
	// holds one pending signal and drops the rest.
	sm.Emit(ctx)
	sm.Emit(ctx)
	sm.Emit(ctx)

	var received int
	drained := false
	for !drained {
		select {
		case <-sub.Chan():
			received++
		default:
			drained = true
		}
	}

	assert.Equal(t, 1, received)
}

func TestSubscription_Watch(t *testing.T) {
	sm := NewSubscriptionManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	sub := sm.Subscribe()
	sub.Watch(ctx, func() {
		atomic.AddInt32(&calls, 1)
	}, true)

	// callNow fires once immediately
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 10*time.Millisecond)

	sm.Emit(ctx)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 10*time.Millisecond)

	sub.Cancel()
	sm.Emit(ctx)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubscription_WatchStopsWithParentContext(t *testing.T) {
	sm := NewSubscriptionManager()

	parentCtx, parentCancel := context.WithCancel(context.Background())

	var calls int32
	sub := sm.Subscribe()
	sub.Watch(parentCtx, func() {
		atomic.AddInt32(&calls, 1)
	}, false)

	parentCancel()
	time.Sleep(50 * time.Millisecond)

	// Subscription is removed once the parent context finishes
	sm.mu.RLock()
	count := len(sm.subscribers)
	sm.mu.RUnlock()
	assert.Equal(t, 0, count)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
