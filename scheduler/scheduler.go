package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a task at a fixed interval on a background goroutine.
// It drives the token refresh loop and the monitoring loop.
type Scheduler struct {
	interval time.Duration
	task     func(context.Context)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	nudge   chan struct{}
	wg      sync.WaitGroup
}

// New creates a Scheduler that will invoke task every interval once started.
func New(interval time.Duration, task func(context.Context)) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
		nudge:    make(chan struct{}, 1),
	}
}

// Start launches the background loop. If runImmediately is true the task is
// executed once before the first tick. Calling Start on a running scheduler
// is a no-op.
func (s *Scheduler) Start(ctx context.Context, runImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx, runImmediately)
}

func (s *Scheduler) loop(ctx context.Context, runImmediately bool) {
	defer s.wg.Done()

	if runImmediately {
		s.task(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.task(ctx)
		case <-s.nudge:
			s.task(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunNow requests an off-schedule execution of the task. The request is
// coalesced if one is already pending and dropped if the scheduler is not
// running.
func (s *Scheduler) RunNow() {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if !running {
		return
	}

	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

// Stop cancels future executions and waits for an in-flight task to finish.
// An attempt already running when Stop is called completes normally.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
}

// IsRunning reports whether the background loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
