package monitor

import (
	"context"
	"time"
)

// scheduler runs fn once immediately on Start and then on every interval
// tick until stopped. Kick requests one out-of-band run on the scheduler's
// own goroutine; kicks arriving while a run is pending coalesce into one.
// Stop cancels the context passed to fn, so an in-flight run can abort its
// network call, and prevents any further runs.
type scheduler struct {
	interval time.Duration
	fn       func(ctx context.Context)

	cancel context.CancelFunc
	kick   chan struct{}
	done   chan struct{}
}

func newScheduler(interval time.Duration, fn func(ctx context.Context)) *scheduler {
	return &scheduler{
		interval: interval,
		fn:       fn,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (s *scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
}

func (s *scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.fn(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fn(ctx)
		case <-s.kick:
			s.fn(ctx)
		}
	}
}

// Kick schedules one extra run as soon as the scheduler goroutine is free.
// Never blocks.
func (s *scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the run loop. It does not wait for an in-flight fn to return;
// callers that need the no-further-mutation guarantee flip their own closed
// flag before calling Stop.
func (s *scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
