package scheduler

import (
	"context"
	"time"

	"mcpradar/internal/ports"
)

// IntervalScheduler reruns the scrape job on a fixed interval. The first run
// fires immediately.
type IntervalScheduler struct {
	every time.Duration
	stop  chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewInterval builds a ticker-backed scheduler.
func NewInterval(every time.Duration) *IntervalScheduler {
	return &IntervalScheduler{every: every}
}

// Start begins ticking until Stop or context cancellation.
func (s *IntervalScheduler) Start(ctx context.Context, job func()) error {
	if job == nil || s.every <= 0 {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	job()
	for {
		select {
		case <-ticker.C:
			job()
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		}
	}
}

// Stop halts the loop.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
