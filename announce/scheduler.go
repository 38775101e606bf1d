package announce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/announcer/errors"
	"github.com/kbukum/announcer/logger"
)

// TickFunc is one unit of scheduled work.
type TickFunc func(ctx context.Context)

// Scheduler runs a TickFunc immediately and then once per period on a
// single goroutine, so ticks never overlap. A tick that overruns the period
// delays the next one; missed ticks are dropped, not queued.
type Scheduler struct {
	period time.Duration
	tick   TickFunc
	log    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler. A nil log falls back to the global
// logger.
func NewScheduler(period time.Duration, tick TickFunc, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.WithComponent("scheduler")
	}
	return &Scheduler{period: period, tick: tick, log: log}
}

// Start launches the loop and returns immediately. The loop ignores
// cancellation of ctx; only Stop ends it.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.period <= 0 {
		return errors.InvalidInput("period", fmt.Sprintf("period must be positive, got %s", s.period))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New(errors.ErrCodeInternal, "scheduler already started", 0)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(loopCtx, done)
	return nil
}

// Stop ends the loop and waits for an in-flight tick to return. Calling
// Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// Ticks run to completion even when Stop is called mid-flight; each
	// request is bounded by its own timeout.
	tickCtx := context.WithoutCancel(ctx)
	s.runOnce(tickCtx)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			s.runOnce(tickCtx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("scheduled tick panicked", map[string]interface{}{
				logger.FieldError: fmt.Sprintf("%v", r),
			})
		}
	}()
	s.tick(ctx)
}
