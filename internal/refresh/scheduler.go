package refresh

import (
	"context"
	"sync"
	"time"
)

// defaultTickInterval is the scheduler's poll cadence (spec §4.7):
// hourly, independent of the refresh interval itself.
const defaultTickInterval = time.Hour

// Scheduler ticks periodically and asks the Manager to refresh
// whenever persisted credentials are due (spec §4.7). It is a thin
// wrapper: all retry/backoff/terminal-failure policy lives in Manager.
type Scheduler struct {
	manager      *Manager
	intervalDays int
	tick         time.Duration
	enabled      bool
	log          Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewScheduler builds a Scheduler. tick defaults to defaultTickInterval
// when zero.
func NewScheduler(manager *Manager, intervalDays int, tick time.Duration, enabled bool, log Logger) *Scheduler {
	if tick <= 0 {
		tick = defaultTickInterval
	}
	return &Scheduler{
		manager:      manager,
		intervalDays: intervalDays,
		tick:         tick,
		enabled:      enabled,
		log:          log,
	}
}

// Start launches the background tick loop. A no-op when the scheduler
// is disabled (spec §4.7 "Enablement flag") or already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.loop(runCtx)
}

// Stop halts the tick loop and waits for the current iteration (if
// any) to return. A scheduled refresh in flight runs on the loop's
// context, so Stop's cancellation also cuts short its HTTP exchange
// and any backoff sleep.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	stopped := s.stopped
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// TriggerManual runs one refresh, with Manager.RefreshWithRetry's
// retries, outside the regular tick cadence (spec §4.7 "Manual
// trigger", used by the refresh_credentials tool). It bypasses the
// due-check but still respects the in-progress guard.
func (s *Scheduler) TriggerManual(ctx context.Context) error {
	return s.manager.RefreshWithRetry(ctx, true)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runIfDue(ctx)
		}
	}
}

func (s *Scheduler) runIfDue(ctx context.Context) {
	if !s.manager.IsRefreshDue(s.intervalDays) {
		return
	}
	if s.manager.State().Status == StatusInProgress {
		return
	}
	if err := s.manager.RefreshWithRetry(ctx, false); err != nil {
		if s.log != nil {
			s.log.Error("scheduled refresh failed", map[string]any{"error": err.Error()})
		}
	}
}
