package job

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs sync passes over every document on a periodic interval.
type Scheduler struct {
	interval time.Duration
	runner   *Runner
}

// NewScheduler creates a scheduler ticking every interval.
func NewScheduler(interval time.Duration, runner *Runner) *Scheduler {
	return &Scheduler{interval: interval, runner: runner}
}

// Start runs one pass immediately, then one per tick until ctx is cancelled.
// An in-flight pass observes the cancellation and stops between fetch units.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting sync scheduler", "interval", s.interval)

	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.RunOnce(ctx); err != nil {
		slog.Error("[Scheduler] Sync run failed", "error", err)
	}
}
