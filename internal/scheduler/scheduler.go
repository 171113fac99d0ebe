// Package scheduler runs periodic jobs for the worker.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type Job func(ctx context.Context, now time.Time) error

type Scheduler struct {
	log  *slog.Logger
	tick func(d time.Duration) (<-chan time.Time, func())
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		log: log,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Every runs job on each tick until ctx is done. A failing run is logged and the loop continues.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, job Job) {
	ticks, stop := s.tick(interval)
	defer stop()

	log := s.log.With("job", name)
	log.Info("scheduled", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return
		case now := <-ticks:
			if err := job(ctx, now); err != nil {
				log.Error("run failed", "error", err)
			}
		}
	}
}
