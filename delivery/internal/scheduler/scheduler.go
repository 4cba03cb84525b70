// Package scheduler runs the coordinator's batch sweeps on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Sweeper interface {
	CancelUnpaidReproductions(ctx context.Context, olderThan time.Duration) (int, error)
	RetryUnprinted(ctx context.Context) (int, error)
}

type Config struct {
	Interval          time.Duration
	UnpaidCancelAfter time.Duration
}

type Scheduler struct {
	svc Sweeper
	cfg Config
	log *zap.Logger
}

func New(svc Sweeper, cfg Config, log *zap.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Scheduler{svc: svc, cfg: cfg, log: log.Named("scheduler")}
}

type job struct {
	name string
	run  func(ctx context.Context) (int, error)
}

// Run sweeps once immediately and then every interval until ctx is done.
// A failing sweep is logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	jobs := []job{
		{"cancel unpaid reproductions", func(ctx context.Context) (int, error) {
			return s.svc.CancelUnpaidReproductions(ctx, s.cfg.UnpaidCancelAfter)
		}},
		{"retry unprinted", s.svc.RetryUnprinted},
	}
	if s.cfg.UnpaidCancelAfter <= 0 {
		jobs = jobs[1:]
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			s.loop(ctx, j)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		s.sweep(ctx, j)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Interval)
	defer cancel()
	n, err := j.run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("sweep failed", zap.String("job", j.name), zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.log.Info("sweep done", zap.String("job", j.name), zap.Int("affected", n))
	}
}
