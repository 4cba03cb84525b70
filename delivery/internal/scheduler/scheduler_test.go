package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/archive-delivery/delivery/internal/scheduler"
)

type sweeper struct {
	cancels   atomic.Int32
	retries   atomic.Int32
	olderThan atomic.Int64
}

func (s *sweeper) CancelUnpaidReproductions(_ context.Context, olderThan time.Duration) (int, error) {
	s.cancels.Add(1)
	s.olderThan.Store(int64(olderThan))
	return 1, nil
}

func (s *sweeper) RetryUnprinted(context.Context) (int, error) {
	s.retries.Add(1)
	return 0, errors.New("printer offline")
}

func TestScheduler_Run(t *testing.T) {
	t.Parallel()
	sw := &sweeper{}
	s := scheduler.New(sw, scheduler.Config{
		Interval:          10 * time.Millisecond,
		UnpaidCancelAfter: 14 * 24 * time.Hour,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return sw.cancels.Load() >= 3 && sw.retries.Load() >= 3
	}, time.Second, 5*time.Millisecond, "a failing sweep keeps its schedule")
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.Equal(t, int64(14*24*time.Hour), sw.olderThan.Load())
}

func TestScheduler_CancelDisabled(t *testing.T) {
	t.Parallel()
	sw := &sweeper{}
	s := scheduler.New(sw, scheduler.Config{Interval: 10 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	require.Eventually(t, func() bool { return sw.retries.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.Zero(t, sw.cancels.Load())
}
