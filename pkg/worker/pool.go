// Package worker runs fire-and-forget tasks on a fixed set of goroutines.
//
// Delivery is at-most-once and best effort: Submit never blocks, a full queue drops the
// task, and a task that fails or panics is only logged.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Task func(ctx context.Context)

type Pool struct {
	log   *zap.Logger
	size  int
	tasks chan Task

	mu      sync.RWMutex
	stopped bool

	g      *errgroup.Group
	cancel context.CancelFunc
}

func NewPool(size, queue int, log *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue < 0 {
		queue = 0
	}
	return &Pool{
		log:   log.Named("worker"),
		size:  size,
		tasks: make(chan Task, queue),
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.g = &errgroup.Group{}
	for i := 0; i < p.size; i++ {
		p.g.Go(func() error {
			for task := range p.tasks {
				p.run(ctx, task)
			}
			return nil
		})
	}
}

func (p *Pool) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", zap.Any("panic", r))
		}
	}()
	task(ctx)
}

// Submit enqueues task and reports whether it was accepted.
func (p *Pool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		p.log.Warn("queue full, task dropped", zap.Int("capacity", cap(p.tasks)))
		return false
	}
}

// Stop rejects new tasks and waits for queued ones until ctx is done, after which
// running tasks see their context cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	if p.g == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		_ = p.g.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}
