// Package task runs detached fire-and-forget work.
//
// A detached task is never joined by the code that starts it. Its errors and
// panics are logged, never propagated, so one failing task cannot abort its
// siblings. The tracker still counts running tasks so shutdown can wait.
package task

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"screenflow/internal/metrics"
)

// Func is a unit of detached work.
type Func func(ctx context.Context) error

// Tracker starts and tracks detached tasks.
type Tracker struct {
	logger  *zap.Logger
	metrics *metrics.Metrics

	wg      sync.WaitGroup
	pending *atomic.Int64
}

// NewTracker creates a tracker. A nil logger discards logs.
func NewTracker(logger *zap.Logger, m *metrics.Metrics) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		logger:  logger.Named("task"),
		metrics: m,
		pending: atomic.NewInt64(0),
	}
}

// Go runs fn in its own goroutine. The task keeps the values of ctx but not
// its cancellation.
func (t *Tracker) Go(ctx context.Context, name string, fn Func) {
	if fn == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	t.wg.Add(1)
	t.pending.Inc()
	go func() {
		defer t.wg.Done()
		defer t.pending.Dec()
		if err := t.run(ctx, fn); err != nil {
			t.metrics.RecordTaskError()
			t.logger.Error("detached task failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

func (t *Tracker) run(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Pending returns the number of running tasks.
func (t *Tracker) Pending() int {
	return int(t.pending.Load())
}

// Wait blocks until every task has returned or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %d detached tasks: %w", t.Pending(), ctx.Err())
	}
}
