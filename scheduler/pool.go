package scheduler

import (
	"context"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-collection/logger"
)

// Pool runs tasks concurrently on a bounded pond worker pool. Tasks may run in
// any order relative to one another.
type Pool struct {
	ctx  context.Context //nolint:containedctx
	name string
	pool pond.Pool
}

var _ Scheduler = (*Pool)(nil)

// NewPool creates a pool with size workers.
func NewPool(ctx context.Context, name string, size int) *Pool {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = logger.With(logger.WithSubsystem(ctx, "scheduler"), "pool", name)

	logger.Get(ctx).Debug("initializing worker pool", "size", size)

	return &Pool{
		ctx:  ctx,
		name: name,
		pool: pond.NewPool(size, pond.WithContext(ctx)),
	}
}

// Schedule submits task to the pool. If the pool is stopped the task is dropped
// and a debug message is logged.
func (p *Pool) Schedule(task func()) {
	queuedTasks.WithLabelValues(kindPool, p.name).Inc()

	err := p.pool.Go(func() {
		queuedTasks.WithLabelValues(kindPool, p.name).Dec()
		tasksRun.WithLabelValues(kindPool, p.name).Inc()

		runTask(p.ctx, kindPool, p.name, task)
	})
	if err != nil {
		queuedTasks.WithLabelValues(kindPool, p.name).Dec()
		logger.Get(p.ctx).Debug("dropping task submitted to stopped pool", "error", err)
	}
}

// Stop waits for submitted tasks to finish and stops the workers.
func (p *Pool) Stop() {
	logger.Get(p.ctx).Debug("stopping worker pool")
	p.pool.StopAndWait()
}
