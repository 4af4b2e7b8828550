// Package scheduler runs deferred tasks. A sequence hands its flush routine to a
// Scheduler, which decides when (and on which goroutine) the flush happens.
//
// Three realizations are provided:
//   - Manual queues tasks until the host calls Tick or Drain.
//   - Loop runs tasks one at a time, in order, on a single goroutine.
//   - Pool runs tasks concurrently on a pond worker pool.
package scheduler

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/amp-labs/amp-collection/logger"
)

// ErrStopped is returned when a task is posted to a scheduler that has stopped.
var ErrStopped = errors.New("scheduler is stopped")

// Scheduler runs tasks at some later point. Schedule must never block on the
// execution of the task, and it must be safe to call from inside a task.
type Scheduler interface {
	Schedule(task func())
}

// Runner is a Scheduler that can also run a function on its own goroutine and
// wait for it. Work done through Do is ordered with the scheduled tasks, so a
// task never observes it half done.
type Runner interface {
	Scheduler
	Do(ctx context.Context, fn func()) error
}

// Func adapts a plain function into a Scheduler. For example, Func(func(t func()) { go t() })
// runs every task on its own goroutine.
type Func func(task func())

// Schedule calls f(task).
func (f Func) Schedule(task func()) {
	f(task)
}

// runTask runs task, recovering and logging any panic. It reports whether the
// task completed without panicking.
func runTask(ctx context.Context, kind, name string, task func()) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			ok = false

			taskPanics.WithLabelValues(kind, name).Inc()

			logger.Get(ctx).Error("scheduled task recovered from panic",
				"scheduler", kind,
				"name", name,
				"error", err,
				"stack", string(debug.Stack()))
		}
	}()

	task()

	return true
}
