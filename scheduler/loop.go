package scheduler

import (
	"context"
	"sync"

	"github.com/amp-labs/amp-collection/logger"
)

// Loop is a single-goroutine event loop. Tasks run one at a time in the order
// they were posted. Posting never blocks, even from inside a running task.
type Loop struct {
	ctx   context.Context //nolint:containedctx
	name  string
	input chan<- func()
	done  chan struct{}

	mut     sync.RWMutex
	stopped bool
}

var _ Runner = (*Loop)(nil)

// NewLoop starts an event loop. It stops when Stop is called or ctx is
// canceled; tasks posted before that still run.
func NewLoop(ctx context.Context, name string) *Loop {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = logger.With(logger.WithSubsystem(ctx, "scheduler"), "loop", name)

	input, output := mailbox[func()](func(depth int) {
		queuedTasks.WithLabelValues(kindLoop, name).Set(float64(depth))
	})

	l := &Loop{
		ctx:   ctx,
		name:  name,
		input: input,
		done:  make(chan struct{}),
	}

	aliveLoops.WithLabelValues(name).Inc()

	logger.Get(ctx).Debug("event loop started")

	go l.run(output)

	context.AfterFunc(ctx, l.stop)

	return l
}

func (l *Loop) run(output <-chan func()) {
	defer func() {
		aliveLoops.WithLabelValues(l.name).Dec()
		logger.Get(l.ctx).Debug("event loop stopped")
		close(l.done)
	}()

	for task := range output {
		tasksRun.WithLabelValues(kindLoop, l.name).Inc()

		runTask(l.ctx, kindLoop, l.name, task)
	}
}

// Schedule posts task, dropping it (with a debug log) if the loop has stopped.
func (l *Loop) Schedule(task func()) {
	if err := l.Post(task); err != nil {
		logger.Get(l.ctx).Debug("dropping task posted to stopped loop")
	}
}

// Post queues task to run on the loop.
func (l *Loop) Post(task func()) error {
	l.mut.RLock()
	defer l.mut.RUnlock()

	if l.stopped {
		return ErrStopped
	}

	l.input <- task

	return nil
}

// Do runs fn on the loop and waits for it to finish. It returns ctx.Err() if the
// context ends first, in which case fn may still run later. Do must not be
// called from a task running on the same loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})

	if err := l.Post(func() {
		defer close(finished)

		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new tasks, waits for the queued ones to run and then stops the
// loop. It is safe to call more than once, but not from inside a task.
func (l *Loop) Stop() {
	l.stop()
	<-l.done
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) stop() {
	l.mut.Lock()
	defer l.mut.Unlock()

	if l.stopped {
		return
	}

	l.stopped = true
	close(l.input)
}
