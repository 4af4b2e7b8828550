package scheduler

import (
	"context"
	"sync"
)

// Manual is a Scheduler that only runs tasks when told to. It lets the host
// decide exactly when deferred work happens, which also makes it the natural
// choice for tests.
type Manual struct {
	ctx   context.Context //nolint:containedctx
	name  string
	mut   sync.Mutex
	queue []func()
}

var _ Scheduler = (*Manual)(nil)

// NewManual creates a manual scheduler. The context is used for logging.
func NewManual(ctx context.Context, name string) *Manual {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Manual{ctx: ctx, name: name}
}

// Schedule queues task until the next Tick.
func (m *Manual) Schedule(task func()) {
	m.mut.Lock()
	defer m.mut.Unlock()

	m.queue = append(m.queue, task)
	queuedTasks.WithLabelValues(kindManual, m.name).Inc()
}

// Tick runs the tasks that were queued before it was called, in order, and
// returns how many ran. Tasks scheduled while ticking wait for the next Tick.
func (m *Manual) Tick() int {
	m.mut.Lock()
	tasks := m.queue
	m.queue = nil
	m.mut.Unlock()

	for _, task := range tasks {
		queuedTasks.WithLabelValues(kindManual, m.name).Dec()
		tasksRun.WithLabelValues(kindManual, m.name).Inc()

		runTask(m.ctx, kindManual, m.name, task)
	}

	return len(tasks)
}

// Drain ticks until no tasks are left and returns the total that ran.
func (m *Manual) Drain() int {
	total := 0

	for {
		n := m.Tick()
		if n == 0 {
			return total
		}

		total += n
	}
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mut.Lock()
	defer m.mut.Unlock()

	return len(m.queue)
}
