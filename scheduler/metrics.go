package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are labeled by scheduler kind ("manual", "loop", "pool") and name.

var (
	// tasksRun counts tasks that ran, whether or not they panicked.
	tasksRun = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_scheduler_tasks_run",
		Help: "The total number of scheduled tasks that ran",
	}, []string{"scheduler", "name"})

	// taskPanics counts tasks that panicked.
	taskPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "collection_scheduler_task_panics",
		Help: "The total number of scheduled tasks that recovered from a panic",
	}, []string{"scheduler", "name"})

	// queuedTasks tracks tasks waiting to run.
	queuedTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "collection_scheduler_queued_tasks",
		Help: "The number of tasks waiting to run",
	}, []string{"scheduler", "name"})

	// aliveLoops tracks event loops that have started and not yet stopped.
	aliveLoops = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "collection_scheduler_alive_loops",
		Help: "The number of event loops currently running",
	}, []string{"name"})
)

const (
	kindManual = "manual"
	kindLoop   = "loop"
	kindPool   = "pool"
)
