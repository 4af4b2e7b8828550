package scheduler

import (
	"context"
	"sync"

	"github.com/amp-labs/amp-collection/config"
	"github.com/amp-labs/amp-collection/logger"
	"github.com/amp-labs/amp-collection/shutdown"
)

const defaultName = "default"

var defaultScheduler = sync.OnceValue(func() Scheduler { //nolint:gochecknoglobals
	sched := FromSettings(context.Background(), defaultName, loadSettings())

	if stopper, ok := sched.(interface{ Stop() }); ok {
		shutdown.BeforeShutdown("default scheduler", stopper.Stop)
	}

	return sched
})

func loadSettings() config.Settings {
	settings, err := config.Load(context.Background())
	if err != nil {
		logger.Get().Warn("invalid scheduler configuration, using an event loop", "error", err)

		return config.Settings{Scheduler: config.SchedulerLoop}
	}

	return settings
}

// Default returns the process-wide scheduler, created on first use according to
// COLLECTION_SCHEDULER ("loop" or "pool") and COLLECTION_POOL_SIZE.
func Default() Scheduler { //nolint:ireturn
	return defaultScheduler()
}

// FromSettings creates the scheduler described by settings.
func FromSettings(ctx context.Context, name string, settings config.Settings) Scheduler { //nolint:ireturn
	if settings.Scheduler == config.SchedulerPool {
		return NewPool(ctx, name, settings.PoolSize)
	}

	return NewLoop(ctx, name)
}
