// Package shutdown runs cleanup hooks when the process is asked to stop.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/amp-labs/amp-collection/logger"
)

type hook struct {
	name string
	fn   func()
}

var (
	mut   sync.Mutex //nolint:gochecknoglobals
	hooks []hook     //nolint:gochecknoglobals
)

// BeforeShutdown registers fn to run on shutdown. Hooks run in reverse order
// of registration, so later components stop before the ones they depend on.
func BeforeShutdown(name string, fn func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, hook{name: name, fn: fn})
}

// Run runs and forgets every registered hook. It returns how many ran.
func Run(ctx context.Context) int {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	log := logger.Get(ctx)

	for _, h := range slices.Backward(pending) {
		log.Debug("running shutdown hook", "hook", h.name)
		h.fn()
	}

	return len(pending)
}

// Pending returns the number of registered hooks.
func Pending() int {
	mut.Lock()
	defer mut.Unlock()

	return len(hooks)
}

// SetupHandler returns a context that is canceled on SIGINT or SIGTERM, after
// the hooks have run. Calling the returned stop function releases the signal
// handler without running hooks.
func SetupHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	signalCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	done, cancel := context.WithCancel(ctx)

	go func() {
		<-signalCtx.Done()

		if ctx.Err() == nil && done.Err() == nil {
			logger.Get(ctx).Warn("received shutdown signal, shutting down")
			Run(ctx)
		}

		stopSignals()
		cancel()
	}()

	return done, func() {
		cancel()
		stopSignals()
	}
}
