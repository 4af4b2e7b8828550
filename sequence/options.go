package sequence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amp-labs/amp-collection/accessor"
	"github.com/amp-labs/amp-collection/keyindex"
	"github.com/amp-labs/amp-collection/scheduler"
)

// DuplicatePolicy decides what happens when an inserted element has the key of
// an element that is already stored.
type DuplicatePolicy int

const (
	// DuplicateReject fails the whole insertion with ErrDuplicateKey. Nothing is
	// inserted. This is the default.
	DuplicateReject DuplicatePolicy = iota

	// DuplicateReplace removes the stored element first (reporting the removal
	// to observers) and then inserts the new one. When a batch contains the
	// same key more than once, the last element wins.
	DuplicateReplace
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateReplace:
		return "replace"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// Options configures a Sequence. The zero value reads keys from the "id" field,
// accepts only values that already are a T, rejects duplicate keys and
// delivers changes on scheduler.Default().
type Options[T any, K keyindex.Key] struct {
	// KeyPath is a field path such as "id" or "meta.uuid" the key is read from.
	// Ignored when KeyFunc is set.
	KeyPath string

	// KeyFunc extracts the key of an element.
	KeyFunc accessor.KeyFunc[T, K]

	// Model converts raw values that are not a T into elements.
	Model accessor.ModelFunc[T]

	// Duplicates is the duplicate key policy.
	Duplicates DuplicatePolicy

	// Scheduler runs change delivery. A burst of mutations is delivered as one
	// batch only if the flush cannot run in the middle of it, so the caller
	// must mutate where the flush runs. With scheduler.Manual that is any
	// goroutine that also calls Tick or Drain. With scheduler.Loop, the default,
	// mutate inside Loop.Do, Loop.Post or Sequence.Batch; mutations made on
	// another goroutine may be split into several batches, and observers may
	// read the sequence while it is being written. scheduler.Pool runs flushes
	// concurrently with each other and with the caller, so observers must not
	// read Change.Subject unless mutations have stopped.
	Scheduler scheduler.Scheduler

	// Logger receives debug and error messages. Defaults to logger.Get(Context).
	Logger *slog.Logger

	// Name identifies the sequence in logs, metrics and spans.
	Name string

	// Context is used for logging and tracing. A tracer attached with
	// spans.WithTracer is used for flush spans.
	Context context.Context //nolint:containedctx
}

func (o Options[T, K]) keyFunc() (accessor.KeyFunc[T, K], error) {
	if o.KeyFunc != nil {
		return o.KeyFunc, nil
	}

	if o.KeyPath == "" {
		return accessor.Default[T, K](), nil
	}

	return accessor.FromPath[T, K](o.KeyPath)
}
