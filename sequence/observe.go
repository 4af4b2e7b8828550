package sequence

import (
	"context"
	"runtime/debug"
	"slices"

	"github.com/amp-labs/amp-collection/keyindex"
	"github.com/amp-labs/amp-collection/scheduler"
	"github.com/amp-labs/amp-collection/spans"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Change describes one contiguous run of inserted positions, or one removal.
// Runs are reported in the order they happened; applying them one after the
// other to the previous contents reproduces the new contents.
type Change[T any, K keyindex.Key] struct {
	// Index is the first position of the run.
	Index int

	// AddedCount is the number of elements inserted at Index.
	AddedCount int

	// Removed holds the elements removed at Index.
	Removed []T

	// Subject is the sequence that changed.
	Subject *Sequence[T, K]
}

// Observer receives a batch of changes. All observers of a sequence receive the
// same slice and must not modify it.
type Observer[T any, K keyindex.Key] func(changes []Change[T, K])

// ObserverID identifies a registration made with Observe.
type ObserverID = uuid.UUID

type registration[T any, K keyindex.Key] struct {
	id ObserverID
	fn Observer[T, K]
}

// Observe registers fn and returns an id that can be passed to Unobserve.
// The same function may be registered more than once; each registration is
// called.
func (s *Sequence[T, K]) Observe(fn Observer[T, K]) ObserverID {
	id := uuid.New()

	s.mut.Lock()
	defer s.mut.Unlock()

	s.observers = append(s.observers, registration[T, K]{id: id, fn: fn})

	return id
}

// Unobserve removes the registrations with the given ids, or every registration
// when called without ids. It returns how many were removed.
func (s *Sequence[T, K]) Unobserve(ids ...ObserverID) int {
	s.mut.Lock()
	defer s.mut.Unlock()

	before := len(s.observers)

	if len(ids) == 0 {
		s.observers = nil

		return before
	}

	s.observers = slices.DeleteFunc(s.observers, func(reg registration[T, K]) bool {
		return slices.Contains(ids, reg.id)
	})

	return before - len(s.observers)
}

// Observers returns the number of registered observers.
func (s *Sequence[T, K]) Observers() int {
	s.mut.Lock()
	defer s.mut.Unlock()

	return len(s.observers)
}

// Pending returns the number of change records waiting for delivery.
func (s *Sequence[T, K]) Pending() int {
	s.mut.Lock()
	defer s.mut.Unlock()

	return len(s.pending)
}

// enqueue buffers changes and makes sure a flush is scheduled. Several calls
// before the flush runs are delivered as one batch.
func (s *Sequence[T, K]) enqueue(changes ...Change[T, K]) {
	if len(changes) == 0 {
		return
	}

	s.mut.Lock()
	s.pending = append(s.pending, changes...)
	s.mut.Unlock()

	changesEnqueued.WithLabelValues(s.opts.Name).Add(float64(len(changes)))

	if s.scheduled.CompareAndSwap(false, true) {
		s.opts.Scheduler.Schedule(func() { s.Flush() })
	}
}

// Batch runs fn where the sequence's flushes run, so that every mutation made
// by fn reaches observers as one batch and no observer runs while fn is
// mutating. With a scheduler.Runner such as scheduler.Loop, fn runs through Do
// and Batch waits for it; with any other scheduler fn runs on the calling
// goroutine. The error from fn is returned as is.
//
// Batch must not be called from inside an observer or another task of the
// same loop; Do would wait on itself.
func (s *Sequence[T, K]) Batch(ctx context.Context, fn func() error) error {
	runner, ok := s.opts.Scheduler.(scheduler.Runner)
	if !ok {
		return fn()
	}

	var fnErr error

	if err := runner.Do(ctx, func() { fnErr = fn() }); err != nil {
		return err
	}

	return fnErr
}

// Flush delivers the pending changes now, calling every observer in
// registration order with the whole batch. It returns the number of changes
// delivered.
//
// Flush holds the delivery lock while observers run. Calling Flush from inside
// an observer deadlocks, and so does mutating the sequence from inside an
// observer when the scheduler runs tasks synchronously, as
// scheduler.Func(func(task func()) { task() }) does: the mutation schedules a
// flush that waits for the running one.
func (s *Sequence[T, K]) Flush() int {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	// Reset before taking the batch so later changes schedule a new flush.
	s.scheduled.Store(false)

	s.mut.Lock()
	batch := s.pending
	s.pending = nil
	observers := slices.Clone(s.observers)
	s.mut.Unlock()

	if len(batch) == 0 {
		return 0
	}

	_ = spans.Run(s.ctx, "sequence.flush", func(ctx context.Context, _ trace.Span) error {
		for _, reg := range observers {
			s.notify(ctx, reg, batch)
		}

		return nil
	},
		attribute.String("sequence.name", s.opts.Name),
		attribute.Int("sequence.changes", len(batch)),
		attribute.Int("sequence.observers", len(observers)))

	batchesDelivered.WithLabelValues(s.opts.Name).Inc()

	return len(batch)
}

func (s *Sequence[T, K]) notify(ctx context.Context, reg registration[T, K], batch []Change[T, K]) {
	defer func() {
		if err := recover(); err != nil {
			observerPanics.WithLabelValues(s.opts.Name).Inc()

			s.log.ErrorContext(ctx, "observer recovered from panic",
				"observer", reg.id.String(),
				"error", err,
				"stack", string(debug.Stack()))
		}
	}()

	reg.fn(batch)
}
