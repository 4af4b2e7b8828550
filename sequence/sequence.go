// Package sequence implements an indexed, observable sequence: an ordered
// collection that also finds any element by its key in constant time, can keep
// itself sorted, and reports every mutation to observers as batched change
// records.
//
// Mutations are synchronous. Change records are buffered and delivered later,
// on the sequence's scheduler, so that several mutations made in a row reach
// observers as one batch. A Sequence is not safe for concurrent mutation.
//
// Batching holds only when mutations run where deliveries run. The default
// scheduler is an event loop (scheduler.Loop) with its own goroutine, so
// mutate through Sequence.Batch (or Loop.Do and Loop.Post). A mutation made on
// any other goroutine races with delivery: the flush may run between two
// mutations and split the batch, and observers may read the sequence while it
// changes. Use scheduler.Manual to deliver on a goroutine of your choosing.
//
// Example:
//
//	users, err := sequence.New[User, int](sequence.Options[User, int]{})
//	if err != nil { ... }
//
//	users.Observe(func(changes []sequence.Change[User, int]) { ... })
//	err = users.Batch(ctx, func() error {
//		if _, err := users.Push(User{ID: 1}); err != nil {
//			return err
//		}
//
//		_, err := users.Push(User{ID: 2})
//
//		return err
//	})
package sequence

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/amp-labs/amp-collection/accessor"
	"github.com/amp-labs/amp-collection/compare"
	"github.com/amp-labs/amp-collection/keyindex"
	"github.com/amp-labs/amp-collection/logger"
	"github.com/amp-labs/amp-collection/scheduler"
	"go.uber.org/atomic"
)

const defaultName = "sequence"

// slot is one position of the sequence. The key is cached so that elements can
// be moved without running the key accessor again.
type slot[T any, K keyindex.Key] struct {
	value T
	key   K
	set   bool
}

// Sequence is an ordered collection of elements with unique keys.
type Sequence[T any, K keyindex.Key] struct {
	opts  Options[T, K]
	keyOf accessor.KeyFunc[T, K]
	ctx   context.Context //nolint:containedctx
	log   *slog.Logger

	slots      []slot[T, K]
	index      *keyindex.Index[K]
	comparator compare.Comparator[T]

	mut       sync.Mutex // guards observers and pending
	observers []registration[T, K]
	pending   []Change[T, K]
	scheduled atomic.Bool
	deliverMu sync.Mutex // serializes deliveries
}

// New creates a sequence holding items, inserted the same way Push would.
func New[T any, K keyindex.Key](opts Options[T, K], items ...T) (*Sequence[T, K], error) {
	seq, err := empty(opts)
	if err != nil {
		return nil, err
	}

	if _, err := seq.insert(items, 0, true); err != nil {
		return nil, err
	}

	return seq, nil
}

// FromRaw is like New but converts each value with the configured model first.
func FromRaw[T any, K keyindex.Key](opts Options[T, K], raw ...any) (*Sequence[T, K], error) {
	seq, err := empty(opts)
	if err != nil {
		return nil, err
	}

	items, err := seq.coerceAll(raw)
	if err != nil {
		return nil, err
	}

	if _, err := seq.insert(items, 0, true); err != nil {
		return nil, err
	}

	return seq, nil
}

func empty[T any, K keyindex.Key](opts Options[T, K]) (*Sequence[T, K], error) {
	keyOf, err := opts.keyFunc()
	if err != nil {
		return nil, err
	}

	if opts.Context == nil {
		opts.Context = context.Background()
	}

	if opts.Name == "" {
		opts.Name = defaultName
	}

	ctx := logger.With(logger.WithSubsystem(opts.Context, "sequence"), "sequence", opts.Name)

	if opts.Logger == nil {
		opts.Logger = logger.Get(ctx)
	}

	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.Default()
	}

	return &Sequence[T, K]{
		opts:  opts,
		keyOf: keyOf,
		ctx:   ctx,
		log:   opts.Logger,
		index: keyindex.New[K](),
	}, nil
}

// Name returns the name the sequence was configured with.
func (s *Sequence[T, K]) Name() string {
	return s.opts.Name
}

// Len returns the number of elements.
func (s *Sequence[T, K]) Len() int {
	return len(s.slots)
}

// Size is an alias of Len.
func (s *Sequence[T, K]) Size() int {
	return len(s.slots)
}

// IsEmpty reports whether the sequence has no elements.
func (s *Sequence[T, K]) IsEmpty() bool {
	return len(s.slots) == 0
}

// At returns the element at position i. It returns false when i is out of range.
func (s *Sequence[T, K]) At(i int) (T, bool) {
	if i < 0 || i >= len(s.slots) {
		var zero T

		return zero, false
	}

	return s.slots[i].value, true
}

// ByKey returns the element with the given key.
func (s *Sequence[T, K]) ByKey(key K) (T, bool) {
	pos, ok := s.index.Get(key)
	if !ok {
		var zero T

		return zero, false
	}

	return s.slots[pos].value, true
}

// IndexByKey returns the position of the element with the given key, or -1.
func (s *Sequence[T, K]) IndexByKey(key K) int {
	pos, ok := s.index.Get(key)
	if !ok {
		return -1
	}

	return pos
}

// HasKey reports whether an element with the given key is stored.
func (s *Sequence[T, K]) HasKey(key K) bool {
	return s.index.Contains(key)
}

// KeyOf returns the key of element as the sequence sees it.
func (s *Sequence[T, K]) KeyOf(element T) (K, error) {
	return s.keyOf(element)
}

// Keys returns the keys of all elements in order.
func (s *Sequence[T, K]) Keys() []K {
	keys := make([]K, len(s.slots))
	for i, sl := range s.slots {
		keys[i] = sl.key
	}

	return keys
}

// ToArray returns the elements in order. The slice is a copy.
func (s *Sequence[T, K]) ToArray() []T {
	out := make([]T, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.value
	}

	return out
}

// All iterates over positions and elements. The sequence must not be mutated
// during iteration.
func (s *Sequence[T, K]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, sl := range s.slots {
			if !yield(i, sl.value) {
				return
			}
		}
	}
}

// Values iterates over the elements in order.
func (s *Sequence[T, K]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, sl := range s.slots {
			if !yield(sl.value) {
				return
			}
		}
	}
}

// Sorted reports whether a comparator is active.
func (s *Sequence[T, K]) Sorted() bool {
	return s.comparator != nil
}

func (s *Sequence[T, K]) coerceAll(raw []any) ([]T, error) {
	items := make([]T, len(raw))

	var errs []error

	for i, r := range raw {
		item, err := accessor.Coerce(s.opts.Model, r)
		if err != nil {
			errs = append(errs, elementError(i, err))

			continue
		}

		items[i] = item
	}

	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	return items, nil
}
