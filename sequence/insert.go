package sequence

import (
	"fmt"
	"slices"
	"sort"

	"github.com/amp-labs/amp-collection/accessor"
)

// Push appends items and returns the new length. On a sorted sequence the items
// are placed at their sorted positions instead, after any equal elements.
// If any item is rejected, nothing is inserted.
func (s *Sequence[T, K]) Push(items ...T) (int, error) {
	return s.add(items, len(s.slots), true)
}

// Unshift prepends items, keeping their order, and returns the new length. On a
// sorted sequence the items are placed at their sorted positions instead,
// before any equal elements. If any item is rejected, nothing is inserted.
func (s *Sequence[T, K]) Unshift(items ...T) (int, error) {
	return s.add(items, 0, false)
}

// PushRaw converts raw with the configured model and pushes the result.
func (s *Sequence[T, K]) PushRaw(raw ...any) (int, error) {
	items, err := s.coerceAll(raw)
	if err != nil {
		return len(s.slots), err
	}

	return s.Push(items...)
}

// UnshiftRaw converts raw with the configured model and unshifts the result.
func (s *Sequence[T, K]) UnshiftRaw(raw ...any) (int, error) {
	items, err := s.coerceAll(raw)
	if err != nil {
		return len(s.slots), err
	}

	return s.Unshift(items...)
}

func (s *Sequence[T, K]) add(items []T, start int, upward bool) (int, error) {
	changes, err := s.insert(items, start, upward)
	if err != nil {
		return len(s.slots), err
	}

	s.enqueue(changes...)

	return len(s.slots), nil
}

// insert validates items and then places them, starting at start when the
// sequence is unsorted. upward selects the position after equal elements on a
// sorted sequence. It returns the change records without enqueueing them.
func (s *Sequence[T, K]) insert(items []T, start int, upward bool) ([]Change[T, K], error) {
	if len(items) == 0 {
		return nil, nil
	}

	batch, replaced, err := s.prepare(items)
	if err != nil {
		mutationsRejected.WithLabelValues(s.opts.Name).Inc()
		s.log.Debug("insertion rejected", "count", len(items), "error", err)

		return nil, err
	}

	changes := make([]Change[T, K], 0, len(replaced)+1)

	for _, key := range replaced {
		pos, _ := s.index.Get(key)
		removed := s.removeAt(pos)

		changes = append(changes, Change[T, K]{Index: pos, Removed: []T{removed}, Subject: s})

		if pos < start {
			start--
		}
	}

	start = min(max(start, 0), len(s.slots))

	if s.comparator != nil {
		return append(changes, s.insertSorted(batch, upward)...), nil
	}

	s.shiftRight(start, len(batch))

	for offset, sl := range batch {
		s.setSlot(start+offset, sl)
	}

	return append(changes, Change[T, K]{Index: start, AddedCount: len(batch), Subject: s}), nil
}

// prepare reads the key of every item and applies the duplicate policy. It
// returns the slots to insert and the keys of stored elements to replace. No
// state is changed.
func (s *Sequence[T, K]) prepare(items []T) ([]slot[T, K], []K, error) {
	var (
		errs     []error
		replaced []K
	)

	batch := make([]slot[T, K], 0, len(items))
	seen := make(map[K]int, len(items))
	reject := s.opts.Duplicates != DuplicateReplace

	for i, item := range items {
		if accessor.IsNil(any(item)) {
			errs = append(errs, elementError(i, ErrInvalidElement))

			continue
		}

		key, err := s.keyOf(item)
		if err != nil {
			errs = append(errs, elementError(i, err))

			continue
		}

		if prev, dup := seen[key]; dup {
			if reject {
				errs = append(errs, elementError(i, fmt.Errorf("%w: %v appears twice", ErrDuplicateKey, key)))
			} else {
				batch[prev].value = item
			}

			continue
		}

		if s.index.Contains(key) {
			if reject {
				errs = append(errs, elementError(i, fmt.Errorf("%w: %v", ErrDuplicateKey, key)))

				continue
			}

			replaced = append(replaced, key)
		}

		seen[key] = len(batch)
		batch = append(batch, slot[T, K]{value: item, key: key, set: true})
	}

	if len(errs) > 0 {
		return nil, nil, joinErrors(errs)
	}

	return batch, replaced, nil
}

// insertSorted places batch by the active comparator. A batch pushed upward is
// merged in one pass; otherwise each element is placed on its own, so that it
// sees the elements placed before it.
func (s *Sequence[T, K]) insertSorted(batch []slot[T, K], upward bool) []Change[T, K] {
	slices.SortStableFunc(batch, func(a, b slot[T, K]) int {
		return s.comparator(a.value, b.value)
	})

	if upward && len(batch) > 1 {
		return s.runs(s.merge(batch))
	}

	var changes []Change[T, K]

	last := -2

	for _, sl := range batch {
		pos := s.sortedIndex(sl.value, upward)

		s.shiftRight(pos, 1)
		s.setSlot(pos, sl)

		if len(changes) > 0 && pos == last+1 {
			changes[len(changes)-1].AddedCount++
		} else {
			changes = append(changes, Change[T, K]{Index: pos, AddedCount: 1, Subject: s})
		}

		last = pos
	}

	return changes
}

// runs groups ascending positions into one change per contiguous run.
func (s *Sequence[T, K]) runs(positions []int) []Change[T, K] {
	var changes []Change[T, K]

	for i, pos := range positions {
		if i > 0 && pos == positions[i-1]+1 {
			changes[len(changes)-1].AddedCount++

			continue
		}

		changes = append(changes, Change[T, K]{Index: pos, AddedCount: 1, Subject: s})
	}

	return changes
}

// SortedIndex returns the position at which item would be inserted to keep the
// sequence sorted: after any equal elements when ascending is true, before them
// otherwise. Without a comparator it returns Len() when ascending and 0 when not.
func (s *Sequence[T, K]) SortedIndex(item T, ascending bool) int {
	return s.sortedIndex(item, ascending)
}

// SortedIndexRaw is like SortedIndex for a raw value, converted with the model.
func (s *Sequence[T, K]) SortedIndexRaw(raw any, ascending bool) (int, error) {
	item, err := accessor.Coerce(s.opts.Model, raw)
	if err != nil {
		return 0, err
	}

	return s.sortedIndex(item, ascending), nil
}

func (s *Sequence[T, K]) sortedIndex(item T, ascending bool) int {
	n := len(s.slots)

	if s.comparator == nil {
		if ascending {
			return n
		}

		return 0
	}

	// Lower bound: the first element not less than item.
	low := sort.Search(n, func(i int) bool {
		return s.comparator(s.slots[i].value, item) >= 0
	})

	if ascending {
		for low < n && s.comparator(s.slots[low].value, item) == 0 {
			low++
		}
	}

	return low
}
