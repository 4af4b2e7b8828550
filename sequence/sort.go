package sequence

import (
	"slices"

	"github.com/amp-labs/amp-collection/compare"
)

// Sort orders the sequence with cmp and keeps it ordered: every later
// insertion is placed by cmp until Sort is called again. The sort is stable.
// Observers receive one change replacing the whole contents.
//
// Sort(nil) turns sorted insertion off and leaves the order as it is.
func (s *Sequence[T, K]) Sort(cmp compare.Comparator[T]) {
	s.comparator = cmp

	if cmp == nil || len(s.slots) == 0 {
		return
	}

	previous := s.ToArray()

	ordered := slices.Clone(s.slots)
	slices.SortStableFunc(ordered, func(a, b slot[T, K]) int {
		return cmp(a.value, b.value)
	})

	s.replaceAll(ordered)

	s.enqueue(Change[T, K]{Index: 0, AddedCount: len(s.slots), Removed: previous, Subject: s})
}

// SortByPath sorts by the value at a field path; see compare.ByPath.
func (s *Sequence[T, K]) SortByPath(path string) error {
	cmp, err := compare.ByPath[T](path)
	if err != nil {
		return err
	}

	s.Sort(cmp)

	return nil
}

// Comparator returns the active comparator, or nil.
func (s *Sequence[T, K]) Comparator() compare.Comparator[T] {
	return s.comparator
}
