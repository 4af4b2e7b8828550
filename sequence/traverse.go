package sequence

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/amp-labs/amp-collection/fieldpath"
	"github.com/amp-labs/amp-collection/keyindex"
)

// ForEach calls fn for every element in order.
func (s *Sequence[T, K]) ForEach(fn func(item T, i int)) {
	for i, sl := range s.slots {
		fn(sl.value, i)
	}
}

// FindIndex returns the position of the first element matching pred, or -1.
func (s *Sequence[T, K]) FindIndex(pred func(item T, i int) bool) int {
	for i, sl := range s.slots {
		if pred(sl.value, i) {
			return i
		}
	}

	return -1
}

// Find returns the first element matching pred.
func (s *Sequence[T, K]) Find(pred func(item T, i int) bool) (T, bool) {
	if i := s.FindIndex(pred); i >= 0 {
		return s.slots[i].value, true
	}

	var zero T

	return zero, false
}

// Filter returns the elements matching pred.
func (s *Sequence[T, K]) Filter(pred func(item T, i int) bool) []T {
	var out []T

	for i, sl := range s.slots {
		if pred(sl.value, i) {
			out = append(out, sl.value)
		}
	}

	return out
}

// Reject returns the elements not matching pred.
func (s *Sequence[T, K]) Reject(pred func(item T, i int) bool) []T {
	return s.Filter(func(item T, i int) bool { return !pred(item, i) })
}

// Partition splits the elements into those matching pred and the rest.
func (s *Sequence[T, K]) Partition(pred func(item T, i int) bool) (matched []T, rest []T) {
	for i, sl := range s.slots {
		if pred(sl.value, i) {
			matched = append(matched, sl.value)
		} else {
			rest = append(rest, sl.value)
		}
	}

	return matched, rest
}

// Every reports whether all elements match pred. It is true when empty.
func (s *Sequence[T, K]) Every(pred func(item T, i int) bool) bool {
	for i, sl := range s.slots {
		if !pred(sl.value, i) {
			return false
		}
	}

	return true
}

// Some reports whether any element matches pred.
func (s *Sequence[T, K]) Some(pred func(item T, i int) bool) bool {
	return s.FindIndex(pred) >= 0
}

// IndexOf returns the position of the first element with the same key as item,
// or -1.
func (s *Sequence[T, K]) IndexOf(item T) int {
	key, err := s.keyOf(item)
	if err != nil {
		return -1
	}

	for i, sl := range s.slots {
		if sl.key == key {
			return i
		}
	}

	return -1
}

// LastIndexOf returns the position of the last element with the same key as
// item, or -1.
func (s *Sequence[T, K]) LastIndexOf(item T) int {
	key, err := s.keyOf(item)
	if err != nil {
		return -1
	}

	for i := len(s.slots) - 1; i >= 0; i-- {
		if s.slots[i].key == key {
			return i
		}
	}

	return -1
}

// First returns the first element.
func (s *Sequence[T, K]) First() (T, bool) {
	return s.At(0)
}

// Last returns the last element.
func (s *Sequence[T, K]) Last() (T, bool) {
	return s.At(len(s.slots) - 1)
}

// Initial returns every element but the last.
func (s *Sequence[T, K]) Initial() []T {
	if len(s.slots) == 0 {
		return nil
	}

	return s.valuesOf(s.slots[:len(s.slots)-1])
}

// Rest returns every element but the first.
func (s *Sequence[T, K]) Rest() []T {
	if len(s.slots) == 0 {
		return nil
	}

	return s.valuesOf(s.slots[1:])
}

func (s *Sequence[T, K]) valuesOf(slots []slot[T, K]) []T {
	out := make([]T, len(slots))
	for i, sl := range slots {
		out[i] = sl.value
	}

	return out
}

// Pluck returns the value at path for every element. Elements where the path
// cannot be resolved contribute nil.
func (s *Sequence[T, K]) Pluck(path string) ([]any, error) {
	parsed, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(s.slots))

	for i, sl := range s.slots {
		out[i], _ = parsed.Get(sl.value)
	}

	return out, nil
}

// Join formats every element with fmt and joins the results with sep.
func (s *Sequence[T, K]) Join(sep string) string {
	parts := make([]string, len(s.slots))
	for i, sl := range s.slots {
		parts[i] = fmt.Sprint(sl.value)
	}

	return strings.Join(parts, sep)
}

// String joins the elements with commas.
func (s *Sequence[T, K]) String() string {
	return s.Join(",")
}

// Map returns fn applied to every element of seq.
func Map[T any, K keyindex.Key, R any](seq *Sequence[T, K], fn func(item T, i int) R) []R {
	out := make([]R, len(seq.slots))
	for i, sl := range seq.slots {
		out[i] = fn(sl.value, i)
	}

	return out
}

// Reduce folds the elements of seq from first to last.
func Reduce[T any, K keyindex.Key, A any](seq *Sequence[T, K], fn func(acc A, item T, i int) A, initial A) A {
	acc := initial
	for i, sl := range seq.slots {
		acc = fn(acc, sl.value, i)
	}

	return acc
}

// ReduceRight folds the elements of seq from last to first.
func ReduceRight[T any, K keyindex.Key, A any](seq *Sequence[T, K], fn func(acc A, item T, i int) A, initial A) A {
	acc := initial
	for i := len(seq.slots) - 1; i >= 0; i-- {
		acc = fn(acc, seq.slots[i].value, i)
	}

	return acc
}

// GroupBy groups the elements of seq by fn, keeping their order within a group.
func GroupBy[T any, K keyindex.Key, G comparable](seq *Sequence[T, K], fn func(T) G) map[G][]T {
	out := make(map[G][]T)
	for _, sl := range seq.slots {
		g := fn(sl.value)
		out[g] = append(out[g], sl.value)
	}

	return out
}

// CountBy counts the elements of seq per value of fn.
func CountBy[T any, K keyindex.Key, G comparable](seq *Sequence[T, K], fn func(T) G) map[G]int {
	out := make(map[G]int)
	for _, sl := range seq.slots {
		out[fn(sl.value)]++
	}

	return out
}

// IndexBy maps each value of fn to the last element producing it.
func IndexBy[T any, K keyindex.Key, G comparable](seq *Sequence[T, K], fn func(T) G) map[G]T {
	out := make(map[G]T)
	for _, sl := range seq.slots {
		out[fn(sl.value)] = sl.value
	}

	return out
}

// GroupByPath is GroupBy keyed by the value at a field path. Elements where the
// path cannot be resolved are grouped under nil.
func GroupByPath[T any, K keyindex.Key](seq *Sequence[T, K], path string) (map[any][]T, error) {
	groups, err := pathGroups(seq, path)
	if err != nil {
		return nil, err
	}

	out := make(map[any][]T)
	for i, g := range groups {
		out[g] = append(out[g], seq.slots[i].value)
	}

	return out, nil
}

// CountByPath is CountBy keyed by the value at a field path.
func CountByPath[T any, K keyindex.Key](seq *Sequence[T, K], path string) (map[any]int, error) {
	groups, err := pathGroups(seq, path)
	if err != nil {
		return nil, err
	}

	out := make(map[any]int)
	for _, g := range groups {
		out[g]++
	}

	return out, nil
}

// IndexByPath is IndexBy keyed by the value at a field path.
func IndexByPath[T any, K keyindex.Key](seq *Sequence[T, K], path string) (map[any]T, error) {
	groups, err := pathGroups(seq, path)
	if err != nil {
		return nil, err
	}

	out := make(map[any]T)
	for i, g := range groups {
		out[g] = seq.slots[i].value
	}

	return out, nil
}

// pathGroups resolves path on every element. The results must be usable as
// map keys.
func pathGroups[T any, K keyindex.Key](seq *Sequence[T, K], path string) ([]any, error) {
	parsed, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(seq.slots))

	for i, sl := range seq.slots {
		value, err := parsed.Get(sl.value)
		if err != nil {
			continue
		}

		if value != nil && !reflect.TypeOf(value).Comparable() {
			return nil, fmt.Errorf("%w: %T at %q cannot group elements", ErrKeyType, value, path)
		}

		out[i] = value
	}

	return out, nil
}
