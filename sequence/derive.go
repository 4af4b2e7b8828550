package sequence

import (
	"github.com/amp-labs/amp-collection/accessor"
	"github.com/amp-labs/amp-collection/keyindex"
)

// Slice returns a new sequence holding the elements in [start, end). Negative
// bounds count back from the end. With no bounds it copies the whole sequence;
// with one bound it runs to the end.
//
// The result shares the configuration of s but none of its storage, and has no
// comparator and no observers.
func (s *Sequence[T, K]) Slice(bounds ...int) *Sequence[T, K] {
	n := len(s.slots)
	start, end := 0, n

	if len(bounds) > 0 {
		start = relativeBound(bounds[0], n)
	}

	if len(bounds) > 1 {
		end = relativeBound(bounds[1], n)
	}

	if end < start {
		end = start
	}

	return s.derive(s.slots[start:end])
}

// relativeBound resolves a possibly negative offset into [0, n].
func relativeBound(pos, n int) int {
	if pos < 0 {
		return max(n+pos, 0)
	}

	return min(pos, n)
}

// Concat returns a new sequence holding the elements of s followed by values.
// Each value may be a T, a []T, a []any, another *Sequence[T, K], or a raw value
// the model converts. Like Slice, the result shares only the configuration.
func (s *Sequence[T, K]) Concat(values ...any) (*Sequence[T, K], error) {
	out := s.derive(s.slots)

	var items []T

	for _, value := range values {
		switch v := value.(type) {
		case *Sequence[T, K]:
			items = append(items, v.ToArray()...)
		case []T:
			items = append(items, v...)
		case []any:
			coerced, err := s.coerceAll(v)
			if err != nil {
				return nil, err
			}

			items = append(items, coerced...)
		default:
			item, err := accessor.Coerce(s.opts.Model, v)
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}
	}

	if _, err := out.insert(items, len(out.slots), true); err != nil {
		return nil, err
	}

	return out, nil
}

// derive builds an independent sequence with the configuration of s holding
// copies of slots. Keys were validated when the slots were filled.
func (s *Sequence[T, K]) derive(slots []slot[T, K]) *Sequence[T, K] {
	out := &Sequence[T, K]{
		opts:  s.opts,
		keyOf: s.keyOf,
		ctx:   s.ctx,
		log:   s.log,
		index: keyindex.NewWithSize[K](len(slots)),
		slots: make([]slot[T, K], len(slots)),
	}

	for i, sl := range slots {
		out.setSlot(i, sl)
	}

	return out
}
