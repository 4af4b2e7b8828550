package sequence

// RemoveAt removes and returns the element at position i. It returns false when
// i is out of range, including on an empty sequence.
func (s *Sequence[T, K]) RemoveAt(i int) (T, bool) {
	if i < 0 || i >= len(s.slots) {
		var zero T

		return zero, false
	}

	value := s.removeAt(i)

	s.enqueue(Change[T, K]{Index: i, Removed: []T{value}, Subject: s})

	return value, true
}

// RemoveByKey removes and returns the element with the given key.
func (s *Sequence[T, K]) RemoveByKey(key K) (T, bool) {
	pos, ok := s.index.Get(key)
	if !ok {
		var zero T

		return zero, false
	}

	return s.RemoveAt(pos)
}

// Pop removes and returns the last element.
func (s *Sequence[T, K]) Pop() (T, bool) {
	return s.RemoveAt(len(s.slots) - 1)
}

// Shift removes and returns the first element.
func (s *Sequence[T, K]) Shift() (T, bool) {
	return s.RemoveAt(0)
}

// Clear removes every element and returns how many there were. Observers get a
// single change holding all of them.
func (s *Sequence[T, K]) Clear() int {
	n := len(s.slots)
	if n == 0 {
		return 0
	}

	removed := s.ToArray()

	s.index.Clear()
	clear(s.slots)
	s.slots = s.slots[:0]

	s.enqueue(Change[T, K]{Index: 0, Removed: removed, Subject: s})

	return n
}

// removeAt removes position i, which must be in range, and closes the gap.
func (s *Sequence[T, K]) removeAt(i int) T {
	sl := s.slots[i]

	s.clearKey(sl.key, i)
	s.slots[i] = slot[T, K]{}
	s.shiftLeft(i, 1)

	return sl.value
}
