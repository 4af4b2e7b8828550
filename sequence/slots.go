package sequence

// Positional primitives. None of them report changes; callers do.

// setSlot stores value at position i and points its key at i.
func (s *Sequence[T, K]) setSlot(i int, sl slot[T, K]) {
	sl.set = true
	s.slots[i] = sl
	s.index.Put(sl.key, i)
}

// clearKey removes key from the index if it still points at position i.
func (s *Sequence[T, K]) clearKey(key K, i int) {
	if pos, ok := s.index.Get(key); ok && pos == i {
		s.index.Remove(key)
	}
}

// swap exchanges positions i and j and updates the index for both.
func (s *Sequence[T, K]) swap(i, j int) {
	s.slots[i], s.slots[j] = s.slots[j], s.slots[i]

	if s.slots[i].set {
		s.index.Put(s.slots[i].key, i)
	}

	if s.slots[j].set {
		s.index.Put(s.slots[j].key, j)
	}
}

// shiftRight moves every element at or after start right by count positions,
// leaving [start, start+count) free. The sequence grows by count.
func (s *Sequence[T, K]) shiftRight(start, count int) {
	n := len(s.slots)
	s.slots = append(s.slots, make([]slot[T, K], count)...)

	// Walk from the tail so nothing is overwritten before it moves.
	for i := n - 1; i >= start; i-- {
		s.swap(i, i+count)
	}
}

// shiftLeft closes the free gap [start, start+count) by moving every later
// element left by count positions. The sequence shrinks by count.
func (s *Sequence[T, K]) shiftLeft(start, count int) {
	n := len(s.slots)

	for i := start + count; i < n; i++ {
		s.swap(i-count, i)
	}

	tail := s.slots[n-count:]
	for i, sl := range tail {
		if sl.set {
			s.clearKey(sl.key, n-count+i)
		}
	}

	clear(tail)
	s.slots = s.slots[:n-count]
}

// merge inserts batch, which must already be sorted by the active comparator,
// into the sorted sequence. Stored elements stay ahead of equal new ones.
// It returns the final position of each batch element.
func (s *Sequence[T, K]) merge(batch []slot[T, K]) []int {
	n, m := len(s.slots), len(batch)
	placed := make([]int, m)

	s.slots = append(s.slots, make([]slot[T, K], m)...)

	i, j := n-1, m-1

	// Fill the highest free position with the larger of the two tails.
	for w := n + m - 1; j >= 0; w-- {
		if i >= 0 && s.comparator(s.slots[i].value, batch[j].value) > 0 {
			s.setSlot(w, s.slots[i])
			s.slots[i] = slot[T, K]{}
			i--

			continue
		}

		s.setSlot(w, batch[j])
		placed[j] = w
		j--
	}

	return placed
}

// replaceAll rewrites every position from ordered and rebuilds the index.
// ordered must not share its backing array with the sequence.
func (s *Sequence[T, K]) replaceAll(ordered []slot[T, K]) {
	s.index.Clear()
	s.slots = make([]slot[T, K], len(ordered))

	for i, sl := range ordered {
		s.setSlot(i, sl)
	}
}
