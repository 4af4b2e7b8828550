package sequence

import (
	"testing"

	"github.com/amp-labs/amp-collection/compare"
	"github.com/amp-labs/amp-collection/scheduler"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID int
}

func newInternal(t *testing.T, ids ...int) (*Sequence[record, int], *scheduler.Manual) {
	t.Helper()

	sched := scheduler.NewManual(t.Context(), t.Name())

	items := make([]record, len(ids))
	for i, id := range ids {
		items[i] = record{ID: id}
	}

	seq, err := New(Options[record, int]{KeyPath: "ID", Scheduler: sched, Name: t.Name()}, items...)
	require.NoError(t, err)

	return seq, sched
}

func slotIDs(seq *Sequence[record, int]) []int {
	out := make([]int, 0, len(seq.slots))

	for _, sl := range seq.slots {
		if sl.set {
			out = append(out, sl.value.ID)
		} else {
			out = append(out, -1)
		}
	}

	return out
}

func TestShiftRight(t *testing.T) {
	t.Parallel()

	seq, _ := newInternal(t, 1, 2, 3, 4)

	seq.shiftRight(1, 2)

	assert.Equal(t, []int{1, -1, -1, 2, 3, 4}, slotIDs(seq))
	assert.Equal(t, 5, seq.IndexByKey(4))
	assert.Equal(t, 3, seq.IndexByKey(2))
	assert.Equal(t, 0, seq.IndexByKey(1))

	// At the end it only grows.
	seq.shiftRight(6, 1)
	assert.Equal(t, []int{1, -1, -1, 2, 3, 4, -1}, slotIDs(seq))
}

func TestShiftLeft(t *testing.T) {
	t.Parallel()

	seq, _ := newInternal(t, 1, 2, 3, 4, 5)

	seq.clearKey(2, 1)
	seq.clearKey(3, 2)
	seq.slots[1] = slot[record, int]{}
	seq.slots[2] = slot[record, int]{}

	seq.shiftLeft(1, 2)

	assert.Equal(t, []int{1, 4, 5}, slotIDs(seq))
	assert.Equal(t, 1, seq.IndexByKey(4))
	assert.Equal(t, 2, seq.IndexByKey(5))
	assert.Equal(t, 3, seq.index.Size())
}

func TestClearKey_Guarded(t *testing.T) {
	t.Parallel()

	seq, _ := newInternal(t, 1, 2)

	// Key 1 lives at 0, so clearing it for position 1 is a no-op.
	seq.clearKey(1, 1)
	assert.True(t, seq.HasKey(1))

	seq.clearKey(1, 0)
	assert.False(t, seq.HasKey(1))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	seq, _ := newInternal(t, 10, 20, 30)
	seq.comparator = compare.By(func(r record) int { return r.ID })

	batch := []slot[record, int]{
		{value: record{ID: 5}, key: 5, set: true},
		{value: record{ID: 25}, key: 25, set: true},
		{value: record{ID: 40}, key: 40, set: true},
	}

	placed := seq.merge(batch)

	assert.Equal(t, []int{0, 3, 5}, placed)
	assert.Equal(t, []int{5, 10, 20, 25, 30, 40}, slotIDs(seq))

	for i, sl := range seq.slots {
		assert.Equal(t, i, seq.IndexByKey(sl.key))
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	seq, sched := newInternal(t)

	seq.Observe(func([]Change[record, int]) { panic("boom") })

	_, err := seq.Push(record{ID: 1}, record{ID: 2})
	require.NoError(t, err)
	seq.Pop()

	_, err = seq.Push(record{ID: 1})
	require.ErrorIs(t, err, ErrDuplicateKey)

	sched.Drain()

	assert.InDelta(t, 2, testutil.ToFloat64(changesEnqueued.WithLabelValues(t.Name())), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(batchesDelivered.WithLabelValues(t.Name())), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(observerPanics.WithLabelValues(t.Name())), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mutationsRejected.WithLabelValues(t.Name())), 0)
}
