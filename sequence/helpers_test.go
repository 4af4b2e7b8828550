package sequence_test

import (
	"testing"

	"github.com/amp-labs/amp-collection/compare"
	"github.com/amp-labs/amp-collection/scheduler"
	"github.com/amp-labs/amp-collection/sequence"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"   msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

type (
	itemSeq    = sequence.Sequence[item, int]
	itemChange = sequence.Change[item, int]
)

var byID = compare.By(func(it item) int { return it.ID }) //nolint:gochecknoglobals

var byName = compare.By(func(it item) string { return it.Name }) //nolint:gochecknoglobals

func items(ids ...int) []item {
	out := make([]item, len(ids))
	for i, id := range ids {
		out[i] = item{ID: id}
	}

	return out
}

func testOptions(t *testing.T) (sequence.Options[item, int], *scheduler.Manual) {
	t.Helper()

	sched := scheduler.NewManual(t.Context(), t.Name())

	return sequence.Options[item, int]{
		Scheduler: sched,
		Logger:    slogt.New(t),
		Name:      t.Name(),
		Context:   t.Context(),
	}, sched
}

func newSeq(t *testing.T, initial ...item) (*itemSeq, *scheduler.Manual) {
	t.Helper()

	opts, sched := testOptions(t)

	seq, err := sequence.New(opts, initial...)
	require.NoError(t, err)

	return seq, sched
}

func ids(seq *itemSeq) []int {
	return sequence.Map(seq, func(it item, _ int) int { return it.ID })
}

// requireConsistent checks that the key index is the inverse of the positions.
func requireConsistent(t *testing.T, seq *itemSeq) {
	t.Helper()

	require.Len(t, seq.ToArray(), seq.Len())

	for i := range seq.Len() {
		it, ok := seq.At(i)
		require.True(t, ok)
		require.Equal(t, i, seq.IndexByKey(it.ID), "key %d", it.ID)
	}

	_, ok := seq.At(seq.Len())
	require.False(t, ok)
}

func requireSorted(t *testing.T, seq *itemSeq, cmp compare.Comparator[item]) {
	t.Helper()

	values := seq.ToArray()
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, cmp(values[i-1], values[i]), 0, "positions %d and %d", i-1, i)
	}
}

// collect registers an observer that appends every delivered batch.
func collect(seq *itemSeq) *[][]itemChange {
	var batches [][]itemChange

	seq.Observe(func(changes []itemChange) {
		batches = append(batches, changes)
	})

	return &batches
}

// splices strips the subject so change records compare easily.
type splice struct {
	Index   int
	Added   int
	Removed []int
}

func splices(changes []itemChange) []splice {
	out := make([]splice, len(changes))

	for i, c := range changes {
		out[i] = splice{Index: c.Index, Added: c.AddedCount}

		for _, r := range c.Removed {
			out[i].Removed = append(out[i].Removed, r.ID)
		}
	}

	return out
}
