package sequence_test

import (
	"testing"

	"github.com/amp-labs/amp-collection/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	t.Parallel()

	seq, _ := newSeq(t, items(1, 2, 3, 4, 5)...)

	tests := []struct {
		name   string
		bounds []int
		want   []int
	}{
		{name: "all", bounds: nil, want: []int{1, 2, 3, 4, 5}},
		{name: "from", bounds: []int{2}, want: []int{3, 4, 5}},
		{name: "range", bounds: []int{1, 3}, want: []int{2, 3}},
		{name: "negative start", bounds: []int{-2}, want: []int{4, 5}},
		{name: "negative end", bounds: []int{0, -1}, want: []int{1, 2, 3, 4}},
		{name: "start past end", bounds: []int{4, 2}, want: []int{}},
		{name: "beyond length", bounds: []int{3, 99}, want: []int{4, 5}},
		{name: "very negative", bounds: []int{-99, 2}, want: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sliced := seq.Slice(tt.bounds...)
			assert.Equal(t, tt.want, ids(sliced))
			requireConsistent(t, sliced)
		})
	}
}

func TestSlice_Independent(t *testing.T) {
	t.Parallel()

	seq, sched := newSeq(t, items(1, 2, 3)...)
	seq.Sort(byID)
	sched.Drain()

	batches := collect(seq)

	copied := seq.Slice()
	assert.Equal(t, seq.ToArray(), copied.ToArray())
	assert.NotSame(t, seq, copied)
	assert.False(t, copied.Sorted())
	assert.Zero(t, copied.Observers())

	_, err := copied.Push(item{ID: 0})
	require.NoError(t, err)
	copied.Shift()

	assert.Equal(t, []int{1, 2, 3}, ids(seq))
	assert.Equal(t, 0, seq.IndexByKey(1))

	seq.Pop()
	assert.Equal(t, []int{2, 3, 0}, ids(copied))
	assert.Equal(t, 1, copied.IndexByKey(3))

	sched.Drain()
	require.Len(t, *batches, 1)
	assert.Equal(t, []splice{{Index: 2, Removed: []int{3}}}, splices((*batches)[0]))
}

func TestConcat(t *testing.T) {
	t.Parallel()

	opts, _ := testOptions(t)
	opts.Model = func(raw any) (item, error) {
		id, ok := raw.(int)
		if !ok {
			return item{}, sequence.ErrWrongModel
		}

		return item{ID: id}, nil
	}

	seq, err := sequence.New(opts, items(1, 2)...)
	require.NoError(t, err)

	other, err := sequence.New(opts, items(5, 6)...)
	require.NoError(t, err)

	joined, err := seq.Concat(item{ID: 3}, []item{{ID: 4}}, other, []any{7, item{ID: 8}}, 9)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, ids(joined))
	assert.Equal(t, []int{1, 2}, ids(seq))
	requireConsistent(t, joined)

	_, err = seq.Concat(item{ID: 1})
	require.ErrorIs(t, err, sequence.ErrDuplicateKey)

	_, err = seq.Concat("nope")
	require.ErrorIs(t, err, sequence.ErrWrongModel)

	_, err = seq.Concat([]any{3, "nope"})
	require.ErrorIs(t, err, sequence.ErrWrongModel)
}
