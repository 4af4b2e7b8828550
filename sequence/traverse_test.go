package sequence_test

import (
	"strings"
	"testing"

	"github.com/amp-labs/amp-collection/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Team    string   `json:"team"`
	Tags    []string `json:"tags"`
	Address *struct {
		City string `json:"city"`
	} `json:"address"`
}

func people(t *testing.T) *sequence.Sequence[person, int] {
	t.Helper()

	opts, _ := testOptions(t)

	seq, err := sequence.New(sequence.Options[person, int]{Scheduler: opts.Scheduler, Logger: opts.Logger},
		person{ID: 1, Name: "ann", Team: "red"},
		person{ID: 2, Name: "bob", Team: "blue"},
		person{ID: 3, Name: "cid", Team: "red"},
		person{ID: 4, Name: "dee"},
	)
	require.NoError(t, err)

	return seq
}

func TestTraversal(t *testing.T) {
	t.Parallel()

	seq, _ := newSeq(t, items(1, 2, 3, 4)...)

	even := func(it item, _ int) bool { return it.ID%2 == 0 }

	var visited []int

	seq.ForEach(func(it item, i int) { visited = append(visited, i*10+it.ID) })
	assert.Equal(t, []int{1, 12, 23, 34}, visited)

	assert.Equal(t, items(2, 4), seq.Filter(even))
	assert.Equal(t, items(1, 3), seq.Reject(even))

	matched, rest := seq.Partition(even)
	assert.Equal(t, items(2, 4), matched)
	assert.Equal(t, items(1, 3), rest)

	assert.True(t, seq.Some(even))
	assert.False(t, seq.Every(even))
	assert.True(t, seq.Every(func(it item, _ int) bool { return it.ID > 0 }))

	found, ok := seq.Find(even)
	require.True(t, ok)
	assert.Equal(t, 2, found.ID)

	_, ok = seq.Find(func(it item, _ int) bool { return it.ID > 10 })
	assert.False(t, ok)

	assert.Equal(t, 1, seq.FindIndex(even))
	assert.Equal(t, -1, seq.FindIndex(func(item, int) bool { return false }))

	assert.Equal(t, 2, seq.IndexOf(item{ID: 3}))
	assert.Equal(t, 2, seq.LastIndexOf(item{ID: 3}))
	assert.Equal(t, -1, seq.IndexOf(item{ID: 9}))
	assert.Equal(t, -1, seq.LastIndexOf(item{ID: 9}))

	first, ok := seq.First()
	require.True(t, ok)
	assert.Equal(t, 1, first.ID)

	last, ok := seq.Last()
	require.True(t, ok)
	assert.Equal(t, 4, last.ID)

	assert.Equal(t, items(1, 2, 3), seq.Initial())
	assert.Equal(t, items(2, 3, 4), seq.Rest())

	sum := sequence.Reduce(seq, func(acc int, it item, _ int) int { return acc + it.ID }, 0)
	assert.Equal(t, 10, sum)

	digits := sequence.ReduceRight(seq, func(acc string, it item, _ int) string {
		return acc + string(rune('0'+it.ID))
	}, "")
	assert.Equal(t, "4321", digits)

	doubled := sequence.Map(seq, func(it item, i int) int { return it.ID*2 + i })
	assert.Equal(t, []int{2, 5, 8, 11}, doubled)
}

func TestTraversal_Empty(t *testing.T) {
	t.Parallel()

	seq, _ := newSeq(t)

	_, ok := seq.First()
	assert.False(t, ok)

	_, ok = seq.Last()
	assert.False(t, ok)

	assert.Nil(t, seq.Initial())
	assert.Nil(t, seq.Rest())
	assert.True(t, seq.Every(func(item, int) bool { return false }))
	assert.False(t, seq.Some(func(item, int) bool { return true }))
	assert.Empty(t, seq.String())
}

func TestGrouping(t *testing.T) {
	t.Parallel()

	seq := people(t)

	team := func(p person) string { return p.Team }

	groups := sequence.GroupBy(seq, team)
	assert.Len(t, groups["red"], 2)
	assert.Equal(t, 3, groups["red"][1].ID)
	assert.Len(t, groups[""], 1)

	counts := sequence.CountBy(seq, team)
	assert.Equal(t, map[string]int{"red": 2, "blue": 1, "": 1}, counts)

	byTeam := sequence.IndexBy(seq, team)
	assert.Equal(t, 3, byTeam["red"].ID)
}

func TestGroupingByPath(t *testing.T) {
	t.Parallel()

	seq := people(t)

	groups, err := sequence.GroupByPath(seq, "team")
	require.NoError(t, err)
	assert.Len(t, groups["red"], 2)
	assert.Len(t, groups["blue"], 1)

	counts, err := sequence.CountByPath(seq, "team")
	require.NoError(t, err)
	assert.Equal(t, 2, counts["red"])

	byName, err := sequence.IndexByPath(seq, "name")
	require.NoError(t, err)
	assert.Equal(t, 2, byName["bob"].ID)

	// Unresolvable paths group under nil.
	cities, err := sequence.CountByPath(seq, "address.city")
	require.NoError(t, err)
	assert.Equal(t, map[any]int{nil: 4}, cities)

	_, err = sequence.GroupByPath(seq, "")
	require.Error(t, err)
}

func TestGroupingByPath_Uncomparable(t *testing.T) {
	t.Parallel()

	opts, _ := testOptions(t)

	seq, err := sequence.New(sequence.Options[person, int]{Scheduler: opts.Scheduler},
		person{ID: 1, Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = sequence.GroupByPath(seq, "tags")
	require.ErrorIs(t, err, sequence.ErrKeyType)
}

func TestPluck(t *testing.T) {
	t.Parallel()

	seq := people(t)

	names, err := seq.Pluck("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", "bob", "cid", "dee"}, names)

	missing, err := seq.Pluck("nope")
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil, nil, nil}, missing)

	_, err = seq.Pluck("a..b")
	require.Error(t, err)
}

func TestJoin(t *testing.T) {
	t.Parallel()

	seq, _ := newSeq(t, item{ID: 1, Name: "a"}, item{ID: 2, Name: "b"})

	assert.Equal(t, "{1 a} | {2 b}", seq.Join(" | "))
	assert.Equal(t, "{1 a},{2 b}", seq.String())
	assert.True(t, strings.HasPrefix(seq.Join(""), "{1 a}"))
}
