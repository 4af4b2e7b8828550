package keyindex_test

import (
	"fmt"
	"testing"

	"github.com/amp-labs/amp-collection/keyindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userID int64

func TestIndex_PutGet(t *testing.T) {
	t.Parallel()

	t.Run("int keys", func(t *testing.T) {
		t.Parallel()

		idx := keyindex.New[int]()
		idx.Put(1, 0)
		idx.Put(2, 1)

		pos, ok := idx.Get(2)
		require.True(t, ok)
		assert.Equal(t, 1, pos)

		_, ok = idx.Get(3)
		assert.False(t, ok)
		assert.Equal(t, 2, idx.Size())
	})

	t.Run("put overwrites", func(t *testing.T) {
		t.Parallel()

		idx := keyindex.New[string]()
		idx.Put("a", 0)
		idx.Put("a", 5)

		pos, ok := idx.Get("a")
		require.True(t, ok)
		assert.Equal(t, 5, pos)
		assert.Equal(t, 1, idx.Size())
	})

	t.Run("named key type", func(t *testing.T) {
		t.Parallel()

		idx := keyindex.New[userID]()
		idx.Put(userID(42), 3)
		assert.True(t, idx.Contains(42))
	})

	t.Run("bool keys", func(t *testing.T) {
		t.Parallel()

		idx := keyindex.New[bool]()
		idx.Put(true, 0)
		idx.Put(false, 1)

		pos, ok := idx.Get(false)
		require.True(t, ok)
		assert.Equal(t, 1, pos)
		assert.Equal(t, 2, idx.Size())
	})

	t.Run("signed zero floats are one key", func(t *testing.T) {
		t.Parallel()

		negZero := 0.0
		negZero = -negZero

		idx := keyindex.New[float64]()
		idx.Put(0, 7)

		pos, ok := idx.Get(negZero)
		require.True(t, ok)
		assert.Equal(t, 7, pos)
	})
}

func TestIndex_Remove(t *testing.T) {
	t.Parallel()

	idx := keyindex.New[string]()
	idx.Put("a", 0)
	idx.Put("b", 1)

	idx.Remove("a")
	idx.Remove("missing")

	assert.False(t, idx.Contains("a"))
	assert.True(t, idx.Contains("b"))
	assert.Equal(t, 1, idx.Size())
}

func TestIndex_Clear(t *testing.T) {
	t.Parallel()

	idx := keyindex.NewWithSize[int](1000)

	for i := range 1000 {
		idx.Put(i, i)
	}

	require.Equal(t, 1000, idx.Size())

	idx.Clear()

	assert.Equal(t, 0, idx.Size())
	assert.False(t, idx.Contains(10))

	idx.Put(10, 0)
	assert.True(t, idx.Contains(10))
}

func TestIndex_All(t *testing.T) {
	t.Parallel()

	idx := keyindex.New[string]()

	for i := range 20 {
		idx.Put(fmt.Sprintf("k%d", i), i)
	}

	seen := make(map[string]int)
	for key, pos := range idx.All() {
		seen[key] = pos
	}

	assert.Len(t, seen, 20)
	assert.Equal(t, 13, seen["k13"])

	count := 0
	for range idx.All() {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}
