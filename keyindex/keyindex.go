// Package keyindex provides the reverse index used by indexed sequences: a mapping
// from an element key to the element's current position.
//
// Keys are scalar values (integers, floats, strings and booleans, including named
// types built on them). Every operation is O(1) on average. The index makes no
// ordering guarantees over its keys.
//
// Thread-safety: an Index is not safe for concurrent use. Synchronization, when
// needed, is the responsibility of the owner.
package keyindex

import (
	"iter"
	"math"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/zeebo/xxh3"
)

// defaultCapacity is the initial number of slots reserved in the primary table.
const defaultCapacity = 16

// Key is the set of types that can identify an element. It is the Go rendering
// of "number, string or boolean".
type Key interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~string | ~bool
}

// entry is what the primary table stores for one hash value. The full key is kept
// so that lookups can tell a real hit from a hash collision.
type entry[K Key] struct {
	key   K
	index int
}

// Index maps keys to positions. The zero value is not ready to use; call New.
//
// Keys are hashed with xxh3 and stored in an integer-keyed open addressing table.
// When two distinct keys share a hash, the later one is kept in an overflow map,
// so collisions never alias two keys onto one position.
type Index[K Key] struct {
	hash     func(K) uint64
	primary  *intmap.Map[uint64, entry[K]]
	overflow map[K]int
}

// New creates an empty Index.
func New[K Key]() *Index[K] {
	return NewWithSize[K](defaultCapacity)
}

// NewWithSize creates an empty Index with room for roughly size keys.
func NewWithSize[K Key](size int) *Index[K] {
	if size < defaultCapacity {
		size = defaultCapacity
	}

	return &Index[K]{
		hash:    hasherFor[K](),
		primary: intmap.New[uint64, entry[K]](size),
	}
}

// Put maps key to index, replacing any previous mapping for key.
func (x *Index[K]) Put(key K, index int) {
	if _, ok := x.overflow[key]; ok {
		x.overflow[key] = index

		return
	}

	h := x.hash(key)

	prev, ok := x.primary.Get(h)
	if ok && prev.key != key {
		if x.overflow == nil {
			x.overflow = make(map[K]int)
		}

		x.overflow[key] = index

		return
	}

	x.primary.Put(h, entry[K]{key: key, index: index})
}

// Get returns the position mapped to key, and whether key is present.
func (x *Index[K]) Get(key K) (int, bool) {
	prev, ok := x.primary.Get(x.hash(key))
	if ok && prev.key == key {
		return prev.index, true
	}

	idx, ok := x.overflow[key]

	return idx, ok
}

// Contains reports whether key is mapped to a position.
func (x *Index[K]) Contains(key K) bool {
	_, ok := x.Get(key)

	return ok
}

// Remove deletes the mapping for key. Removing an absent key is a no-op.
func (x *Index[K]) Remove(key K) {
	h := x.hash(key)

	prev, ok := x.primary.Get(h)
	if ok && prev.key == key {
		x.primary.Del(h)

		return
	}

	delete(x.overflow, key)
}

// Clear removes every mapping.
func (x *Index[K]) Clear() {
	x.primary.Clear()
	x.overflow = nil
}

// Size returns the number of mapped keys.
func (x *Index[K]) Size() int {
	return x.primary.Len() + len(x.overflow)
}

// All iterates over every key and its position, in no particular order.
func (x *Index[K]) All() iter.Seq2[K, int] {
	return func(yield func(K, int) bool) {
		stopped := false

		x.primary.ForEach(func(_ uint64, e entry[K]) bool {
			if !yield(e.key, e.index) {
				stopped = true

				return false
			}

			return true
		})

		if stopped {
			return
		}

		for key, idx := range x.overflow {
			if !yield(key, idx) {
				return
			}
		}
	}
}

// hasherFor picks the hash function for K once, based on its underlying kind.
func hasherFor[K Key]() func(K) uint64 {
	var zero K

	switch reflect.TypeOf(zero).Kind() { //nolint:exhaustive
	case reflect.String:
		return func(k K) uint64 {
			return xxh3.HashString(reflect.ValueOf(k).String())
		}
	case reflect.Bool:
		return func(k K) uint64 {
			if reflect.ValueOf(k).Bool() {
				return 1
			}

			return 0
		}
	case reflect.Float32, reflect.Float64:
		return func(k K) uint64 {
			f := reflect.ValueOf(k).Float()
			if f == 0 {
				// +0 and -0 are the same key.
				f = 0
			}

			return hashBits(math.Float64bits(f))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(k K) uint64 {
			return hashBits(reflect.ValueOf(k).Uint())
		}
	default:
		return func(k K) uint64 {
			return hashBits(uint64(reflect.ValueOf(k).Int())) //nolint:gosec
		}
	}
}

func hashBits(bits uint64) uint64 {
	var buf [8]byte

	for i := range buf {
		buf[i] = byte(bits >> (8 * i)) //nolint:gosec
	}

	return xxh3.Hash(buf[:])
}
