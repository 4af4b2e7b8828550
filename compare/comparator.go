// Package compare provides comparators: two-argument ordering functions used to
// keep a sequence sorted.
package compare

import (
	"cmp"
	"reflect"
	"strings"
	"sync"

	"facette.io/natsort"
	"github.com/amp-labs/amp-collection/fieldpath"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two values. It returns a negative number when a sorts
// before b, zero when they are equivalent and a positive number otherwise.
type Comparator[T any] func(a, b T) int

// Ordered compares values of an ordered type with cmp.Compare.
func Ordered[T cmp.Ordered]() Comparator[T] {
	return cmp.Compare[T]
}

// By compares values by an extracted ordered field.
//
// Example:
//
//	byAge := compare.By(func(p Person) int { return p.Age })
func By[T any, V cmp.Ordered](extract func(T) V) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(extract(a), extract(b))
	}
}

// ByPath compares values by the field at path. Resolved values are ordered by
// kind first (unresolvable or nil, then bools, then numbers, then strings) and
// within a kind by their natural order. Values of any other kind are equivalent.
func ByPath[T any](path string) (Comparator[T], error) {
	parsed, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}

	return func(a, b T) int {
		av, aErr := parsed.Get(a)
		bv, bErr := parsed.Get(b)

		if aErr != nil {
			av = nil
		}

		if bErr != nil {
			bv = nil
		}

		return Values(av, bv)
	}, nil
}

// Natural compares the extracted strings in natural order, so that "file2"
// sorts before "file10".
func Natural[T any](extract func(T) string) Comparator[T] {
	return func(a, b T) int {
		return naturalCompare(extract(a), extract(b))
	}
}

// Collate compares the extracted strings with the collation rules of tag, e.g.
// language.French. Options such as collate.IgnoreCase are passed through.
func Collate[T any](tag language.Tag, extract func(T) string, opts ...collate.Option) Comparator[T] {
	var mut sync.Mutex

	// A Collator keeps internal buffers, so calls are serialized.
	collator := collate.New(tag, opts...)

	return func(a, b T) int {
		mut.Lock()
		defer mut.Unlock()

		return collator.CompareString(extract(a), extract(b))
	}
}

// Reverse inverts the order of c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

// Then returns a comparator that consults each of the given comparators in turn
// until one of them tells the values apart.
func Then[T any](first Comparator[T], rest ...Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if res := first(a, b); res != 0 {
			return res
		}

		for _, c := range rest {
			if res := c(a, b); res != 0 {
				return res
			}
		}

		return 0
	}
}

// Values compares two dynamically typed scalars. See ByPath for the ordering.
func Values(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankBool:
		return cmp.Compare(boolInt(reflect.ValueOf(a).Bool()), boolInt(reflect.ValueOf(b).Bool()))
	case rankNumber:
		return cmp.Compare(toFloat(a), toFloat(b))
	case rankString:
		return strings.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
	default:
		return 0
	}
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

func rank(v any) int {
	if v == nil {
		return rankNil
	}

	switch reflect.ValueOf(v).Kind() { //nolint:exhaustive
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	default:
		return rankOther
	}
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func naturalCompare(a, b string) int {
	switch {
	case a == b:
		return 0
	case natsort.Compare(a, b):
		return -1
	case natsort.Compare(b, a):
		return 1
	default:
		return 0
	}
}
