// Package accessor provides the two pure functions an indexed sequence is
// configured with: key extraction (element to key) and model coercion
// (raw value to element).
package accessor

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/amp-labs/amp-collection/fieldpath"
	"github.com/amp-labs/amp-collection/keyindex"
)

// DefaultKeyPath is the field path used when no key accessor is configured.
const DefaultKeyPath = "id"

var (
	// ErrInvalidKey is returned when an element has no usable key: the key is nil
	// or a NaN float.
	ErrInvalidKey = errors.New("invalid key")

	// ErrKeyType is returned when a resolved key cannot be converted to the key
	// type without loss.
	ErrKeyType = errors.New("key has the wrong type")

	// ErrWrongModel is returned when a raw value is not an element and no model
	// function is configured to convert it.
	ErrWrongModel = errors.New("value is not an instance of the model")
)

// KeyFunc extracts the key of an element.
type KeyFunc[T any, K keyindex.Key] func(element T) (K, error)

// ModelFunc converts a raw value into an element.
type ModelFunc[T any] func(raw any) (T, error)

// FromFunc adapts an infallible key function. NaN keys are still rejected.
func FromFunc[T any, K keyindex.Key](fn func(T) K) KeyFunc[T, K] {
	return func(element T) (K, error) {
		key := fn(element)
		if isNaN(key) {
			return key, fmt.Errorf("%w: NaN", ErrInvalidKey)
		}

		return key, nil
	}
}

// FromPath returns a KeyFunc that resolves path on each element and converts the
// result with ToKey.
func FromPath[T any, K keyindex.Key](path string) (KeyFunc[T, K], error) {
	parsed, err := fieldpath.Parse(path)
	if err != nil {
		return nil, err
	}

	return fromParsed[T, K](parsed), nil
}

func fromParsed[T any, K keyindex.Key](parsed fieldpath.Path) KeyFunc[T, K] {
	return func(element T) (K, error) {
		raw, err := parsed.Get(element)
		if err != nil {
			var zero K

			return zero, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}

		return ToKey[K](raw)
	}
}

// Default returns the key accessor reading the "id" field. Unlike FromPath it
// matches case-insensitively, so an untagged ID field is found too.
func Default[T any, K keyindex.Key]() KeyFunc[T, K] {
	return fromParsed[T, K](fieldpath.MustParse(DefaultKeyPath).IgnoreCase())
}

// ToKey converts a resolved value into K. The value is accepted when it already
// is a K, when it is a number that converts to K's numeric kind without loss,
// or when it has the same string or bool kind.
func ToKey[K keyindex.Key](raw any) (K, error) {
	var zero K

	if raw == nil {
		return zero, fmt.Errorf("%w: nil", ErrInvalidKey)
	}

	if key, ok := raw.(K); ok {
		if isNaN(key) {
			return zero, fmt.Errorf("%w: NaN", ErrInvalidKey)
		}

		return key, nil
	}

	target := reflect.TypeOf(zero)
	value := reflect.ValueOf(raw)

	if !compatibleKinds(value.Kind(), target.Kind()) || !value.CanConvert(target) {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrKeyType, raw, target)
	}

	if isUnsigned(target.Kind()) && isNegative(value) {
		return zero, fmt.Errorf("%w: %v does not fit in %s", ErrKeyType, raw, target)
	}

	converted := value.Convert(target)

	if isNumeric(target.Kind()) && !value.Equal(converted.Convert(value.Type())) {
		return zero, fmt.Errorf("%w: %v does not fit in %s", ErrKeyType, raw, target)
	}

	key, _ := converted.Interface().(K)
	if isNaN(key) {
		return zero, fmt.Errorf("%w: NaN", ErrInvalidKey)
	}

	return key, nil
}

// Coerce returns raw as an element. A raw value that already is a T is returned
// unchanged; anything else goes through model.
func Coerce[T any](model ModelFunc[T], raw any) (T, error) {
	if element, ok := raw.(T); ok {
		return element, nil
	}

	if model == nil {
		var zero T

		return zero, fmt.Errorf("%w: got %T, want %s", ErrWrongModel, raw, reflect.TypeFor[T]())
	}

	return model(raw)
}

// IsNil reports whether v is nil or a nil pointer, map, slice, channel, func or
// interface. Such values cannot be stored because no key can be read from them.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func isNaN[K keyindex.Key](key K) bool {
	rv := reflect.ValueOf(key)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	default:
		return false
	}
}

func isNumeric(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isUnsigned(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isNegative(v reflect.Value) bool {
	switch v.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	default:
		return false
	}
}

func compatibleKinds(from, to reflect.Kind) bool {
	if isNumeric(from) && isNumeric(to) {
		return true
	}

	return from == to && (from == reflect.String || from == reflect.Bool)
}
