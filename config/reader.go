//nolint:ireturn
package config

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrBadValue     = errors.New("error parsing configuration value")
	ErrValueMissing = errors.New("missing configuration value")
)

// Reader is a value read from the environment (or from a context override).
// It carries the key, whether the value was present, and any parse error, so
// callers can decide how to fall back.
type Reader[A any] struct {
	key     string
	present bool
	err     error

	value A
}

// Key returns the configuration key.
func (r Reader[A]) Key() string {
	return r.key
}

// Value returns the value, or an error if it is missing or failed to parse.
func (r Reader[A]) Value() (A, error) {
	if r.err != nil {
		return r.value, fmt.Errorf("%w %s: %w", ErrBadValue, r.key, r.err)
	}

	if !r.present {
		return r.value, fmt.Errorf("%w %s", ErrValueMissing, r.key)
	}

	return r.value, nil
}

// ValueOrElse returns the value, or v if the value is missing or invalid.
// An invalid value is logged before falling back.
func (r Reader[A]) ValueOrElse(v A) A {
	if r.present && r.err == nil {
		return r.value
	}

	if r.err != nil {
		slog.Warn("error reading configuration value, using fallback",
			"key", r.key, "error", r.err, "fallback", v)
	}

	return v
}

// HasValue reports whether a valid value is present.
func (r Reader[A]) HasValue() bool {
	return r.present && r.err == nil
}

// Error returns the parse error, if any.
func (r Reader[A]) Error() error {
	return r.err
}

// WithDefault fills in v when no value is present.
func (r Reader[A]) WithDefault(v A) Reader[A] {
	if r.present {
		return r
	}

	return Reader[A]{
		key:     r.key,
		present: true,
		err:     r.err,
		value:   v,
	}
}

// String returns a printable form of the reader.
func (r Reader[A]) String() string {
	switch {
	case r.err != nil:
		return fmt.Sprintf("%s=<error: %v>", r.key, r.err)
	case r.present:
		return fmt.Sprintf("%s=%v", r.key, r.value)
	default:
		return r.key + "=<not set>"
	}
}

// Map transforms the value of a present, valid reader.
func Map[A any, B any](r Reader[A], f func(A) (B, error)) Reader[B] {
	if !r.present || r.err != nil {
		return Reader[B]{
			key:     r.key,
			present: r.present,
			err:     r.err,
		}
	}

	val, err := f(r.value)

	return Reader[B]{
		key:     r.key,
		present: true,
		err:     err,
		value:   val,
	}
}

// Option modifies a Reader; see Default.
type Option[T any] func(Reader[T]) Reader[T]

// Default provides a default value for a missing key.
func Default[T any](dfl T) Option[T] {
	return func(r Reader[T]) Reader[T] {
		return r.WithDefault(dfl)
	}
}

// OneOf rejects values outside of allowed.
func OneOf[T comparable](allowed ...T) Option[T] {
	return func(r Reader[T]) Reader[T] {
		return Map(r, func(v T) (T, error) {
			for _, a := range allowed {
				if a == v {
					return v, nil
				}
			}

			return v, fmt.Errorf("%w: %v is not one of %v", ErrBadValue, v, allowed)
		})
	}
}
