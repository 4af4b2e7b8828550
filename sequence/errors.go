package sequence

import (
	"errors"
	"fmt"

	"github.com/amp-labs/amp-collection/accessor"
)

var (
	// ErrInvalidElement is returned when a nil element is inserted. No key can be
	// read from it.
	ErrInvalidElement = errors.New("invalid element")

	// ErrDuplicateKey is returned under DuplicateReject when an inserted element
	// has the same key as a stored element or as another element of its batch.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidKey is returned when an element's key is nil, NaN or cannot be
	// resolved.
	ErrInvalidKey = accessor.ErrInvalidKey

	// ErrKeyType is returned when an element's key cannot be converted to the
	// key type.
	ErrKeyType = accessor.ErrKeyType

	// ErrWrongModel is returned when a raw value cannot be converted into an
	// element.
	ErrWrongModel = accessor.ErrWrongModel

	// ErrUnsupportedEncoding is returned for an unknown Encoding.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

func elementError(pos int, err error) error {
	return fmt.Errorf("element %d: %w", pos, err)
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
