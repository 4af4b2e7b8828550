// Package fieldpath resolves field paths against arbitrary Go values.
// This package supports two notations:
// - Dotted notation: address.city, items.0.id
// - Bracket notation: $['address']['city']
//
// Resolution walks maps (with string or integer keys), structs (exported fields,
// matched by name, then by json tag), slices and arrays (numeric segments), and
// transparently dereferences pointers and interfaces.
//
//nolint:godoclint // Package comment is correctly formatted
package fieldpath

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for path parsing and traversal.
var (
	ErrPathEmpty          = errors.New("path cannot be empty")
	ErrPathEmptySegment   = errors.New("path contains empty segment")
	ErrPathInvalidSyntax  = errors.New("invalid path syntax")
	ErrPathKeyNotFound    = errors.New("key not found at path segment")
	ErrPathCannotTraverse = errors.New("path segment cannot be traversed")
	ErrNilValue           = errors.New("nil value in path")
	ErrIndexOutOfRange    = errors.New("index out of range at path segment")
)

var (
	bracketSegmentRe = regexp.MustCompile(`\['([^']*)'\]`) //nolint:gochecknoglobals
	bracketEmptyRe   = regexp.MustCompile(`\[''\]`)        //nolint:gochecknoglobals
)

// Path is a parsed field path. The zero value is the empty path, which resolves
// every value to itself.
type Path struct {
	raw        string
	segments   []string
	ignoreCase bool
}

// Parse parses a dotted or bracket notation path.
//
// Examples:
//
//	Parse("id")                      // one segment
//	Parse("address.city")            // two segments
//	Parse("$['address']['city']")    // same two segments
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, ErrPathEmpty
	}

	if strings.HasPrefix(path, "$[") {
		segments, err := parseBrackets(path)
		if err != nil {
			return Path{}, err
		}

		return Path{raw: path, segments: segments}, nil
	}

	segments := strings.Split(path, ".")
	for idx, segment := range segments {
		if segment == "" {
			return Path{}, fmt.Errorf("%w: segment %d in %q", ErrPathEmptySegment, idx, path)
		}
	}

	return Path{raw: path, segments: segments}, nil
}

// MustParse is like Parse but panics on an invalid path. It is meant for
// package-level path constants.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

func parseBrackets(path string) ([]string, error) {
	if loc := bracketEmptyRe.FindStringIndex(path); loc != nil {
		segmentNum := strings.Count(path[:loc[0]], "[")

		return nil, fmt.Errorf("%w: segment %d", ErrPathEmptySegment, segmentNum)
	}

	matches := bracketSegmentRe.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPathInvalidSyntax, path)
	}

	var rebuilt strings.Builder

	rebuilt.WriteString("$")

	segments := make([]string, len(matches))

	for idx, match := range matches {
		rebuilt.WriteString("['" + match[1] + "']")

		segments[idx] = match[1]
	}

	if rebuilt.String() != path {
		return nil, fmt.Errorf("%w: %s", ErrPathInvalidSyntax, path)
	}

	return segments, nil
}

// String returns the path as it was given to Parse.
func (p Path) String() string {
	return p.raw
}

// Segments returns a copy of the parsed segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)

	return out
}

// IgnoreCase returns a copy of the path whose map and struct lookups fall back
// to case-insensitive matching. Exact matches are still preferred.
func (p Path) IgnoreCase() Path {
	p.ignoreCase = true

	return p
}

// Get resolves the path against value.
// A nil value at the end of the path is returned as nil, nil; a nil value in the
// middle of the path is ErrNilValue.
func (p Path) Get(value any) (any, error) {
	current := reflect.ValueOf(value)

	for idx, segment := range p.segments {
		current = indirect(current)
		if !current.IsValid() {
			return nil, fmt.Errorf("%w: segment %d ('%s'), parent is nil", ErrNilValue, idx, segment)
		}

		next, err := p.step(current, segment)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d ('%s') of %q", err, idx, segment, p.raw)
		}

		current = next
	}

	if !current.IsValid() {
		return nil, nil //nolint:nilnil
	}

	if (current.Kind() == reflect.Pointer || current.Kind() == reflect.Interface) && current.IsNil() {
		return nil, nil //nolint:nilnil
	}

	if !current.CanInterface() {
		return nil, fmt.Errorf("%w: %q reaches an unexported field", ErrPathCannotTraverse, p.raw)
	}

	return current.Interface(), nil
}

// Get parses path and resolves it against value in one step.
func Get(value any, path string) (any, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}

	return p.Get(value)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

//nolint:exhaustive
func (p Path) step(current reflect.Value, segment string) (reflect.Value, error) {
	switch current.Kind() {
	case reflect.Map:
		return p.mapStep(current, segment)
	case reflect.Struct:
		return p.structStep(current, segment)
	case reflect.Slice, reflect.Array:
		pos, err := strconv.Atoi(segment)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %s is not an index", ErrPathCannotTraverse, current.Type())
		}

		if pos < 0 || pos >= current.Len() {
			return reflect.Value{}, ErrIndexOutOfRange
		}

		return current.Index(pos), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: parent is type %s", ErrPathCannotTraverse, current.Type())
	}
}

//nolint:exhaustive
func (p Path) mapStep(current reflect.Value, segment string) (reflect.Value, error) {
	keyType := current.Type().Key()

	var key reflect.Value

	switch keyType.Kind() {
	case reflect.String:
		key = reflect.ValueOf(segment).Convert(keyType)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(segment, 10, keyType.Bits())
		if err != nil {
			return reflect.Value{}, ErrPathKeyNotFound
		}

		key = reflect.ValueOf(n).Convert(keyType)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(segment, 10, keyType.Bits())
		if err != nil {
			return reflect.Value{}, ErrPathKeyNotFound
		}

		key = reflect.ValueOf(n).Convert(keyType)
	default:
		return reflect.Value{}, fmt.Errorf("%w: map key type %s", ErrPathCannotTraverse, keyType)
	}

	if found := current.MapIndex(key); found.IsValid() {
		return found, nil
	}

	if p.ignoreCase && keyType.Kind() == reflect.String {
		iter := current.MapRange()
		for iter.Next() {
			if strings.EqualFold(iter.Key().String(), segment) {
				return iter.Value(), nil
			}
		}
	}

	return reflect.Value{}, ErrPathKeyNotFound
}

func (p Path) structStep(current reflect.Value, segment string) (reflect.Value, error) {
	typ := current.Type()

	if field, ok := typ.FieldByName(segment); ok && field.IsExported() {
		found, err := current.FieldByIndexErr(field.Index)
		if err != nil {
			// Promoted through a nil embedded pointer.
			return reflect.Value{}, ErrNilValue
		}

		return found, nil
	}

	var folded []int

	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		if tagName(field) == segment {
			return current.Field(i), nil
		}

		if p.ignoreCase && folded == nil && strings.EqualFold(field.Name, segment) {
			folded = field.Index
		}
	}

	if folded != nil {
		return current.Field(folded[0]), nil
	}

	return reflect.Value{}, ErrPathKeyNotFound
}

func tagName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")

	return name
}
