package sequence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/amp-labs/amp-collection/keyindex"
	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects a serialization format. A sequence is encoded as the array
// of its elements; configuration and observers are not part of the encoding.
type Encoding int

// Supported encodings.
const (
	JSON Encoding = iota
	MsgPack
)

func (enc Encoding) String() string {
	switch enc {
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("Encoding(%d)", int(enc))
	}
}

// Encode serializes value.
func (enc Encoding) Encode(value any) ([]byte, error) {
	switch enc {
	case JSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T to JSON: %w", value, err)
		}

		return raw, nil
	case MsgPack:
		var buf bytes.Buffer

		encoder := msgpack.GetEncoder()
		encoder.Reset(&buf)
		encoder.SetSortMapKeys(true)
		err := encoder.Encode(value)
		msgpack.PutEncoder(encoder)

		if err != nil {
			return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", value, err)
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, enc)
	}
}

// Decode deserializes data into target, which must be a pointer.
func (enc Encoding) Decode(data []byte, target any) error {
	switch enc {
	case JSON:
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode JSON into %T: %w", target, err)
		}

		return nil
	case MsgPack:
		decoder := msgpack.GetDecoder()
		decoder.Reset(bytes.NewReader(data))
		err := decoder.Decode(target)
		msgpack.PutDecoder(decoder)

		if err != nil {
			return fmt.Errorf("failed to decode msgpack into %T: %w", target, err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedEncoding, enc)
	}
}

// Encode serializes the elements with enc.
func (s *Sequence[T, K]) Encode(enc Encoding) ([]byte, error) {
	return enc.Encode(s.ToArray())
}

// ToJSON returns the elements as a JSON array.
func (s *Sequence[T, K]) ToJSON() ([]byte, error) {
	return s.Encode(JSON)
}

// MarshalJSON implements json.Marshaler.
func (s *Sequence[T, K]) MarshalJSON() ([]byte, error) {
	return s.Encode(JSON)
}

// MarshalMsgpack implements msgpack.Marshaler.
func (s *Sequence[T, K]) MarshalMsgpack() ([]byte, error) {
	return s.Encode(MsgPack)
}

// Parse decodes an array of elements encoded with enc and builds a sequence
// from it with New.
func Parse[T any, K keyindex.Key](opts Options[T, K], enc Encoding, data []byte) (*Sequence[T, K], error) {
	var items []T

	if err := enc.Decode(data, &items); err != nil {
		return nil, err
	}

	return New(opts, items...)
}

// ParseJSON is Parse with JSON.
func ParseJSON[T any, K keyindex.Key](opts Options[T, K], data []byte) (*Sequence[T, K], error) {
	return Parse(opts, JSON, data)
}

// ParseMsgpack is Parse with MsgPack.
func ParseMsgpack[T any, K keyindex.Key](opts Options[T, K], data []byte) (*Sequence[T, K], error) {
	return Parse(opts, MsgPack, data)
}
