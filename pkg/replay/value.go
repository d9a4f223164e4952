// Package replay provides heuristic extraction primitives for opaque binary
// replay files: segment scanning, metadata recovery, and string dumps. All
// functions are pure over a byte buffer and safe to run concurrently across
// files.
package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds, mirroring the JSON data model.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// ErrTrailingData is returned when a candidate buffer contains bytes after a
// complete JSON value.
var ErrTrailingData = errors.New("trailing data after value")

// Value is a tagged union over the JSON data model. Exactly one of the
// variant fields is meaningful, selected by Kind. Numbers are carried as
// json.Number so a decoded value re-encodes to the same byte representation.
type Value struct {
	Kind Kind
	Bool bool
	Num  json.Number
	Str  string
	Arr  []Value
	Obj  map[string]Value
}

// ParseValue decodes a complete JSON value from data. The entire input must
// be consumed; partial parses fail with ErrTrailingData.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any

	err := dec.Decode(&raw)
	if err != nil {
		return Value{}, fmt.Errorf("decode value: %w", err)
	}

	// dec.More is not enough here: it reports false for trailing ']' or '}'
	// bytes, which still make the candidate an invalid document.
	rest := bytes.TrimSpace(data[dec.InputOffset():])
	if len(rest) > 0 {
		return Value{}, ErrTrailingData
	}

	return fromAny(raw)
}

// fromAny converts the encoding/json representation into a Value.
func fromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return Value{Kind: KindBool, Bool: v}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: v}, nil
	case string:
		return Value{Kind: KindString, Str: v}, nil
	case []any:
		arr := make([]Value, len(v))

		for i, elem := range v {
			converted, err := fromAny(elem)
			if err != nil {
				return Value{}, err
			}

			arr[i] = converted
		}

		return Value{Kind: KindArray, Arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(v))

		for key, elem := range v {
			converted, err := fromAny(elem)
			if err != nil {
				return Value{}, err
			}

			obj[key] = converted
		}

		return Value{Kind: KindObject, Obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("decode value: unsupported type %T", raw)
	}
}

// MarshalJSON encodes the value back to plain JSON. Object keys are emitted
// in sorted order, so encoding is deterministic.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		if v.Num == "" {
			return []byte("0"), nil
		}

		return []byte(v.Num), nil
	case KindString:
		return json.Marshal(v.Str)
	case KindArray:
		return v.marshalArray()
	case KindObject:
		return v.marshalObject()
	default:
		return nil, fmt.Errorf("encode value: unknown kind %d", v.Kind)
	}
}

func (v Value) marshalArray() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')

	for i, elem := range v.Arr {
		if i > 0 {
			buf.WriteByte(',')
		}

		encoded, err := elem.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(encoded)
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}

func (v Value) marshalObject() ([]byte, error) {
	keys := make([]string, 0, len(v.Obj))
	for key := range v.Obj {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')

		encoded, err := v.Obj[key].MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(encoded)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes plain JSON into the tagged union.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

// Field returns the member of an object value, reporting whether it exists.
// Non-object values have no fields.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}

	member, ok := v.Obj[name]

	return member, ok
}

// StringValue returns the string held by the value, or "" when the value is
// not a string.
func (v Value) StringValue() string {
	if v.Kind != KindString {
		return ""
	}

	return v.Str
}
