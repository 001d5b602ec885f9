package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface: only String, Int, Bool, Array and Object
// implement it.
type Value interface {
	value()
}

// String is a JSON string.
type String string

func (String) value() {}

// Int is a JSON integer. Floats are never produced.
type Int int64

func (Int) value() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) value() {}

// Array is a JSON array.
type Array []Value

func (Array) value() {}

// Object is a JSON object. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// ErrField is returned when an Object lacks a field or holds the wrong type.
var ErrField = errors.New("bad field")

// SortedKeys returns keys in canonical order (UTF-16 code units).
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Str returns the string field key.
func (o Object) Str(key string) (string, error) {
	v, ok := o[key].(String)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a string", ErrField, key)
	}
	return string(v), nil
}

// Int returns the integer field key.
func (o Object) Int(key string) (int, error) {
	v, ok := o[key].(Int)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrField, key)
	}
	return int(v), nil
}

// Bool returns the boolean field key.
func (o Object) Bool(key string) (bool, error) {
	v, ok := o[key].(Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrField, key)
	}
	return bool(v), nil
}

// Strings returns the field key as a list of strings.
func (o Object) Strings(key string) ([]string, error) {
	arr, ok := o[key].(Array)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", ErrField, key)
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(String)
		if !ok {
			return nil, fmt.Errorf("%w: %q[%d] is not a string", ErrField, key, i)
		}
		out[i] = string(s)
	}
	return out, nil
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// compareKeys orders strings by UTF-16 code units, which differs from Go's
// byte order for characters outside the Basic Multilingual Plane.
func compareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	return len(a16) - len(b16)
}

// Decode parses JSON into a Value. Null and non-integer numbers are
// rejected.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromAny(raw)
}

// DecodeObject is Decode for payloads that must be objects.
func DecodeObject(data []byte) (Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("decode: expected object, got %T", v)
	}
	return obj, nil
}

func fromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not allowed")
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are not allowed: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of range: %s", s)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			x, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = x
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			x, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			obj[k] = x
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
