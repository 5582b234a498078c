package ferry

import (
	"bytes"
	"fmt"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBytes
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindMap
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBytes:
		return "bytes"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTimestamp:
		return "timestamp"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is one node of an event's field tree: a tagged union over null,
// bytes, integer, float, boolean, timestamp, map, and array variants.
//
// A Value exclusively owns its children. Maps have no duplicate keys and
// arrays have no index gaps; sparse insertion pads holes with Null. The zero
// Value is Null.
type Value struct {
	kind      Kind
	bytes     []byte
	integer   int64
	float     float64
	boolean   bool
	timestamp time.Time
	mapping   map[string]Value
	array     []Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bytes returns a bytes value holding b.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, bytes: b}
}

// String returns a bytes value holding s.
func String(s string) Value {
	return Value{kind: KindBytes, bytes: []byte(s)}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// Float returns a float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, float: f}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// Timestamp returns a timestamp value.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, timestamp: t}
}

// Map returns a map value over m. The value takes ownership of the map.
func Map(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindMap, mapping: m}
}

// Array returns an array value over the given elements.
func Array(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindArray, array: values}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBytes returns the bytes payload if the value is a bytes value.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.bytes, true
}

// AsString returns the bytes payload as a string if the value is a bytes value.
func (v Value) AsString() (string, bool) {
	if v.kind != KindBytes {
		return "", false
	}
	return string(v.bytes), true
}

// AsInteger returns the integer payload if the value is an integer.
func (v Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

// AsFloat returns the float payload if the value is a float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.float, true
}

// AsBoolean returns the boolean payload if the value is a boolean.
func (v Value) AsBoolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// AsTimestamp returns the timestamp payload if the value is a timestamp.
func (v Value) AsTimestamp() (time.Time, bool) {
	if v.kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.timestamp, true
}

// AsMap returns the mapping if the value is a map.
// The returned map is shared with the value; mutations are visible.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.mapping, true
}

// AsArray returns the elements if the value is an array.
// The returned slice is shared with the value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

// Interface lowers the value to plain Go values for codecs:
// null → nil, bytes → string, integer → int64, float → float64,
// boolean → bool, timestamp → RFC 3339 string, map → map[string]any,
// array → []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBytes:
		return string(v.bytes)
	case KindInteger:
		return v.integer
	case KindFloat:
		return v.float
	case KindBoolean:
		return v.boolean
	case KindTimestamp:
		return v.timestamp.UTC().Format(time.RFC3339Nano)
	case KindMap:
		out := make(map[string]any, len(v.mapping))
		for k, child := range v.mapping {
			out[k] = child.Interface()
		}
		return out
	case KindArray:
		out := make([]any, len(v.array))
		for i, child := range v.array {
			out[i] = child.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts plain Go values into a Value.
// Unrecognized types fall back to their fmt representation as bytes.
func FromInterface(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return Bytes(t)
	case bool:
		return Boolean(t)
	case int:
		return Integer(int64(t))
	case int32:
		return Integer(int64(t))
	case int64:
		return Integer(t)
	case uint64:
		return Integer(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case time.Time:
		return Timestamp(t)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, child := range t {
			m[k] = FromInterface(child)
		}
		return Map(m)
	case []any:
		a := make([]Value, len(t))
		for i, child := range t {
			a[i] = FromInterface(child)
		}
		return Array(a...)
	default:
		return String(fmt.Sprint(t))
	}
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBytes:
		b := make([]byte, len(v.bytes))
		copy(b, v.bytes)
		return Bytes(b)
	case KindMap:
		m := make(map[string]Value, len(v.mapping))
		for k, child := range v.mapping {
			m[k] = child.Clone()
		}
		return Map(m)
	case KindArray:
		a := make([]Value, len(v.array))
		for i, child := range v.array {
			a[i] = child.Clone()
		}
		return Array(a...)
	default:
		return v
	}
}

// Equal reports structural equality between two values.
// Timestamps compare with time.Equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBytes:
		return bytes.Equal(v.bytes, other.bytes)
	case KindInteger:
		return v.integer == other.integer
	case KindFloat:
		return v.float == other.float
	case KindBoolean:
		return v.boolean == other.boolean
	case KindTimestamp:
		return v.timestamp.Equal(other.timestamp)
	case KindMap:
		if len(v.mapping) != len(other.mapping) {
			return false
		}
		for k, child := range v.mapping {
			o, ok := other.mapping[k]
			if !ok || !child.Equal(o) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.array) != len(other.array) {
			return false
		}
		for i, child := range v.array {
			if !child.Equal(other.array[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
