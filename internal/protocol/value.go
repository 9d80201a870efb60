package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ValueType discriminates the JSON variants a Value can hold.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged JSON value. Message metadata and completion-endpoint
// replies are traversed through Values instead of raw interface{} maps so
// that every access is explicit and fallible.
type Value struct {
	typ ValueType
	b   bool
	num float64
	str string
	arr []Value
	obj map[string]Value
}

func Null() Value                 { return Value{typ: TypeNull} }
func Bool(b bool) Value           { return Value{typ: TypeBool, b: b} }
func Number(n float64) Value      { return Value{typ: TypeNumber, num: n} }
func String(s string) Value       { return Value{typ: TypeString, str: s} }
func Array(items ...Value) Value  { return Value{typ: TypeArray, arr: items} }
func Object(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{typ: TypeObject, obj: m}
}

// Type returns the variant tag.
func (v Value) Type() ValueType { return v.typ }

func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsNumber() (float64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsString() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.typ != TypeArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (map[string]Value, bool) {
	if v.typ != TypeObject {
		return nil, false
	}
	return v.obj, true
}

// Get looks up a key on an object value. The second return is false when the
// value is not an object or the key is missing.
func (v Value) Get(key string) (Value, bool) {
	if v.typ != TypeObject {
		return Value{}, false
	}
	child, ok := v.obj[key]
	return child, ok
}

// StringAt is a convenience for the common "object field holding a string"
// access pattern.
func (v Value) StringAt(key string) (string, bool) {
	child, ok := v.Get(key)
	if !ok {
		return "", false
	}
	return child.AsString()
}

// Equal reports deep equality between two values. Object key order is
// irrelevant.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == other.b
	case TypeNumber:
		return v.num == other.num
	case TypeString:
		return v.str == other.str
	case TypeArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, a := range v.obj {
			b, ok := other.obj[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON renders the tagged value back into plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeNull:
		return []byte("null"), nil
	case TypeBool:
		return json.Marshal(v.b)
	case TypeNumber:
		return json.Marshal(v.num)
	case TypeString:
		return json.Marshal(v.str)
	case TypeArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case TypeObject:
		// Deterministic key order keeps encoded frames stable across runs.
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(v.obj[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}
		return append(buf, '}'), nil
	}
	return nil, fmt.Errorf("protocol: unknown value type %d", v.typ)
}

// UnmarshalJSON parses plain JSON into the tagged representation.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromInterface(raw)
	return nil
}

// ParseValue parses a JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

func fromInterface(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromInterface(item)
		}
		return Array(items...)
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = fromInterface(item)
		}
		return Object(m)
	default:
		return Null()
	}
}
