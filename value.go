package jsonb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pgbin/jsonb/numeric"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded jsonb value tree.
//
// Objects keep their members in a slice, in the order they are stored on
// disk: ascending key byte length, then bytewise among equal lengths.
// That is the order the server's encoder chose, not the authoring order
// of the source document.
//
// The zero Value is null.
type Value struct {
	kind    Kind
	boolVal bool
	num     numeric.Number
	str     string
	items   []Value
	members []Member
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(n numeric.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// Array returns an array value with the given elements.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Object returns an object value with the given members, kept in order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean content; false for any other kind.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.boolVal
}

// Str returns the string content; empty for any other kind.
func (v Value) Str() string {
	return v.str
}

// Number returns the numeric content; the zero Number for any other kind.
func (v Value) Number() numeric.Number {
	return v.num
}

// Items returns the elements of an array; nil for any other kind.
func (v Value) Items() []Value {
	return v.items
}

// Members returns the members of an object in stored order; nil for any
// other kind.
func (v Value) Members() []Member {
	return v.members
}

// Len returns the number of elements (array) or members (object), zero
// otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the value stored under key in an object. Keys are unique
// on well-formed input, so the first match wins.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}

	return Value{}, false
}

// Equal reports structural equality. Object comparison is order
// sensitive, which is well defined here because the stored order is
// deterministic for a given set of keys.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.num.Equal(other.num)
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}

		return true
	case KindObject:
		if len(v.members) != len(other.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != other.members[i].Key {
				return false
			}
			if !v.members[i].Value.Equal(other.members[i].Value) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// Interface converts the tree to plain Go values: nil, bool, string,
// int64 or float64 for numbers, []any for arrays and map[string]any for
// objects.
//
// The conversion is lossy: map iteration does not preserve member order,
// and non-integral numbers collapse to float64. Use Members and Number
// where order or exactness matter.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		if i, ok := v.num.Int64(); ok {
			return i
		}

		return v.num.Float64()
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}

		return out
	default:
		return nil
	}
}

// MarshalJSON renders the tree as JSON, emitting object members in their
// stored order. Non-finite numbers have no JSON literal and are emitted
// as quoted strings ("NaN", "Infinity", "-Infinity"), matching how the
// server spells them in text output.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.num.IsFinite() {
			buf.WriteString(v.num.String())
		} else {
			fmt.Fprintf(buf, "%q", v.num.String())
		}
	case KindString:
		raw, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}

	return nil
}
