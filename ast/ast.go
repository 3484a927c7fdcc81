// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an immutable syntax tree for JSON values, and a parser
// that constructs syntax trees from JSON source.
//
// Scalar values retain the text of their source literals, so that numbers
// and strings are rendered exactly as they were written. Objects retain every
// member in source order, including members with duplicate keys.
package ast

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jsonpro"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the minified JSON encoding of the value.
	JSON() string
}

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// A Number is a numeric value. It retains the text of its source literal.
type Number struct {
	text  string
	isInt bool // no fraction or exponent
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }

// Text returns the source text of the number.
func (n Number) Text() string { return n.text }

// IsInt reports whether n was written as an integer, without a fraction or an
// exponent.
func (n Number) IsInt() bool { return n.isInt }

// Float64 returns the value of n as a float64. Values outside the range of a
// float64 are rounded to ±Inf.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil && !isRangeError(err) {
		panic(err)
	}
	return v
}

// Int64 returns the value of n as an int64. It panics if n is not an integer
// or is out of range for an int64.
func (n Number) Int64() int64 {
	if !n.isInt {
		panic(fmt.Sprintf("number %s is not an integer", n.text))
	}
	v, err := strconv.ParseInt(n.text, 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// Int returns a Number for the integer z.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10), isInt: true} }

// Float returns a Number for the floating-point value f. It panics if f is
// NaN or infinite, since those have no JSON encoding.
func Float(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("invalid JSON number %v", f))
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number{text: s}
}

// A String is a string value. It retains the quoted text of its source
// literal, including any escape sequences.
type String struct {
	text string // with quotes
}

// NewString returns a String for the plain text s.
func NewString(s string) String { return String{text: jsonpro.Quote(s)} }

// JSON satisfies the Value interface.
func (s String) JSON() string { return s.text }

// Raw returns the source text of s without its enclosing quotes. Escape
// sequences are not decoded.
func (s String) Raw() string {
	if len(s.text) < 2 {
		return ""
	}
	return s.text[1 : len(s.text)-1]
}

// Value returns the decoded value of s.
func (s String) Value() string {
	dec, err := jsonpro.Unquote([]byte(s.text))
	if err != nil {
		panic(err) // the scanner does not admit incomplete escapes
	}
	return string(dec)
}

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// An Object is a collection of key-value members in source order. Keys need
// not be unique.
type Object []*Member

// JSON satisfies the Value interface. Every member of o is rendered,
// including members with duplicate keys.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.Key.JSON())
		sb.WriteByte(':')
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Find returns the last member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key.Value() == key {
			return o[i]
		}
	}
	return nil
}

// Entries returns one member for each distinct key of o. The members are
// ordered by the first occurrence of each key, and each carries the value of
// the last occurrence of its key. The members of o are not modified.
func (o Object) Entries() Object {
	pos := make(map[string]int, len(o))
	var res Object
	for _, m := range o {
		key := m.Key.Value()
		if p, ok := pos[key]; ok {
			res[p] = &Member{Key: res[p].Key, Value: m.Value}
			continue
		}
		pos[key] = len(res)
		res = append(res, m)
	}
	return res
}

// Len reports the number of distinct keys in o.
func (o Object) Len() int { return len(o.Entries()) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   String
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, value Value) *Member {
	return &Member{Key: NewString(key), Value: value}
}

// ToValue converts a Go value into a Value. It accepts nil, bool, string,
// the built-in integer and floating-point types, []any, map[string]any, and
// values that already implement Value. Map keys are sorted. It panics for
// any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return NewString(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Number{text: strconv.FormatUint(uint64(t), 10), isInt: true}
	case uint64:
		return Number{text: strconv.FormatUint(t, 10), isInt: true}
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case []any:
		arr := make(Array, len(t))
		for i, elt := range t {
			arr[i] = ToValue(elt)
		}
		return arr
	case []string:
		arr := make(Array, len(t))
		for i, s := range t {
			arr[i] = NewString(s)
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		obj := make(Object, len(keys))
		for i, key := range keys {
			obj[i] = Field(key, ToValue(t[key]))
		}
		return obj
	default:
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}

// Equal reports whether a and b are structurally equal: the same kind of
// value with equal contents, objects with members in the same order.
// Numbers compare by their source text and strings by their decoded value.
func Equal(a, b Value) bool {
	switch at := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bt, ok := b.(Bool)
		return ok && at == bt
	case Number:
		bt, ok := b.(Number)
		return ok && at.text == bt.text
	case String:
		bt, ok := b.(String)
		return ok && at.Value() == bt.Value()
	case Array:
		bt, ok := b.(Array)
		return ok && slices.EqualFunc(at, bt, Equal)
	case Object:
		bt, ok := b.(Object)
		return ok && slices.EqualFunc(at, bt, func(x, y *Member) bool {
			return x.Key.Value() == y.Key.Value() && Equal(x.Value, y.Value)
		})
	default:
		return false
	}
}
