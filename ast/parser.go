// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jsonpro"
)

// A Parser carries the settings for parsing JSON source into values.
// A zero value is ready for use and accepts only standard JSON.
type Parser struct {
	// If true, accept line and block comments. Comments are discarded.
	AllowComments bool

	// If true, accept a trailing comma at the end of an object or array.
	AllowTrailingCommas bool

	// The maximum nesting depth of objects and arrays.
	// If zero, jsonpro.DefaultMaxDepth is used.
	MaxDepth int
}

func (p Parser) newStream(r io.Reader) *jsonpro.Stream {
	st := jsonpro.NewStream(r)
	st.AllowComments(p.AllowComments)
	st.AllowTrailingCommas(p.AllowTrailingCommas)
	st.SetMaxDepth(p.MaxDepth)
	return st
}

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func (p Parser) Parse(r io.Reader) ([]Value, error) {
	h := newParseHandler()
	st := p.newStream(r)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		v, err := h.result()
		if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
}

// ParseSingle parses and returns a single JSON value from r. The input must
// contain exactly one value, optionally surrounded by whitespace (and
// comments, if enabled). Syntax errors have concrete type
// *jsonpro.SyntaxError.
func (p Parser) ParseSingle(r io.Reader) (Value, error) {
	h := newParseHandler()
	if err := p.newStream(r).ParseSingle(h); err != nil {
		return nil, err
	}
	return h.result()
}

// Parse parses and returns the standard JSON values from r.
func Parse(r io.Reader) ([]Value, error) { return Parser{}.Parse(r) }

// ParseSingle parses and returns exactly one standard JSON value from r.
func ParseSingle(r io.Reader) (Value, error) { return Parser{}.ParseSingle(r) }

// A stub is a partially-constructed container on the parse stack.
type stub interface {
	add(Value)
}

type arrayStub struct{ vals Array }

func (a *arrayStub) add(v Value) { a.vals = append(a.vals, v) }

type objectStub struct{ mems Object }

// Values arrive at an object through its members.
func (o *objectStub) add(Value) {}

type memberStub struct{ *Member }

func (m memberStub) add(v Value) { m.Value = v }

// A parseHandler implements the jsonpro.Handler interface to construct
// syntax trees for JSON values.
type parseHandler struct {
	stk  []stub
	keys map[string]string // interned object keys
	done Value             // the most recently completed top-level value
}

func newParseHandler() *parseHandler {
	return &parseHandler{keys: make(map[string]string)}
}

// result returns the completed value and resets h for the next value.
func (h *parseHandler) result() (Value, error) {
	if len(h.stk) != 0 || h.done == nil {
		h.stk = h.stk[:0]
		return nil, errors.New("incomplete value")
	}
	v := h.done
	h.done = nil
	return v, nil
}

// intern returns a string equal to text, sharing storage with previous keys
// of the same spelling. Large documents often repeat the same keys.
func (h *parseHandler) intern(text []byte) string {
	if s, ok := h.keys[string(text)]; ok {
		return s
	}
	s := string(text)
	h.keys[s] = s
	return s
}

func (h *parseHandler) reduceValue(v Value) {
	if len(h.stk) == 0 {
		h.done = v
		return
	}
	h.stk[len(h.stk)-1].add(v)
}

func (h *parseHandler) top() stub { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() stub {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(s stub) { h.stk = append(h.stk, s) }

func (h *parseHandler) BeginObject(loc jsonpro.Anchor) error {
	h.push(new(objectStub))
	return nil
}

func (h *parseHandler) EndObject(loc jsonpro.Anchor) error {
	obj := h.pop().(*objectStub).mems
	if obj == nil {
		obj = Object{}
	}
	h.reduceValue(obj)
	return nil
}

func (h *parseHandler) BeginArray(loc jsonpro.Anchor) error {
	h.push(new(arrayStub))
	return nil
}

func (h *parseHandler) EndArray(loc jsonpro.Anchor) error {
	arr := h.pop().(*arrayStub).vals
	if arr == nil {
		arr = Array{}
	}
	h.reduceValue(arr)
	return nil
}

func (h *parseHandler) BeginMember(loc jsonpro.Anchor) error {
	// The object this member belongs to is atop the stack.  Add the new member
	// to its collection eagerly, so that when the value is known, it only needs
	// to be stored in the member.
	mem := &Member{Key: String{text: h.intern(loc.Text())}}
	obj := h.top().(*objectStub)
	obj.mems = append(obj.mems, mem)
	h.push(memberStub{mem})
	return nil
}

func (h *parseHandler) EndMember(loc jsonpro.Anchor) error {
	h.pop()
	return nil
}

func (h *parseHandler) Value(loc jsonpro.Anchor) error {
	switch tok := loc.Token(); tok {
	case jsonpro.String:
		h.reduceValue(String{text: string(loc.Text())})
	case jsonpro.Integer, jsonpro.Number:
		h.reduceValue(Number{text: string(loc.Text()), isInt: tok == jsonpro.Integer})
	case jsonpro.True, jsonpro.False:
		h.reduceValue(Bool(tok == jsonpro.True))
	case jsonpro.Null:
		h.reduceValue(Null{})
	default:
		return fmt.Errorf("unknown value %v", tok)
	}
	return nil
}

func (h *parseHandler) EndOfInput(loc jsonpro.Anchor) {}
