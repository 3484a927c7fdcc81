// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"fmt"

	"github.com/creachadair/jsonpro/ast"
	"github.com/creachadair/mds/value"
)

// Resolve traverses p from root and returns the value it reaches. An object
// key resolves to the value of the last member with that key. An error is
// reported if a step does not match the structure of the value.
func Resolve(root ast.Value, p Path) (ast.Value, error) {
	cur := root
	for i, s := range p {
		next, err := step(cur, s)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", p[:i+1], err)
		}
		cur = next
	}
	return cur, nil
}

// Find returns the node for the value at p within root, as it would be
// reported by Project. This allows a host to restore the expansion state of a
// path after the document is parsed again.
func Find(root ast.Value, p Path, opts *Options) (Node, error) {
	v, err := Resolve(root, p)
	if err != nil {
		return Node{}, err
	}
	key, index := value.Absent[string](), -1
	if len(p) != 0 {
		if last := p[len(p)-1]; last.IsKey() {
			key = value.Just(last.Name())
		} else {
			index = last.Offset()
		}
	}
	return newNode(v, len(p), key, index, p.Append(), opts), nil
}

func step(cur ast.Value, s Step) (ast.Value, error) {
	switch e := cur.(type) {
	case ast.Object:
		if !s.IsKey() {
			return nil, fmt.Errorf("cannot index object with %v", s)
		}
		m := e.Find(s.Name())
		if m == nil {
			return nil, fmt.Errorf("key %q not found", s.Name())
		}
		return m.Value, nil

	case ast.Array:
		if s.IsKey() {
			return nil, fmt.Errorf("cannot select key %q from array", s.Name())
		}
		if i := s.Offset(); i >= len(e) {
			return nil, fmt.Errorf("array index %d out of bounds (n=%d)", i, len(e))
		}
		return e[s.Offset()], nil

	default:
		return nil, fmt.Errorf("cannot traverse %T with %v", cur, s)
	}
}
