// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package tree projects a JSON value into a sequence of display nodes for a
// tree view.
//
// Nodes are produced in depth-first pre-order: each container is reported
// before its children. Hosts may consume the whole sequence with Nodes or
// Project, or show only the root and fetch the children of a container on
// demand with Expand. Either way, the same value always yields the same nodes.
//
// Nodes carry no identity beyond their Path, which hosts use to key
// expand/collapse state across re-projection.
package tree

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jsonpro/ast"
	"github.com/creachadair/mds/value"
)

// DefaultSummaryLimit is the maximum length of a scalar summary, in code
// points, used when Options.SummaryLimit is not positive.
const DefaultSummaryLimit = 80

// Ellipsis is appended to a summary that was truncated.
const Ellipsis = "…"

// Type is the type tag of a node.
type Type byte

// Constants defining the valid Type values.
const (
	Object Type = iota
	Array
	String
	Number
	Boolean
	Null
)

var typeStr = [...]string{
	Object:  "object",
	Array:   "array",
	String:  "string",
	Number:  "number",
	Boolean: "boolean",
	Null:    "null",
}

func (t Type) String() string {
	if int(t) < len(typeStr) {
		return typeStr[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// IsContainer reports whether t is Object or Array.
func (t Type) IsContainer() bool { return t == Object || t == Array }

// Options control the projection of nodes. A nil *Options is ready for use
// and provides default values.
type Options struct {
	// The maximum length of a scalar summary, in Unicode code points.
	// Longer summaries are truncated and Ellipsis is appended.
	// If zero or negative, DefaultSummaryLimit is used.
	SummaryLimit int
}

func (o *Options) summaryLimit() int {
	if o == nil || o.SummaryLimit <= 0 {
		return DefaultSummaryLimit
	}
	return o.SummaryLimit
}

// A Node is a single displayable element of a tree view.
type Node struct {
	Depth      int                 // 0 for the root
	Key        value.Maybe[string] // present for object members
	Index      int                 // position in the enclosing array, or -1
	Summary    string              // scalar text, or "{n keys}" / "[n items]"
	Type       Type
	Expandable bool // a container with at least one child
	Children   Ref  // for lazy expansion; zero unless Expandable
	Path       Path // from the root to this node
}

// Label returns a one-line label for n, combining its key or index with its
// summary.
func (n Node) Label() string {
	if k, ok := n.Key.GetOK(); ok {
		return k + ": " + n.Summary
	} else if n.Index >= 0 {
		return fmt.Sprintf("[%d]: %s", n.Index, n.Summary)
	}
	return n.Summary
}

// A Ref is an opaque handle to the children of a container node.
// The zero Ref has no children.
type Ref struct {
	v     ast.Value
	depth int // of the container
	path  Path
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool { return r.v == nil }

// Root returns the node for v itself, at depth 0.
func Root(v ast.Value, opts *Options) Node {
	return newNode(v, 0, value.Absent[string](), -1, nil, opts)
}

// Nodes returns a sequence of the nodes of v in depth-first pre-order.
// Children of a container are visited lazily as the sequence is consumed.
func Nodes(v ast.Value, opts *Options) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(Root(v, opts), opts, yield)
	}
}

func walk(n Node, opts *Options, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for c := range children(n.Children, opts) {
		if !walk(c, opts, yield) {
			return false
		}
	}
	return true
}

// Project returns all the nodes of v in depth-first pre-order.
func Project(v ast.Value, opts *Options) []Node {
	var out []Node
	for n := range Nodes(v, opts) {
		out = append(out, n)
	}
	return out
}

// Expand returns the immediate children of the container referenced by ref,
// in source order. Each child carries its own Ref for further expansion.
// Expand returns nil for a zero Ref.
func Expand(ref Ref, opts *Options) []Node {
	var out []Node
	for n := range children(ref, opts) {
		out = append(out, n)
	}
	return out
}

func children(ref Ref, opts *Options) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		switch t := ref.v.(type) {
		case ast.Array:
			for i, elt := range t {
				if !yield(newNode(elt, ref.depth+1, value.Absent[string](), i, ref.path.Append(Index(i)), opts)) {
					return
				}
			}
		case ast.Object:
			for _, m := range t.Entries() {
				key := m.Key.Value()
				if !yield(newNode(m.Value, ref.depth+1, value.Just(key), -1, ref.path.Append(Key(key)), opts)) {
					return
				}
			}
		}
	}
}

func newNode(v ast.Value, depth int, key value.Maybe[string], index int, path Path, opts *Options) Node {
	n := Node{Depth: depth, Key: key, Index: index, Path: path}
	switch t := v.(type) {
	case ast.Object:
		nk := len(t.Entries())
		n.Type = Object
		n.Summary = fmt.Sprintf("{%d keys}", nk)
		n.Expandable = nk != 0
	case ast.Array:
		n.Type = Array
		n.Summary = fmt.Sprintf("[%d items]", len(t))
		n.Expandable = len(t) != 0
	case ast.String:
		n.Type = String
		n.Summary = Truncate(visible(t.Value()), opts.summaryLimit())
	case ast.Number:
		n.Type = Number
		n.Summary = Truncate(t.Text(), opts.summaryLimit())
	case ast.Bool:
		n.Type = Boolean
		n.Summary = t.JSON()
	case ast.Null:
		n.Type = Null
		n.Summary = "null"
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
	if n.Expandable {
		n.Children = Ref{v: v, depth: depth, path: path}
	}
	return n
}

// visible returns s with control characters below U+0020 replaced by Go
// escape sequences, so that a summary occupies a single line.
func visible(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if isControl(r) {
			q := strconv.QuoteRune(r)
			sb.WriteString(q[1 : len(q)-1])
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isControl(r rune) bool { return r < ' ' }

// Truncate returns s if it has at most limit code points. Otherwise it
// returns the first limit code points of s followed by Ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	i, nr := 0, 0
	for nr < limit {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		nr++
	}
	return s[:i] + Ellipsis
}
