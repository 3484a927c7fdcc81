// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

/*
Path syntax, a subset of JSONPath:

  path = "$" steps
 steps = step [steps]
  step = "." WORD
  step = "[" "'" QTEXT "'" "]"
  step = "[" INDEX "]"

  WORD = RE `[A-Za-z_]\w*`
 QTEXT = text with \' and \\ escaped
 INDEX = RE `\d+`
*/

// A Step is a single element of a Path: either an object key or an array
// index.
type Step struct {
	name  string
	index int // -1 for object keys
}

// Key returns a Step that selects the object member with the given key.
func Key(name string) Step { return Step{name: name, index: -1} }

// Index returns a Step that selects the array element at offset i ≥ 0.
func Index(i int) Step {
	if i < 0 {
		panic(fmt.Sprintf("invalid array index %d", i))
	}
	return Step{index: i}
}

// IsKey reports whether s selects an object key.
func (s Step) IsKey() bool { return s.index < 0 }

// Name returns the object key selected by s, or "" if s is an array index.
func (s Step) Name() string { return s.name }

// Offset returns the array index selected by s, or -1 if s is an object key.
func (s Step) Offset() int { return s.index }

func (s Step) String() string {
	if !s.IsKey() {
		return "[" + strconv.Itoa(s.index) + "]"
	} else if nameRE.MatchString(s.name) {
		return "." + s.name
	}
	return "['" + quoteEsc.Replace(s.name) + "']"
}

// A Path is a sequence of steps from the root of a value to one of its
// descendants. The empty path denotes the root.
type Path []Step

// String renders p in the syntax accepted by ParsePath, for example
// $.users[0]['display name'].
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range p {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Append returns a new path consisting of p followed by s.
// It does not modify p.
func (p Path) Append(s ...Step) Path {
	return append(slices.Clip(p), s...)
}

// Equal reports whether p and q denote the same path.
func (p Path) Equal(q Path) bool { return slices.Equal(p, q) }

// ParsePath parses s as a path in the syntax produced by Path.String.
func ParsePath(s string) (Path, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var p Path
	for rest != "" {
		step, tail, err := parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(rest), err)
		}
		p = append(p, step)
		rest = tail
	}
	return p, nil
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		m := wordRE.FindString(t)
		if m == "" {
			return Step{}, s, errors.New("invalid .name")
		}
		return Key(m), t[len(m):], nil
	}
	t, ok := strings.CutPrefix(s, "[")
	if !ok {
		return Step{}, s, errors.New("invalid path step")
	}
	if u, ok := strings.CutPrefix(t, "'"); ok {
		name, tail, err := parseQuoted(u)
		if err != nil {
			return Step{}, s, err
		}
		tail, ok := strings.CutPrefix(tail, "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		return Key(name), tail, nil
	}
	m := indexRE.FindString(t)
	if m == "" {
		return Step{}, s, fmt.Errorf("invalid index: %q", t)
	}
	tail, ok := strings.CutPrefix(t[len(m):], "]")
	if !ok {
		return Step{}, s, errors.New("missing close bracket")
	}
	i, err := strconv.Atoi(m)
	if err != nil {
		return Step{}, s, fmt.Errorf("invalid index: %w", err)
	}
	return Index(i), tail, nil
}

// parseQuoted consumes a quoted name up to and including its closing quote.
func parseQuoted(s string) (name, rest string, _ error) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			return sb.String(), s[i+1:], nil
		case '\\':
			if i+1 == len(s) {
				return "", s, errors.New("incomplete escape")
			}
			i++
			sb.WriteByte(s[i])
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", s, errors.New("unterminated quoted name")
}

var (
	nameRE   = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	wordRE   = regexp.MustCompile(`^[A-Za-z_]\w*`)
	indexRE  = regexp.MustCompile(`^\d+`)
	quoteEsc = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)
