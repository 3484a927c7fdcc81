// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package highlight classifies the tokens of JSON source text for syntax
// colouring.
//
// Classification is lexical: it does not require the text to be a valid JSON
// value, so a host can colour a buffer while it is being edited. Comments are
// recognized even though they are not part of standard JSON.
package highlight

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jsonpro"
)

// Class is the syntactic class of a span.
type Class byte

// Constants defining the valid Class values.
const (
	Key     Class = iota + 1 // object member key
	String                   // string value
	Number                   // integer or floating-point literal
	Boolean                  // true or false
	Null                     // null
	Bracket                  // one of { } [ ]
	Comment                  // line or block comment
)

var classStr = [...]string{
	Key:     "key",
	String:  "string",
	Number:  "number",
	Boolean: "boolean",
	Null:    "null",
	Bracket: "bracket",
	Comment: "comment",
}

func (c Class) String() string {
	if c > 0 && int(c) < len(classStr) {
		return classStr[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// A Span is a classified range of source text.
type Span struct {
	Start int // byte offset of the first byte, 0-based
	End   int // byte offset after the last byte
	Class Class
}

func (s Span) String() string { return fmt.Sprintf("%v[%d:%d]", s.Class, s.Start, s.End) }

// Spans returns the classified spans of text in source order. Commas, colons
// and whitespace are not reported. A string is classified as a Key if the next
// token after it, ignoring comments, is a colon.
//
// Text that is not a valid token, such as a misspelled constant or a string
// with a bad escape, is not classified, and scanning resumes after it.
func Spans(text string) []Span {
	c := classifier{text: text, lastString: -1}
	for pos := 0; pos < len(text); {
		pos = c.scan(pos)
	}
	return c.out
}

type classifier struct {
	text       string
	out        []Span
	lastString int // index in out of a string that may be a key
}

// scan classifies the tokens of c.text starting at offset base. It returns
// len(c.text) at the end of input, or the offset at which to resume after a
// lexical error.
func (c *classifier) scan(base int) int {
	sc := jsonpro.NewScanner(strings.NewReader(c.text[base:]))
	sc.AllowComments(true)

	for sc.Next() {
		sp := sc.Span()
		start, end := base+sp.Pos, base+sp.End
		var cls Class
		switch tok := sc.Token(); tok {
		case jsonpro.String:
			cls = String
		case jsonpro.Integer, jsonpro.Number:
			cls = Number
		case jsonpro.True, jsonpro.False:
			cls = Boolean
		case jsonpro.Null:
			cls = Null
		case jsonpro.LBrace, jsonpro.RBrace, jsonpro.LSquare, jsonpro.RSquare:
			cls = Bracket
		case jsonpro.LineComment, jsonpro.BlockComment:
			if strings.HasSuffix(c.text[:end], "\n") {
				end-- // the line break is not part of the comment
			}
			c.out = append(c.out, Span{Start: start, End: end, Class: Comment})
			continue
		case jsonpro.Colon:
			if c.lastString >= 0 {
				c.out[c.lastString].Class = Key
			}
			c.lastString = -1
			continue
		default:
			c.lastString = -1
			continue
		}
		if cls == String {
			c.lastString = len(c.out)
		} else {
			c.lastString = -1
		}
		c.out = append(c.out, Span{Start: start, End: end, Class: cls})
	}
	if sc.Err() == io.EOF {
		return len(c.text)
	}

	// Skip the bad token. A broken string extends to its closing quote, so
	// that its contents are not scanned as tokens.
	c.lastString = -1
	sp := sc.Span()
	start, next := base+sp.Pos, base+sp.End
	if start < len(c.text) && c.text[start] == '"' {
		next = max(next, stringEnd(c.text, start))
	}
	if next <= start {
		_, size := utf8.DecodeRuneInString(c.text[start:])
		next = start + size
	}
	for next < len(c.text) && !canStart(c.text[next]) {
		next++
	}
	return min(next, len(c.text))
}

// canStart reports whether b may begin a token or the space between tokens.
func canStart(b byte) bool { return strings.IndexByte(" \t\r\n{}[]:,\"-/0123456789tfn", b) >= 0 }

// stringEnd returns the offset just after the closing quote of the string
// literal beginning at text[start], or the offset of the end of its line if it
// is not closed.
func stringEnd(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		case '\n':
			return i
		}
	}
	return len(text)
}
