// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// A Position is a human-readable location in the text of a document.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in Unicode code points
}

func (p Position) String() string { return fmt.Sprintf("Line %d, Col %d", p.Line, p.Column) }

// PositionOf returns the position of the given byte offset in text. Offsets
// outside the text are clamped to its bounds. An offset inside a multi-byte
// code point is attributed to the start of that code point.
func PositionOf(text string, offset int) Position {
	offset = max(0, min(offset, len(text)))
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	head := text[:offset]
	line := strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}
	return Position{Line: line, Column: utf8.RuneCountInString(head) + 1}
}

// A ParseError reports a failure to parse the text of a document. It is the
// only kind of error reported by the Parse, Format, Minify and Validate
// methods of a Document.
type ParseError struct {
	Line    int    // 1-based
	Column  int    // 1-based, counted in Unicode code points
	Offset  int    // byte offset in the text, 0-based
	Message string // description of the error

	err error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Unwrap supports error wrapping. The underlying error, if any, is the
// *jsonpro.SyntaxError reported by the parser.
func (e *ParseError) Unwrap() error { return e.err }

// Position returns the line and column of e.
func (e *ParseError) Position() Position { return Position{Line: e.Line, Column: e.Column} }

func newParseError(text string, offset int, msg string, err error) *ParseError {
	pos := PositionOf(text, offset)
	return &ParseError{
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  max(0, min(offset, len(text))),
		Message: msg,
		err:     err,
	}
}
