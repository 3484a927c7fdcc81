// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package document implements the model of a single JSON text buffer, as
// edited in one tab of an editor.
//
// A Document holds the raw text of the buffer, the value from the most recent
// parse attempt, and the error from the most recent failure. Parsing is never
// automatic: the host calls SetText as the text changes, and decides when to
// call Parse (for example, after a pause in typing).
//
// All failures to parse are reported as a *ParseError, which carries the
// 1-based line and column of the failure:
//
//	d := document.New(nil)
//	d.SetText(`{"a": 1, "b": }`)
//	if _, err := d.Parse(); err != nil {
//	   log.Print(err) // line 1, column 15: unexpected "}"
//	}
//
// A Document does not perform I/O. The host reads and writes files, and
// reports the result with Open and MarkSaved.
package document

import (
	"errors"
	"strings"

	"github.com/creachadair/jsonpro"
	"github.com/creachadair/jsonpro/ast"
	"github.com/creachadair/mds/value"
	"github.com/tailscale/hujson"
)

// Options control the parsing of a Document. A nil *Options is ready for use
// and accepts only standard JSON.
type Options struct {
	// The maximum nesting depth of objects and arrays. Deeper input is
	// reported as a ParseError. If zero, jsonpro.DefaultMaxDepth is used.
	MaxDepth int

	// If true, accept comments and trailing commas (JWCC). The values
	// produced by Parse, Format and Minify do not include comments.
	AllowComments bool
}

func (o *Options) parser() ast.Parser {
	if o == nil {
		return ast.Parser{}
	}
	return ast.Parser{
		AllowComments:       o.AllowComments,
		AllowTrailingCommas: o.AllowComments,
		MaxDepth:            o.MaxDepth,
	}
}

// A Document is the text and parse state of a single buffer.
// A Document is not safe for concurrent use without external synchronization.
type Document struct {
	opts Options
	text string

	parsed   ast.Value   // from the latest parse, if it succeeded
	lastGood ast.Value   // from the latest successful parse
	lastErr  *ParseError // from the latest parse, if it failed

	path  value.Maybe[string] // file path, if any
	saved string              // text as last read from or written to path
}

// New constructs a new empty Document with no file path.
// A new Document is dirty until it is saved.
func New(opts *Options) *Document {
	d := new(Document)
	if opts != nil {
		d.opts = *opts
	}
	return d
}

// Open constructs a Document for the given text, read by the host from the
// file at path. The document is initially clean. Open does not parse text.
func Open(path, text string, opts *Options) *Document {
	d := New(opts)
	d.text = text
	d.path = value.Just(path)
	d.saved = text
	return d
}

// Text returns the current text of d.
func (d *Document) Text() string { return d.text }

// SetText replaces the text of d. It does not parse the new text.
func (d *Document) SetText(text string) { d.text = text }

// Path returns the file path associated with d, if any.
func (d *Document) Path() value.Maybe[string] { return d.path }

// Dirty reports whether d has unsaved changes: either it has no file path, or
// its text differs from the text last read from or written to its file.
func (d *Document) Dirty() bool {
	return !d.path.Present() || d.text != d.saved
}

// Blank reports whether d is an empty buffer with no file path.
func (d *Document) Blank() bool { return !d.path.Present() && d.text == "" }

// MarkSaved records that the host has written the current text of d to the
// file at path. Afterward d is clean, and path is its file path.
func (d *Document) MarkSaved(path string) {
	d.path = value.Just(path)
	d.saved = d.text
}

// Parse parses the text of d as a single JSON value.
//
// On success, Parse returns the value, which becomes both the current and the
// last good value of d, and the last error is cleared.
//
// On failure, Parse returns a *ParseError, which becomes the last error of d.
// The current value is cleared, but the last good value is retained, so that
// a host can continue to display it while the text is being edited. Values
// returned by earlier calls are never modified.
func (d *Document) Parse() (ast.Value, error) {
	v, err := d.opts.parser().ParseSingle(strings.NewReader(d.text))
	if err != nil {
		d.parsed = nil
		d.lastErr = d.parseError(err)
		return nil, d.lastErr
	}
	d.parsed, d.lastGood, d.lastErr = v, v, nil
	return v, nil
}

func (d *Document) parseError(err error) *ParseError {
	var serr *jsonpro.SyntaxError
	if errors.As(err, &serr) {
		return newParseError(d.text, serr.Offset, serr.Message, serr)
	}
	return newParseError(d.text, len(d.text), err.Error(), err)
}

// Parsed returns the value from the most recent call to Parse, or nil if that
// call failed or Parse has not been called.
func (d *Document) Parsed() ast.Value { return d.parsed }

// LastGood returns the value from the most recent successful call to Parse,
// or nil if no call to Parse has succeeded.
func (d *Document) LastGood() ast.Value { return d.lastGood }

// LastError returns the error from the most recent call to Parse, or nil if
// that call succeeded or Parse has not been called.
func (d *Document) LastError() *ParseError { return d.lastErr }

// Format parses the text of d and returns it re-serialized with indent spaces
// per level of nesting. A negative indent is treated as zero. Object members
// are written in source order, and numbers and strings exactly as they were
// written in the source. The result has no trailing newline.
//
// If the text is not valid, Format reports the same error as Parse. Format
// does not modify the text of d.
func (d *Document) Format(indent int) (string, error) {
	v, err := d.Parse()
	if err != nil {
		return "", err
	}
	return ast.Formatter{Indent: indent}.FormatString(v), nil
}

// Minify parses the text of d and returns it re-serialized with no
// insignificant whitespace. If the text is not valid, Minify reports the same
// error as Parse. Minify does not modify the text of d.
func (d *Document) Minify() (string, error) {
	v, err := d.Parse()
	if err != nil {
		return "", err
	}
	return v.JSON(), nil
}

// Validation is the result of validating the text of a document.
type Validation struct {
	Valid bool
	Err   *ParseError // nil if Valid
}

// Validate parses the text of d and reports whether it is valid.
func (d *Document) Validate() Validation {
	if _, err := d.Parse(); err != nil {
		return Validation{Err: d.lastErr}
	}
	return Validation{Valid: true}
}

// CheckSave reports a *ParseError if the text of d is not valid and should
// not be saved, or nil if it may be saved.
func (d *Document) CheckSave() error {
	_, err := d.Parse()
	return err
}

// Standardize returns the text of d with comments and trailing commas
// removed, so that it is standard JSON. Removed text is replaced by spaces, so
// the byte offsets of the remaining text are unchanged.
//
// Comments are accepted regardless of the options of d. If the text is not
// valid even with comments, Standardize reports the error as a *ParseError.
// Standardize does not modify the text of d.
func (d *Document) Standardize() (string, error) {
	p := d.opts.parser()
	p.AllowComments, p.AllowTrailingCommas = true, true
	if _, err := p.ParseSingle(strings.NewReader(d.text)); err != nil {
		return "", d.parseError(err)
	}
	out, err := hujson.Standardize([]byte(d.text))
	if err != nil {
		return "", newParseError(d.text, 0, err.Error(), err)
	}
	return string(out), nil
}

// Position returns the line and column of the given byte offset in the text
// of d, for example the position of a cursor.
func (d *Document) Position(offset int) Position { return PositionOf(d.text, offset) }
