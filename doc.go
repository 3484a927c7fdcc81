// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonpro implements the lexical and syntactic layer of a JSON
// editor: a scanner that tracks line and column positions, and an
// event-driven stream parser whose errors carry the location of the
// offending token.
//
// Higher layers live in subpackages: package ast builds immutable syntax
// trees, package document tracks the parse state of one editor buffer,
// package tree projects a value into display nodes, package highlight
// classifies source text for colouring, and package workspace manages a set
// of open buffers.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream:
//
//	s := jsonpro.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v at %v", s.Token(), s.Location())
//	}
//
// When Next returns false, Err reports io.EOF if the input was fully
// consumed. Any other error indicates an I/O or lexical error in the input.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON.  The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jsonpro.SyntaxError is returned.
//
//	s := jsonpro.NewStream(input)
//	if err := s.ParseSingle(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// ParseSingle requires the input to contain exactly one value. To consume a
// sequence of values, call Parse, or ParseOne repeatedly until it reports
// io.EOF.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The Anchor passed to a handler method is only valid
// for the duration of that method call; the handler must copy any data it
// needs to retain beyond the lifetime of the call.
package jsonpro
