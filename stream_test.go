// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonpro_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jsonpro"
	"github.com/google/go-cmp/cmp"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Value true <true>
Value false <false>
Value null <null>
.`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0>
Value integer <5>
Value number <-6.32>
Value number <0.1e-2>
.`},

		{`"" "a b c" "a\tb" "a\u0020b"`, `
Value string <"">
Value string <"a b c">
Value string <"a\tb">
Value string <"a\u0020b">
.`},

		{`{}`, "BeginObject\nEndObject\n."},

		{`{"a":15}`, `
BeginObject
BeginMember <"a">
Value integer <15>
EndMember "}"
EndObject
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember <"x">
Value null <null>
EndMember ","
BeginMember <"y">
BeginArray
Value true <true>
EndArray
EndMember "}"
EndObject
.`},

		{`[]`, "BeginArray\nEndArray\n."},
	}

	for _, test := range tests {
		st := jsonpro.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(th.output(), test.want); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-got, +want)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject`,
			`at 1:1: expected "}" or string, got end of input`},
		{`}`, ``, `at 1:0: unexpected "}"`},
		{`{false:1}`, `BeginObject`,
			`at 1:1: expected "}" or string, got false`},
		{`{"true":}`, `
BeginObject
BeginMember <"true">`,
			`at 1:8: unexpected "}"`},
		{`{"true":1,`, `
BeginObject
BeginMember <"true">
Value integer <1>
EndMember ","`,
			`at 1:10: expected string, got end of input`},
		{`{"a" 1}`, `
BeginObject
BeginMember <"a">`,
			`at 1:5: expected ":", got integer`},

		// Unbalanced array bits.
		{`[`, `BeginArray`,
			`at 1:1: expected value, got end of input`},
		{`]`, ``, `at 1:0: unexpected "]"`},
		{`[15,`, `
BeginArray
Value integer <15>`,
			`at 1:4: expected value, got end of input`},
		{`[15,]`, `
BeginArray
Value integer <15>`,
			`at 1:4: unexpected "]"`},
		{`[1 2]`, `
BeginArray
Value integer <1>`,
			`at 1:3: expected "]" or ",", got integer`},

		// Invalid values.
		{`1 2.0 forthright`, `
Value integer <1>
Value number <2.0>`,
			`at 1:6: unknown constant "forthright"`},
		{`"what did you`, ``,
			`at 1:0: unterminated string`},
		{"[\n  1,\n  01\n]", `
BeginArray
Value integer <1>`,
			`at 3:2: extra leading zeroes`},
	}

	for _, test := range tests {
		st := jsonpro.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}
		var serr *jsonpro.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got error %T, want *SyntaxError", test.input, err)
		}

		if diff := diffStrings(th.output(), test.want); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-got, +want)\n%s", test.input, diff)
		}
		if diff := diffStrings(err.Error(), test.estr); diff != "" {
			t.Errorf("Input: %#q\nError: (-got, +want)\n%s", test.input, diff)
		}
	}
}

func TestSyntaxErrorOffset(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		line   int
		column int
	}{
		{`{"a": 1, "b": }`, 14, 1, 14},
		{"{\n  \"a\": tru\n}", 9, 2, 7},
		{"[1,\n2,\n", 7, 3, 0},
		{`  "é" x`, 7, 1, 7},
	}
	for _, test := range tests {
		err := jsonpro.NewStream(strings.NewReader(test.input)).ParseSingle(new(testHandler))
		var serr *jsonpro.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input %#q: got error %v, want *SyntaxError", test.input, err)
			continue
		}
		if serr.Offset != test.offset {
			t.Errorf("Input %#q: offset is %d, want %d", test.input, serr.Offset, test.offset)
		}
		want := jsonpro.LineCol{Line: test.line, Column: test.column}
		if serr.Location != want {
			t.Errorf("Input %#q: location is %v, want %v", test.input, serr.Location, want)
		}
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject
BeginMember <"love">
Value true <true>
EndMember "}"
EndObject
---
BeginArray
EndArray
---
Value string <"ok">
---
.`
	th := new(testHandler)

	st := jsonpro.NewStream(strings.NewReader(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(th.output(), want); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-got, +want)\n%s", input, diff)
	}
}

func TestParseSingle(t *testing.T) {
	tests := []struct {
		input string
		estr  string // "" means success
	}{
		{`true`, ""},
		{`  {"a": [1, 2]}  `, ""},
		{"[]\n\n", ""},
		{``, `at 1:0: empty input`},
		{"  \n ", `at 2:1: empty input`},
		{`1 2`, `at 1:2: extra data after value`},
		{`{} x`, `at 1:3: unexpected 'x'`},
		{`[] ]`, `at 1:3: extra data after value`},
	}
	for _, test := range tests {
		err := jsonpro.NewStream(strings.NewReader(test.input)).ParseSingle(new(testHandler))
		if test.estr == "" {
			if err != nil {
				t.Errorf("ParseSingle(%#q): unexpected error: %v", test.input, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("ParseSingle(%#q): got nil, want %q", test.input, test.estr)
		} else if got := err.Error(); got != test.estr {
			t.Errorf("ParseSingle(%#q): got %q, want %q", test.input, got, test.estr)
		}
	}
}

func TestStreamOptions(t *testing.T) {
	t.Run("TrailingCommas", func(t *testing.T) {
		for _, input := range []string{`[1,2,]`, `{"a":1,}`, `[[],{},]`} {
			st := jsonpro.NewStream(strings.NewReader(input))
			if err := st.ParseSingle(new(testHandler)); err == nil {
				t.Errorf("ParseSingle(%#q): got nil, want error", input)
			}

			st = jsonpro.NewStream(strings.NewReader(input))
			st.AllowTrailingCommas(true)
			if err := st.ParseSingle(new(testHandler)); err != nil {
				t.Errorf("ParseSingle(%#q): unexpected error: %v", input, err)
			}
		}
	})

	t.Run("Comments", func(t *testing.T) {
		const input = "// lead\n[1, /* two */ 2]\n"
		th := new(commentHandler)
		st := jsonpro.NewStream(strings.NewReader(input))
		st.AllowComments(true)
		if err := st.ParseSingle(th); err != nil {
			t.Fatalf("ParseSingle: unexpected error: %v", err)
		}
		if diff := cmp.Diff(th.comments, []string{"// lead\n", "/* two */"}); diff != "" {
			t.Errorf("Comments (-got, +want):\n%s", diff)
		}
	})

	t.Run("MaxDepth", func(t *testing.T) {
		st := jsonpro.NewStream(strings.NewReader(`[[{"a":[]}]]`))
		st.SetMaxDepth(3)
		err := st.ParseSingle(new(testHandler))
		if err == nil || err.Error() != `at 1:7: nesting depth exceeds 3` {
			t.Errorf("ParseSingle: got %v, want depth error", err)
		}

		st = jsonpro.NewStream(strings.NewReader(`[[{"a":[]}]]`))
		st.SetMaxDepth(4)
		if err := st.ParseSingle(new(testHandler)); err != nil {
			t.Errorf("ParseSingle: unexpected error: %v", err)
		}
	})

	t.Run("DeepDefault", func(t *testing.T) {
		deep := strings.Repeat("[", jsonpro.DefaultMaxDepth+1) + strings.Repeat("]", jsonpro.DefaultMaxDepth+1)
		err := jsonpro.NewStream(strings.NewReader(deep)).ParseSingle(new(testHandler))
		var serr *jsonpro.SyntaxError
		if !errors.As(err, &serr) {
			t.Fatalf("ParseSingle: got %v, want *SyntaxError", err)
		}
		if serr.Offset != jsonpro.DefaultMaxDepth {
			t.Errorf("Error offset: got %d, want %d", serr.Offset, jsonpro.DefaultMaxDepth)
		}
	})
}

func TestHandlerError(t *testing.T) {
	errStop := errors.New("stop here")
	h := &failHandler{err: errStop}
	err := jsonpro.NewStream(strings.NewReader(`[1, 2, 3]`)).Parse(h)
	if !errors.Is(err, errStop) {
		t.Errorf("Parse: got %v, want %v", err, errStop)
	}
	var serr *jsonpro.SyntaxError
	if errors.As(err, &serr) {
		t.Errorf("Parse: handler error reported as syntax error: %v", serr)
	}
}

func diffStrings(got, want string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(got), "\n"),
		strings.Split(strings.TrimSpace(want), "\n"))
}

type testHandler struct {
	buf bytes.Buffer
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc jsonpro.Anchor) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(loc jsonpro.Anchor) error   { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(loc jsonpro.Anchor) error  { t.pr("BeginArray"); return nil }
func (t *testHandler) EndArray(loc jsonpro.Anchor) error    { t.pr("EndArray"); return nil }
func (t *testHandler) EndOfInput(loc jsonpro.Anchor)        { t.pr(".") }

func (t *testHandler) BeginMember(loc jsonpro.Anchor) error {
	t.pr("BeginMember <%s>", string(loc.Text()))
	return nil
}

func (t *testHandler) EndMember(loc jsonpro.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc jsonpro.Anchor) error {
	t.pr(`Value %s <%s>`, loc.Token(), string(loc.Text()))
	return nil
}

type commentHandler struct {
	testHandler
	comments []string
}

func (c *commentHandler) Comment(loc jsonpro.Anchor) { c.comments = append(c.comments, string(loc.Copy())) }

// failHandler reports err for the second value it sees.
type failHandler struct {
	testHandler
	err    error
	values int
}

func (f *failHandler) Value(loc jsonpro.Anchor) error {
	f.values++
	if f.values == 2 {
		return f.err
	}
	return nil
}
