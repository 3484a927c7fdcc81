// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package highlight_test

import (
	"testing"

	"github.com/creachadair/jsonpro/highlight"
	"github.com/google/go-cmp/cmp"
)

// tok is a span rendered as its class and text, for readable diffs.
type tok struct {
	Class string
	Text  string
}

func render(text string, spans []highlight.Span) []tok {
	var out []tok
	for _, s := range spans {
		out = append(out, tok{s.Class.String(), text[s.Start:s.End]})
	}
	return out
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{"Empty", "", nil},
		{"Blank", " \n\t ", nil},
		{"Scalar", `  -1.5e3 `, []tok{{"number", "-1.5e3"}}},
		{"Constants", `[true, false, null]`, []tok{
			{"bracket", "["}, {"boolean", "true"}, {"boolean", "false"},
			{"null", "null"}, {"bracket", "]"},
		}},
		{"Object", `{"a": "b", "c": [1, {"d": 0}]}`, []tok{
			{"bracket", "{"}, {"key", `"a"`}, {"string", `"b"`},
			{"key", `"c"`}, {"bracket", "["}, {"number", "1"},
			{"bracket", "{"}, {"key", `"d"`}, {"number", "0"},
			{"bracket", "}"}, {"bracket", "]"}, {"bracket", "}"},
		}},
		{"KeyAcrossLines", "{\"k\"\n  :\n  \"v\"}", []tok{
			{"bracket", "{"}, {"key", `"k"`}, {"string", `"v"`}, {"bracket", "}"},
		}},
		{"StringsInArray", `["a", "b"]`, []tok{
			{"bracket", "["}, {"string", `"a"`}, {"string", `"b"`}, {"bracket", "]"},
		}},
		{"Comments", "// head\n{\"k\" /* c */ : 1}", []tok{
			{"comment", "// head"}, {"bracket", "{"}, {"key", `"k"`},
			{"comment", "/* c */"}, {"number", "1"}, {"bracket", "}"},
		}},
		{"TrailingLineComment", "1 // done", []tok{
			{"number", "1"}, {"comment", "// done"},
		}},

		// Structure is not checked, only lexical form.
		{"Unbalanced", `}}"x":`, []tok{
			{"bracket", "}"}, {"bracket", "}"}, {"key", `"x"`},
		}},

		// Bad tokens are skipped and the rest of the text is classified.
		{"BadConstant", `{"a": tru, "b": 2}`, []tok{
			{"bracket", "{"}, {"key", `"a"`}, {"key", `"b"`}, {"number", "2"}, {"bracket", "}"},
		}},
		{"EarlyTypo", `{"a": tru, "b": 1, "c": null}`, []tok{
			{"bracket", "{"}, {"key", `"a"`}, {"key", `"b"`}, {"number", "1"},
			{"key", `"c"`}, {"null", "null"}, {"bracket", "}"},
		}},
		{"BadEscape", `{"a": "x\q", "b": 1}`, []tok{
			{"bracket", "{"}, {"key", `"a"`}, {"key", `"b"`}, {"number", "1"}, {"bracket", "}"},
		}},
		{"BadNumber", `{"a": 01, "b": true}`, []tok{
			{"bracket", "{"}, {"key", `"a"`}, {"key", `"b"`}, {"boolean", "true"}, {"bracket", "}"},
		}},
		{"StrayText", `[xyz, 1, é!]`, []tok{
			{"bracket", "["}, {"number", "1"}, {"bracket", "]"},
		}},
		{"InvalidUTF8", "[\"\xff\", 3]", []tok{
			{"bracket", "["}, {"number", "3"}, {"bracket", "]"},
		}},
		{"Unterminated", `["ok", "no`, []tok{
			{"bracket", "["}, {"string", `"ok"`},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := render(tc.input, highlight.Spans(tc.input))
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Spans %#q (-got, +want):\n%s", tc.input, diff)
			}
		})
	}
}

func TestSpanOffsets(t *testing.T) {
	const input = `{"é": "ü"}`
	got := highlight.Spans(input)
	want := []highlight.Span{
		{Start: 0, End: 1, Class: highlight.Bracket},
		{Start: 1, End: 5, Class: highlight.Key},
		{Start: 7, End: 11, Class: highlight.String},
		{Start: 11, End: 12, Class: highlight.Bracket},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Spans (-got, +want):\n%s", diff)
	}
}

func TestClassString(t *testing.T) {
	tests := map[highlight.Class]string{
		highlight.Key: "key", highlight.Comment: "comment", highlight.Bracket: "bracket",
		0: "Class(0)", 99: "Class(99)",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("String(%d): got %q, want %q", c, got, want)
		}
	}
}
