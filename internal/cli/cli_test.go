// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/creachadair/jsonpro/document"
	"github.com/google/go-cmp/cmp"
)

// run executes the CLI with args, reading stdin, with colour disabled unless
// args say otherwise.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(strings.NewReader(stdin), &stdout, &stderr)
	if !strings.Contains(strings.Join(args, " "), "--color") {
		args = append(args, "--color", "never")
	}
	err := c.Run(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("Write %q: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read %q: %v", path, err)
	}
	return string(data)
}

func TestFormat(t *testing.T) {
	t.Run("Stdin", func(t *testing.T) {
		got, _, err := run(t, `[1,2,3]`, "format")
		if err != nil {
			t.Fatalf("format: unexpected error: %v", err)
		}
		if diff := cmp.Diff(got, "[\n  1,\n  2,\n  3\n]\n"); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
	})
	t.Run("Indent", func(t *testing.T) {
		path := writeFile(t, "in.json", `{"a":[true]}`)
		got, _, err := run(t, "", "format", "--indent", "4", path)
		if err != nil {
			t.Fatalf("format: unexpected error: %v", err)
		}
		const want = "{\n    \"a\": [\n        true\n    ]\n}\n"
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
	})
	t.Run("Write", func(t *testing.T) {
		path := writeFile(t, "in.json", `[1,2]`)
		got, _, err := run(t, "", "format", "-w", path)
		if err != nil {
			t.Fatalf("format -w: unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("format -w: got output %q, want none", got)
		}
		if diff := cmp.Diff(readFile(t, path), "[\n  1,\n  2\n]"); diff != "" {
			t.Errorf("File (-got, +want):\n%s", diff)
		}
	})
	t.Run("Invalid", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"a": 1, "b": }`)
		_, stderr, err := run(t, "", "format", path)
		var perr *document.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("format: got error %v, want *document.ParseError", err)
		}
		if perr.Line != 1 || perr.Column != 15 {
			t.Errorf("Error position: got %d:%d, want 1:15", perr.Line, perr.Column)
		}
		if !strings.Contains(stderr, "line 1, column 15") {
			t.Errorf("Stderr: got %q, want error location", stderr)
		}
		if got := readFile(t, path); got != `{"a": 1, "b": }` {
			t.Errorf("File was modified: %q", got)
		}
	})
	t.Run("Config", func(t *testing.T) {
		got, _, err := run(t, `[1]`, "format", "--config", "../../testdata/config.toml")
		if err != nil {
			t.Fatalf("format: unexpected error: %v", err)
		}
		if diff := cmp.Diff(got, "[\n    1\n]\n"); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
	})
}

func TestMinify(t *testing.T) {
	got, _, err := run(t, "{\n  \"a\": [1, 2.50],\n  \"b\": \"x y\"\n}\n", "minify")
	if err != nil {
		t.Fatalf("minify: unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, "{\"a\":[1,2.50],\"b\":\"x y\"}\n"); diff != "" {
		t.Errorf("Output (-got, +want):\n%s", diff)
	}
}

func TestStandardize(t *testing.T) {
	const input = `{"a": 1, /* c */ "b": [2,],}`
	got, _, err := run(t, input, "standardize")
	if err != nil {
		t.Fatalf("standardize: unexpected error: %v", err)
	}
	want := `{"a": 1,` + strings.Repeat(" ", 9) + `"b": [2 ] }` + "\n"
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Output (-got, +want):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.json", `{"ok": true}`)
	bad := writeFile(t, "bad.json", `{"a": 1, "b": }`)

	t.Run("Valid", func(t *testing.T) {
		got, _, err := run(t, "", "validate", good)
		if err != nil {
			t.Fatalf("validate: unexpected error: %v", err)
		}
		if want := "✓ " + good + ": valid JSON\n"; got != want {
			t.Errorf("Output: got %q, want %q", got, want)
		}
	})
	t.Run("Mixed", func(t *testing.T) {
		got, stderr, err := run(t, "", "validate", good, bad)
		if err == nil {
			t.Fatal("validate: got nil error, want failure")
		}
		if want := "1 of 2 inputs are not valid JSON"; err.Error() != want {
			t.Errorf("Error: got %q, want %q", err, want)
		}
		lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		want := []string{
			"✓ " + good + ": valid JSON",
			"✗ " + bad + `: line 1, column 15: unexpected "}"`,
		}
		if diff := cmp.Diff(lines, want); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
		if !strings.HasPrefix(stderr, "✗ ") {
			t.Errorf("Stderr: got %q, want error report", stderr)
		}
	})
	t.Run("Missing", func(t *testing.T) {
		_, _, err := run(t, "", "validate", filepath.Join(t.TempDir(), "nonesuch.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("validate: got error %v, want %v", err, os.ErrNotExist)
		}
	})
}

func TestTree(t *testing.T) {
	const input = `{"a": {"b": [1, "x"]}, "c": null}`
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"All", nil, []string{
			"▾ {2 keys}",
			"  ▾ a: {1 keys}",
			"    ▾ b: [2 items]",
			"        [0]: 1",
			"        [1]: x",
			"    c: null",
		}},
		{"Depth", []string{"--depth", "1"}, []string{
			"▾ {2 keys}",
			"  ▸ a: {1 keys}",
			"    c: null",
		}},
		{"DepthZero", []string{"-d", "0"}, []string{
			"▸ {2 keys}",
		}},
		{"Path", []string{"--path", "$.a"}, []string{
			"▾ a: {1 keys}",
			"  ▾ b: [2 items]",
			"      [0]: 1",
			"      [1]: x",
		}},
		{"Index", []string{"-p", "$.a.b[1]"}, []string{
			"  [1]: x",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := run(t, input, append([]string{"tree"}, tc.args...)...)
			if err != nil {
				t.Fatalf("tree: unexpected error: %v", err)
			}
			lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
			if diff := cmp.Diff(lines, tc.want); diff != "" {
				t.Errorf("Output (-got, +want):\n%s", diff)
			}
		})
	}

	t.Run("Width", func(t *testing.T) {
		got, _, err := run(t, `{"name": "abcdefghijklmnop"}`, "tree", "--width", "16")
		if err != nil {
			t.Fatalf("tree: unexpected error: %v", err)
		}
		const want = "▾ {1 keys}\n    name: abcde…\n"
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
	})
	t.Run("BadPath", func(t *testing.T) {
		_, _, err := run(t, input, "tree", "--path", "$.nonesuch")
		if err == nil {
			t.Error("tree: got nil error, want failure")
		}
	})
	t.Run("Invalid", func(t *testing.T) {
		_, _, err := run(t, `[1,`, "tree")
		var perr *document.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("tree: got error %v, want *document.ParseError", err)
		}
	})
}

func TestHighlight(t *testing.T) {
	const input = "{\"a\": [1, true, null] // note\n}"

	t.Run("Plain", func(t *testing.T) {
		got, _, err := run(t, input, "highlight", "--color", "never")
		if err != nil {
			t.Fatalf("highlight: unexpected error: %v", err)
		}
		if diff := cmp.Diff(got, input+"\n"); diff != "" {
			t.Errorf("Output (-got, +want):\n%s", diff)
		}
	})
	t.Run("Color", func(t *testing.T) {
		got, _, err := run(t, input, "highlight", "--color", "always")
		if err != nil {
			t.Fatalf("highlight: unexpected error: %v", err)
		}
		if !strings.Contains(got, "\x1b[") {
			t.Errorf("Output has no escape sequences: %q", got)
		}
		if n := strings.Count(got, "\n"); n != 2 {
			t.Errorf("Output has %d lines, want 2", n)
		}
	})
	t.Run("Invalid", func(t *testing.T) {
		const bad = `{"a": tru}`
		got, _, err := run(t, bad, "highlight")
		if err != nil {
			t.Fatalf("highlight: unexpected error: %v", err)
		}
		if got != bad+"\n" {
			t.Errorf("Output: got %q, want %q", got, bad+"\n")
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("BadFlag", func(t *testing.T) {
		_, _, err := run(t, `1`, "format", "--color", "purple")
		if err == nil || !strings.Contains(err.Error(), "invalid settings") {
			t.Errorf("format: got error %v, want invalid settings", err)
		}
	})
	t.Run("Comments", func(t *testing.T) {
		const input = "[1, // one\n 2,]"
		if _, _, err := run(t, input, "minify"); err == nil {
			t.Error("minify: got nil error without --comments")
		}
		got, _, err := run(t, input, "minify", "--comments")
		if err != nil {
			t.Fatalf("minify --comments: unexpected error: %v", err)
		}
		if got != "[1,2]\n" {
			t.Errorf("Output: got %q, want %q", got, "[1,2]\n")
		}
	})
	t.Run("MaxDepth", func(t *testing.T) {
		_, _, err := run(t, `[[[1]]]`, "minify", "--max-depth", "2")
		if err == nil || !strings.Contains(err.Error(), "nesting depth") {
			t.Errorf("minify: got error %v, want nesting depth error", err)
		}
	})
	t.Run("Verbose", func(t *testing.T) {
		_, stderr, err := run(t, `1`, "minify", "-v")
		if err != nil {
			t.Fatalf("minify: unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "settings") {
			t.Errorf("Stderr: got %q, want debug log", stderr)
		}
	})
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	if got := loggerFromContext(ctx); got != log.Default() {
		t.Errorf("loggerFromContext(empty): got %p, want default", got)
	}
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)
	if got := loggerFromContext(withLogger(ctx, logger)); got != logger {
		t.Errorf("loggerFromContext: got %p, want %p", got, logger)
	}
	logger.Debug("hello", "n", 1)
	if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "jsonpro") {
		t.Errorf("Log output: got %q", buf.String())
	}
}
