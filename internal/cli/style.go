// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/creachadair/jsonpro/highlight"
	"github.com/creachadair/jsonpro/tree"
	"github.com/muesli/termenv"
)

// Colours of the dark editor theme.
var (
	colorKey     = lipgloss.Color("#9cdcfe")
	colorString  = lipgloss.Color("#ce9178")
	colorNumber  = lipgloss.Color("#b5cea8")
	colorKeyword = lipgloss.Color("#569cd6") // true, false, null
	colorBracket = lipgloss.Color("#ffd700")
	colorComment = lipgloss.Color("#6a9955")
	colorMuted   = lipgloss.Color("#808080")
	colorGood    = lipgloss.Color("#50fa7b")
	colorBad     = lipgloss.Color("#ff5555")
)

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconExpanded = "▾"
	iconFolded   = "▸"
)

// theme holds the styles for one output stream.
type theme struct {
	class map[highlight.Class]lipgloss.Style
	kind  map[tree.Type]lipgloss.Style
	key   lipgloss.Style
	muted lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
}

// newTheme returns styles rendering to w, with or without colour.
func newTheme(w io.Writer, color bool) *theme {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c).TabWidth(lipgloss.NoTabConversion)
	}

	return &theme{
		class: map[highlight.Class]lipgloss.Style{
			highlight.Key:     fg(colorKey),
			highlight.String:  fg(colorString),
			highlight.Number:  fg(colorNumber),
			highlight.Boolean: fg(colorKeyword),
			highlight.Null:    fg(colorKeyword),
			highlight.Bracket: fg(colorBracket),
			highlight.Comment: fg(colorComment).Italic(true),
		},
		kind: map[tree.Type]lipgloss.Style{
			tree.Object:  fg(colorMuted),
			tree.Array:   fg(colorMuted),
			tree.String:  fg(colorString),
			tree.Number:  fg(colorNumber),
			tree.Boolean: fg(colorKeyword),
			tree.Null:    fg(colorKeyword),
		},
		key:   fg(colorKey),
		muted: fg(colorMuted),
		good:  fg(colorGood),
		bad:   fg(colorBad).Bold(true),
	}
}

// paint renders s with st one line at a time, so that the lines of a
// multi-line span are not padded to a common width.
func paint(st lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = st.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
