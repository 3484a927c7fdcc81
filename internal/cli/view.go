// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jsonpro/highlight"
	"github.com/creachadair/jsonpro/tree"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func (c *CLI) treeCommand() *cobra.Command {
	var (
		path  string
		depth int
		width int
	)
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the tree view of a JSON value",
		Long: `Tree prints one line per value, indented by depth. Containers show the
number of keys or items they hold, and scalars show their text. Containers
below the --depth limit are shown folded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := inputs(args)[0]
			_, doc, err := c.open(ctx, c.newWorkspace(ctx, false), name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			v, err := doc.Parse()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			p, err := tree.ParsePath(path)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", path, err)
			}
			opts := c.settings.TreeOptions()
			top, err := tree.Find(v, p, opts)
			if err != nil {
				return err
			}
			tw := treeWriter{w: c.Stdout, th: c.theme, base: top.Depth, width: width}
			var walk func(n tree.Node)
			walk = func(n tree.Node) {
				open := n.Expandable && (depth < 0 || n.Depth-top.Depth < depth)
				tw.write(n, open)
				if open {
					for _, kid := range tree.Expand(n.Children, opts) {
						walk(kid)
					}
				}
			}
			walk(top)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "$", "path of the value to show")
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "levels to expand (negative for all)")
	cmd.Flags().IntVar(&width, "width", 0, "maximum line width in columns (0 for no limit)")
	return cmd
}

// treeWriter prints tree nodes, one per line.
type treeWriter struct {
	w     io.Writer
	th    *theme
	base  int // depth of the first node
	width int // if positive, lines are cut to fit
}

func (tw treeWriter) write(n tree.Node, open bool) {
	var icon string
	switch {
	case open:
		icon = iconExpanded + " "
	case n.Expandable:
		icon = iconFolded + " "
	default:
		icon = "  "
	}
	indent := strings.Repeat("  ", n.Depth-tw.base)
	head := indent + icon

	var label string
	if k, ok := n.Key.GetOK(); ok {
		label = k + ": "
	} else if n.Index >= 0 {
		label = fmt.Sprintf("[%d]: ", n.Index)
	}

	sum := n.Summary
	if tw.width > 0 {
		room := tw.width - runewidth.StringWidth(head+label)
		if room < 1 {
			fmt.Fprintln(tw.w, runewidth.Truncate(head+label, tw.width, tree.Ellipsis))
			return
		}
		sum = runewidth.Truncate(sum, room, tree.Ellipsis)
	}
	fmt.Fprintln(tw.w, indent+paint(tw.th.muted, icon)+paint(tw.th.key, label)+paint(tw.th.kind[n.Type], sum))
}

func (c *CLI) highlightCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print JSON source with syntax colouring",
		Long: `Highlight prints its input with keys, strings, numbers, constants, brackets
and comments coloured. The input need not be valid; colouring stops at the
first lexical error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := inputs(args)[0]
			_, doc, err := c.open(ctx, c.newWorkspace(ctx, true), name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			text := doc.Text()
			var sb strings.Builder
			last := 0
			for _, s := range highlight.Spans(text) {
				sb.WriteString(text[last:s.Start])
				sb.WriteString(paint(c.theme.class[s.Class], text[s.Start:s.End]))
				last = s.End
			}
			sb.WriteString(text[last:])
			if !strings.HasSuffix(text, "\n") {
				sb.WriteByte('\n')
			}
			_, err = io.WriteString(c.Stdout, sb.String())
			return err
		},
	}
}
