// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/creachadair/jsonpro/document"
	"github.com/creachadair/jsonpro/workspace"
	"github.com/spf13/cobra"
)

// stdinName is the argument denoting standard input.
const stdinName = "-"

// inputs returns the input names for args, standard input if there are none.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}

// newWorkspace returns a workspace configured by the current settings.
func (c *CLI) newWorkspace(ctx context.Context, openInvalid bool) *workspace.Workspace {
	opts := c.settings.WorkspaceOptions()
	opts.Logger = loggerFromContext(ctx)
	opts.OpenInvalid = opts.OpenInvalid || openInvalid
	return workspace.New(c.store(), opts)
}

// open opens the named input in a tab of ws and returns its document.
func (c *CLI) open(ctx context.Context, ws *workspace.Workspace, name string) (workspace.TabID, *document.Document, error) {
	var id workspace.TabID
	if name == stdinName {
		data, err := io.ReadAll(c.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		id = ws.NewTab()
		if err := ws.Rename(id, "<stdin>"); err != nil {
			return "", nil, err
		}
		doc, _ := ws.Document(id)
		doc.SetText(string(data))
		return id, doc, nil
	}
	id, err := ws.Open(ctx, name)
	if err != nil {
		return "", nil, err
	}
	doc, err := ws.Document(id)
	return id, doc, err
}

// rewrite applies edit to each input named by args. The result is printed,
// or if write is true, saved back to the input file.
func (c *CLI) rewrite(cmd *cobra.Command, args []string, write bool, edit func(*document.Document) (string, error)) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	ws := c.newWorkspace(ctx, false)
	for _, name := range inputs(args) {
		id, doc, err := c.open(ctx, ws, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out, err := edit(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !write || name == stdinName {
			fmt.Fprintln(c.Stdout, out)
			continue
		}
		if out == doc.Text() {
			logger.Debug("unchanged", "path", name)
			continue
		}
		doc.SetText(out)
		if err := ws.Save(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Info("wrote", "path", name, "bytes", len(out))
	}
	return nil
}

func (c *CLI) formatCommand() *cobra.Command {
	var (
		indent int
		write  bool
	)
	cmd := &cobra.Command{
		Use:   "format [file ...]",
		Short: "Pretty-print JSON with one value per line",
		Long: `Format parses each input and prints it with one member or element per line,
indented by the configured number of spaces per level. Numbers and strings are
written exactly as they appear in the input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("indent") {
				indent = c.settings.IndentWidth
			}
			return c.rewrite(cmd, args, write, func(d *document.Document) (string, error) {
				return d.Format(indent)
			})
		},
	}
	cmd.Flags().IntVarP(&indent, "indent", "i", 2, "spaces per level of nesting")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to each file")
	return cmd
}

func (c *CLI) minifyCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "minify [file ...]",
		Short: "Remove insignificant whitespace from JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.rewrite(cmd, args, write, (*document.Document).Minify)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to each file")
	return cmd
}

func (c *CLI) standardizeCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "standardize [file ...]",
		Short: "Convert JSON with comments and trailing commas to standard JSON",
		Long: `Standardize replaces comments and trailing commas with spaces, so that the
result is standard JSON with all other text at the same offsets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.rewrite(cmd, args, write, (*document.Document).Standardize)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to each file")
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file ...]",
		Short: "Check that inputs are valid JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws := c.newWorkspace(ctx, true)
			names := inputs(args)
			var nbad int
			for _, name := range names {
				_, doc, err := c.open(ctx, ws, name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if v := doc.Validate(); v.Valid {
					fmt.Fprintf(c.Stdout, "%s %s: valid JSON\n", paint(c.theme.good, iconSuccess), name)
				} else {
					nbad++
					fmt.Fprintf(c.Stdout, "%s %s: %v\n", paint(c.theme.bad, iconError), name, v.Err)
				}
			}
			if nbad != 0 {
				return fmt.Errorf("%d of %d inputs are not valid JSON", nbad, len(names))
			}
			return nil
		},
	}
}
