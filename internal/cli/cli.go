// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cli implements the jsonpro command-line interface.
//
// The CLI is a thin host for the editor core: each command opens its inputs
// as tabs of a workspace, applies one document operation, and prints or saves
// the result, as a GUI host would in response to a menu action.
//
// # Commands
//
//   - format: pretty-print with a configurable indent
//   - minify: remove insignificant whitespace
//   - validate: report whether inputs are valid, with line and column
//   - tree: print the tree view of a value
//   - highlight: print source text with syntax colouring
//   - standardize: strip comments and trailing commas
//
// # Settings
//
// Settings are read from the file named by --config, or else from the first
// of .jsonpro.toml, .jsonpro.yaml or .jsonpro.yml found in the working
// directory or its ancestors. Flags override file settings.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed to commands through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/creachadair/jsonpro/config"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// CLI holds the state shared by all commands.
type CLI struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Whether Stdout is a terminal, for the "auto" colour mode.
	IsTerminal bool

	// The store used to read and write files. If nil, the local file system
	// is used.
	Store FileStore

	settings config.Settings
	theme    *theme
}

// New constructs a CLI that reads and writes the given streams.
func New(stdin io.Reader, stdout, stderr io.Writer) *CLI {
	return &CLI{Stdin: stdin, Stdout: stdout, Stderr: stderr, settings: config.Default()}
}

// Execute runs the CLI with the process arguments and standard streams.
func Execute(ctx context.Context) error {
	fd := os.Stdout.Fd()
	c := New(os.Stdin, colorable.NewColorableStdout(), colorable.NewColorableStderr())
	c.IsTerminal = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return c.Run(ctx, os.Args[1:])
}

// Run executes the command described by args.
func (c *CLI) Run(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(c.Stdin)
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		th := c.theme
		if th == nil {
			th = newTheme(c.Stderr, false)
		}
		fmt.Fprintf(c.Stderr, "%s %v\n", paint(th.bad, iconError), err)
	}
	return err
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
		color      string
		comments   bool
		maxDepth   int
	)
	root := &cobra.Command{
		Use:           "jsonpro",
		Short:         "Format, validate and browse JSON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(c.Stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			s, err := loadSettings(configPath, logger)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("color") {
				s.Color = color
			}
			if fs.Changed("comments") {
				s.AllowComments = comments
			}
			if fs.Changed("max-depth") {
				s.MaxDepth = maxDepth
			}
			if err := s.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			c.settings = s
			c.theme = newTheme(c.Stdout, c.useColor())
			logger.Debug("settings", "indent", s.IndentWidth, "comments", s.AllowComments,
				"maxDepth", s.MaxDepth, "color", s.Color)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&configPath, "config", "", "settings file (TOML or YAML)")
	pf.StringVar(&color, "color", config.ColorAuto, `colour output: "auto", "always" or "never"`)
	pf.BoolVar(&comments, "comments", false, "accept comments and trailing commas")
	pf.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth of input values")

	root.AddCommand(c.formatCommand())
	root.AddCommand(c.minifyCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.highlightCommand())
	root.AddCommand(c.standardizeCommand())

	return root
}

func loadSettings(path string, logger *log.Logger) (config.Settings, error) {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Find(wd)
		}
		if path == "" {
			return config.Default(), nil
		}
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	logger.Debug("loaded settings", "path", path)
	return s, nil
}

func (c *CLI) useColor() bool {
	switch c.settings.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return c.IsTerminal
}
