// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package config defines the editor settings shared by the hosts of a
// workspace, and loads them from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/jsonpro"
	"github.com/creachadair/jsonpro/document"
	"github.com/creachadair/jsonpro/tree"
	"github.com/creachadair/jsonpro/workspace"
	"gopkg.in/yaml.v3"
)

// Color modes for Settings.Color.
const (
	ColorAuto   = "auto"   // colour if the output is a terminal
	ColorAlways = "always" // always colour
	ColorNever  = "never"  // never colour
)

// FileNames are the names of the settings files searched for by Find, in
// order of preference.
var FileNames = []string{".jsonpro.toml", ".jsonpro.yaml", ".jsonpro.yml"}

// Settings are the user-adjustable settings of an editor.
type Settings struct {
	// The number of spaces per level of nesting used when formatting.
	IndentWidth int `toml:"indent_width" yaml:"indent_width"`

	// The maximum length, in code points, of a value summary in the tree
	// view.
	SummaryLimit int `toml:"summary_limit" yaml:"summary_limit"`

	// The maximum nesting depth of a document.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`

	// Whether to accept comments and trailing commas in documents.
	AllowComments bool `toml:"allow_comments" yaml:"allow_comments"`

	// Whether to open files that are not valid JSON.
	OpenInvalid bool `toml:"open_invalid" yaml:"open_invalid"`

	// When to colour output: "auto", "always", or "never".
	Color string `toml:"color" yaml:"color"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		IndentWidth:  2,
		SummaryLimit: tree.DefaultSummaryLimit,
		MaxDepth:     jsonpro.DefaultMaxDepth,
		Color:        ColorAuto,
	}
}

// Validate reports an error if s contains invalid values.
func (s Settings) Validate() error {
	var errs []error
	if s.IndentWidth < 0 || s.IndentWidth > 16 {
		errs = append(errs, fmt.Errorf("indent_width %d out of range [0..16]", s.IndentWidth))
	}
	if s.SummaryLimit < 1 {
		errs = append(errs, fmt.Errorf("summary_limit %d must be positive", s.SummaryLimit))
	}
	if s.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth %d must be positive", s.MaxDepth))
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("invalid color %q", s.Color))
	}
	return errors.Join(errs...)
}

// DocumentOptions returns document options matching s.
func (s Settings) DocumentOptions() *document.Options {
	return &document.Options{MaxDepth: s.MaxDepth, AllowComments: s.AllowComments}
}

// TreeOptions returns tree options matching s.
func (s Settings) TreeOptions() *tree.Options {
	return &tree.Options{SummaryLimit: s.SummaryLimit}
}

// WorkspaceOptions returns workspace options matching s.
// The caller may add a logger.
func (s Settings) WorkspaceOptions() *workspace.Options {
	return &workspace.Options{Document: s.DocumentOptions(), OpenInvalid: s.OpenInvalid}
}

// Parse decodes settings from data in the given format, "toml" or "yaml".
// Settings not mentioned in data keep their default values.
func Parse(data []byte, format string) (Settings, error) {
	s := Default()
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
		if err != nil {
			return Settings{}, err
		}
		if un := md.Undecoded(); len(un) != 0 {
			return Settings{}, fmt.Errorf("unknown setting %q", un[0].String())
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return Settings{}, err
		}
	default:
		return Settings{}, fmt.Errorf("unknown settings format %q", format)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads settings from the file at path. The format is chosen by the
// extension of path: ".toml", ".yaml" or ".yml".
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Settings{}, fmt.Errorf("load %q: %w", path, err)
	}
	return s, nil
}

// Find searches dir and its ancestors for a settings file with one of the
// names in FileNames, and returns the path of the first one found. It returns
// "" if none is found.
func Find(dir string) string {
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
