// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package workspace manages a collection of independent documents, one per
// editor tab.
//
// Tabs are addressed by an opaque TabID. There is no notion of an "active"
// tab: the host tracks which tab has focus and passes its ID to each call.
// Documents in different tabs share no state.
//
// A Workspace performs no I/O of its own. Files are read and written through
// a FileStore supplied by the host.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/creachadair/jsonpro/document"
	"github.com/google/uuid"
)

var (
	// ErrNoSuchTab is reported for a TabID that is not in the workspace.
	ErrNoSuchTab = errors.New("no such tab")

	// ErrUnsaved is reported when closing a tab with unsaved changes.
	ErrUnsaved = errors.New("tab has unsaved changes")

	// ErrLastTab is reported when closing the only tab of the workspace.
	ErrLastTab = errors.New("cannot close the last tab")

	// ErrNoPath is reported when saving a document that has no file path.
	ErrNoPath = errors.New("document has no file path")
)

// A FileStore reads and writes the contents of files on behalf of a
// Workspace.
type FileStore interface {
	// ReadFile returns the complete contents of the file at path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the contents of the file at path with data.
	WriteFile(ctx context.Context, path string, data []byte) error
}

// A TabID identifies a tab of a Workspace.
type TabID string

// Options are settings for a Workspace. A nil *Options is ready for use and
// provides default values.
type Options struct {
	// Options for the documents of the workspace.
	Document *document.Options

	// If true, files that are not valid JSON may be opened. By default, Open
	// reports an error for such files.
	OpenInvalid bool

	// If set, tab lifecycle events are logged here at debug level.
	Logger *log.Logger
}

type tab struct {
	id   TabID
	name string
	doc  *document.Document
}

// Workspace is a collection of tabs, each holding one document.
// A Workspace is not safe for concurrent use without external synchronization.
type Workspace struct {
	store    FileStore
	docOpts  *document.Options
	openBad  bool
	log      *log.Logger
	tabs     []*tab // in creation order
	untitled int    // the number of untitled tabs created
}

// New constructs an empty Workspace that reads and writes files through store.
func New(store FileStore, opts *Options) *Workspace {
	w := &Workspace{store: store, log: log.New(io.Discard)}
	if opts != nil {
		w.docOpts = opts.Document
		w.openBad = opts.OpenInvalid
		if opts.Logger != nil {
			w.log = opts.Logger
		}
	}
	return w
}

// NewTab adds a tab containing an empty document and returns its ID.
// New tabs are named "Untitled 1", "Untitled 2", and so on.
func (w *Workspace) NewTab() TabID {
	w.untitled++
	t := w.addTab(fmt.Sprintf("Untitled %d", w.untitled), document.New(w.docOpts))
	w.log.Debug("new tab", "tab", t.id, "name", t.name)
	return t.id
}

func (w *Workspace) addTab(name string, doc *document.Document) *tab {
	t := &tab{id: TabID(uuid.NewString()), name: name, doc: doc}
	w.tabs = append(w.tabs, t)
	return t
}

// Open reads the file at path and returns the ID of a tab containing it. The
// tab is named by the base name of path.
//
// If the most recently created tab holds an empty untitled document, the file
// is opened in that tab. Otherwise a new tab is added.
//
// Unless the workspace allows invalid files, Open reports a
// *document.ParseError if the contents of the file are not valid JSON, and no
// tab is changed.
func (w *Workspace) Open(ctx context.Context, path string) (TabID, error) {
	data, err := w.store.ReadFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	doc := document.Open(path, string(data), w.docOpts)
	if !w.openBad {
		if err := doc.CheckSave(); err != nil {
			w.log.Debug("refused invalid file", "path", path, "err", err)
			return "", err
		}
	}

	name := filepath.Base(path)
	if n := len(w.tabs); n != 0 && w.tabs[n-1].doc.Blank() {
		t := w.tabs[n-1]
		t.name, t.doc = name, doc
		w.log.Debug("open file", "tab", t.id, "path", path, "reused", true)
		return t.id, nil
	}
	t := w.addTab(name, doc)
	w.log.Debug("open file", "tab", t.id, "path", path)
	return t.id, nil
}

func (w *Workspace) find(id TabID) (int, *tab, error) {
	i := slices.IndexFunc(w.tabs, func(t *tab) bool { return t.id == id })
	if i < 0 {
		return -1, nil, fmt.Errorf("tab %q: %w", id, ErrNoSuchTab)
	}
	return i, w.tabs[i], nil
}

// Document returns the document of the specified tab.
func (w *Workspace) Document(id TabID) (*document.Document, error) {
	_, t, err := w.find(id)
	if err != nil {
		return nil, err
	}
	return t.doc, nil
}

// Tabs returns the IDs of the tabs of w in the order they were created.
func (w *Workspace) Tabs() []TabID {
	out := make([]TabID, len(w.tabs))
	for i, t := range w.tabs {
		out[i] = t.id
	}
	return out
}

// Name returns the name of the specified tab.
func (w *Workspace) Name(id TabID) (string, error) {
	_, t, err := w.find(id)
	if err != nil {
		return "", err
	}
	return t.name, nil
}

// Title returns the display title of the specified tab: its name, prefixed
// with "*" if the tab has unsaved changes.
func (w *Workspace) Title(id TabID) (string, error) {
	_, t, err := w.find(id)
	if err != nil {
		return "", err
	}
	if t.unsaved() {
		return "*" + t.name, nil
	}
	return t.name, nil
}

// Rename changes the name of the specified tab.
func (w *Workspace) Rename(id TabID, name string) error {
	_, t, err := w.find(id)
	if err != nil {
		return err
	}
	t.name = name
	return nil
}

// Save writes the text of the specified tab to its file path. It reports
// ErrNoPath if the document has no path, and a *document.ParseError if its
// text is not valid JSON.
func (w *Workspace) Save(ctx context.Context, id TabID) error {
	_, t, err := w.find(id)
	if err != nil {
		return err
	}
	path, ok := t.doc.Path().GetOK()
	if !ok {
		return fmt.Errorf("save %q: %w", t.name, ErrNoPath)
	}
	return w.save(ctx, t, path)
}

// SaveAs writes the text of the specified tab to path, which becomes the file
// path of its document. The tab is renamed to the base name of path.
func (w *Workspace) SaveAs(ctx context.Context, id TabID, path string) error {
	_, t, err := w.find(id)
	if err != nil {
		return err
	}
	if err := w.save(ctx, t, path); err != nil {
		return err
	}
	t.name = filepath.Base(path)
	return nil
}

func (w *Workspace) save(ctx context.Context, t *tab, path string) error {
	if err := t.doc.CheckSave(); err != nil {
		return err
	}
	if err := w.store.WriteFile(ctx, path, []byte(t.doc.Text())); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	t.doc.MarkSaved(path)
	w.log.Debug("saved", "tab", t.id, "path", path, "bytes", len(t.doc.Text()))
	return nil
}

// Close removes the specified tab from w. Unless force is true, Close reports
// ErrUnsaved for a tab with unsaved changes. The only tab of a workspace
// cannot be closed.
func (w *Workspace) Close(id TabID, force bool) error {
	i, t, err := w.find(id)
	if err != nil {
		return err
	}
	if len(w.tabs) == 1 {
		return ErrLastTab
	}
	if t.unsaved() && !force {
		return fmt.Errorf("close %q: %w", t.name, ErrUnsaved)
	}
	w.tabs = slices.Delete(w.tabs, i, i+1)
	w.log.Debug("closed tab", "tab", t.id, "name", t.name, "forced", force)
	return nil
}

// Unsaved returns the IDs of the tabs of w that have unsaved changes, in
// creation order.
func (w *Workspace) Unsaved() []TabID {
	var out []TabID
	for _, t := range w.tabs {
		if t.unsaved() {
			out = append(out, t.id)
		}
	}
	return out
}

// unsaved reports whether t holds changes that would be lost by closing it.
// An empty untitled document has nothing to lose.
func (t *tab) unsaved() bool { return t.doc.Dirty() && !t.doc.Blank() }
