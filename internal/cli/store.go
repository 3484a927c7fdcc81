// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/creachadair/jsonpro/workspace"
)

// FileStore is the interface the CLI uses to read and write files.
type FileStore = workspace.FileStore

// osStore is a FileStore backed by the local file system.
type osStore struct{}

func (osStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// WriteFile replaces the contents of path, keeping the permissions of an
// existing file.
func (osStore) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mode := fs.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, data, mode)
}

func (c *CLI) store() FileStore {
	if c.Store != nil {
		return c.Store
	}
	return osStore{}
}
