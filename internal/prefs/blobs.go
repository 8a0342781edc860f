// Package prefs keeps named documents as plain files in a per-user directory.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/daytally/internal/ledger"
)

// FileBlobs stores each blob as dir/<name>. Writes go through a temp file
// and a rename so a crash never leaves a half-written document.
type FileBlobs struct {
	Dir string
}

// DefaultDir is the per-user data directory used by the file backend.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daytally", "data"), nil
}

func (f FileBlobs) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("prefs: invalid blob name %q", name)
	}
	return filepath.Join(f.Dir, name), nil
}

func (f FileBlobs) Get(_ context.Context, name string) ([]byte, error) {
	path, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ledger.ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

func (f FileBlobs) Put(_ context.Context, name string, data []byte) error {
	path, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
