// Package fsutil holds filesystem helpers shared by the workspace and note writers.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TempPattern returns the os.CreateTemp pattern for in-flight writes of
// filename. The temp file is always hidden so listings skip it.
func TempPattern(filename string) string {
	base := filepath.Base(filename)
	if !strings.HasPrefix(base, ".") {
		base = "." + base
	}
	return base + "-*"
}

// WriteAtomic streams write into a temp file next to filename, syncs it and
// renames it into place. On failure only the temp file is removed, through
// remove (os.Remove when nil), and filename keeps its previous content.
func WriteAtomic(filename string, perm os.FileMode, write func(io.Writer) error, remove func(string) error) (err error) {
	if remove == nil {
		remove = os.Remove
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(filename), TempPattern(filename))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if err == nil {
			return
		}
		if rmErr := remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("remove temp file %s: %w", tmpName, rmErr))
		}
	}()

	if err := write(tmpFile); err != nil {
		tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}

	return nil
}

// WriteFileAtomic is WriteAtomic for an in-memory payload.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return WriteAtomic(filename, perm, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		return nil
	}, nil)
}
