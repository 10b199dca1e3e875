// Package files lists asset directories for the synchronizer.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotDirectory is returned when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Lister walks directories of an afero filesystem.
type Lister struct {
	fs afero.Fs

	// IncludeHidden keeps dot files and dot directories.
	IncludeHidden bool
}

// NewLister returns a lister over fsys. nil uses the OS filesystem.
func NewLister(fsys afero.Fs) *Lister {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Lister{fs: fsys}
}

// Fs returns the underlying filesystem.
func (l *Lister) Fs() afero.Fs {
	return l.fs
}

// IsDir reports whether p exists and is a directory.
func (l *Lister) IsDir(p string) bool {
	if p == "" {
		return false
	}
	ok, err := afero.IsDir(l.fs, p)
	return err == nil && ok
}

// FlatDirectory returns every regular file below root as a slash separated
// path relative to root, in lexical order. Hidden entries are skipped
// unless IncludeHidden is set.
func (l *Lister) FlatDirectory(root string) ([]string, error) {
	if !l.IsDir(root) {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	var out []string
	err := afero.Walk(l.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if !l.IncludeHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, path.Clean(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
