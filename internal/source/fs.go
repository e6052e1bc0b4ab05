package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// FS reads templates from an fs.FS.
type FS struct {
	name string
	fsys fs.FS
}

// NewFS returns a source over fsys. name is used for display only.
func NewFS(name string, fsys fs.FS) *FS {
	return &FS{name: name, fsys: fsys}
}

// Dir returns a source rooted at a directory on disk.
func Dir(root string) *FS {
	return NewFS(root, os.DirFS(root))
}

// Name implements Namer.
func (s *FS) Name() string { return s.name }

// Read implements Source.
func (s *FS) Read(name string) (string, error) {
	name = path.Clean(name)
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NotFound(name)
		}
		return "", fmt.Errorf("reading %s from %s: %w", name, s.name, err)
	}
	return string(data), nil
}

// Exists implements Source.
func (s *FS) Exists(name string) bool {
	info, err := fs.Stat(s.fsys, path.Clean(name))
	return err == nil && !info.IsDir()
}

// List implements Lister.
func (s *FS) List(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, path.Clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound(dir)
		}
		return nil, fmt.Errorf("listing %s in %s: %w", dir, s.name, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return sortedUnique(names), nil
}
