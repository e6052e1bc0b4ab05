package source

import (
	"errors"
	"io/fs"
)

// Chained tries each source in order. The first source that has a path
// serves it, so earlier sources override later ones.
type Chained struct {
	sources []Source
}

// Chain returns a source that resolves paths through sources in order.
// Nil entries are skipped.
func Chain(sources ...Source) *Chained {
	c := &Chained{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Name implements Namer.
func (c *Chained) Name() string { return "chain" }

// Sources returns the chained sources in resolution order.
func (c *Chained) Sources() []Source {
	return append([]Source(nil), c.sources...)
}

// Read implements Source.
func (c *Chained) Read(name string) (string, error) {
	for _, s := range c.sources {
		text, err := s.Read(name)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", NotFound(name)
}

// Exists implements Source.
func (c *Chained) Exists(name string) bool {
	return c.Origin(name) != ""
}

// Origin returns the display name of the source that serves name, or ""
// if none does.
func (c *Chained) Origin(name string) string {
	for _, s := range c.sources {
		if s.Exists(name) {
			return NameOf(s)
		}
	}
	return ""
}

// List implements Lister by merging the listings of every source that
// supports it. A directory missing from all sources is reported as not found.
func (c *Chained) List(dir string) ([]string, error) {
	var names []string
	found := false
	for _, s := range c.sources {
		l, ok := s.(Lister)
		if !ok {
			continue
		}
		entries, err := l.List(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		found = true
		names = append(names, entries...)
	}
	if !found {
		return nil, NotFound(dir)
	}
	return sortedUnique(names), nil
}
