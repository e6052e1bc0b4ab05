// Package source reads template text for layouts, views and fragments.
//
// A Source is addressed by slash-separated paths relative to its root. Paths
// builds those paths from the conventional folder layout:
//
//	layouts/<layout>/layout.html
//	layouts/<layout>/fragments/<name>.html
//	views/<directory>/<controller>/<action>.html
//	fragments/<name>.html
//
// Sources are resolved in order by Chain, so a project directory can override
// the built-in skeleton file by file.
package source

import (
	"io/fs"
	"path"
	"sort"
)

// Source supplies template text by path.
// Read returns an error wrapping fs.ErrNotExist when the path is absent.
type Source interface {
	Read(name string) (string, error)
	Exists(name string) bool
}

// Lister is implemented by sources that can enumerate a directory.
// List returns the sorted names of the entries directly under dir.
type Lister interface {
	List(dir string) ([]string, error)
}

// Namer is implemented by sources that have a display name.
type Namer interface {
	Name() string
}

// NotFound returns the error sources use for a missing path.
func NotFound(name string) error {
	return &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
}

// NameOf returns the display name of src, or "source" if it has none.
func NameOf(src Source) string {
	if n, ok := src.(Namer); ok {
		return n.Name()
	}
	return "source"
}

// Paths describes where each kind of template lives.
type Paths struct {
	Layouts   string `yaml:"layouts" json:"layouts"`
	Views     string `yaml:"views" json:"views"`
	Fragments string `yaml:"fragments" json:"fragments"`
	Ext       string `yaml:"ext" json:"ext"`
}

// DefaultPaths returns the conventional folder names and the .html extension.
func DefaultPaths() Paths {
	return Paths{
		Layouts:   "layouts",
		Views:     "views",
		Fragments: "fragments",
		Ext:       ".html",
	}
}

// WithDefaults fills empty fields from DefaultPaths.
func (p Paths) WithDefaults() Paths {
	d := DefaultPaths()
	if p.Layouts == "" {
		p.Layouts = d.Layouts
	}
	if p.Views == "" {
		p.Views = d.Views
	}
	if p.Fragments == "" {
		p.Fragments = d.Fragments
	}
	if p.Ext == "" {
		p.Ext = d.Ext
	}
	return p
}

// LayoutDir is the folder holding one layout and its fragments.
func (p Paths) LayoutDir(layout string) string {
	return path.Join(p.Layouts, layout)
}

// Layout is the path of a layout's skeleton file.
func (p Paths) Layout(layout string) string {
	return path.Join(p.Layouts, layout, "layout"+p.Ext)
}

// LayoutFragment is the path of a fragment owned by a layout.
func (p Paths) LayoutFragment(layout, name string) string {
	return path.Join(p.Layouts, layout, "fragments", name+p.Ext)
}

// ViewFragment is the path of a global view fragment.
func (p Paths) ViewFragment(name string) string {
	return path.Join(p.Fragments, name+p.Ext)
}

// View is the path of a page view inside folder.
func (p Paths) View(folder, file string) string {
	return path.Join(p.Views, folder, file+p.Ext)
}

// TrimExt returns name without the template extension.
func (p Paths) TrimExt(name string) (string, bool) {
	if p.Ext == "" || len(name) <= len(p.Ext) || name[len(name)-len(p.Ext):] != p.Ext {
		return name, false
	}
	return name[:len(name)-len(p.Ext)], true
}

func sortedUnique(names []string) []string {
	sort.Strings(names)
	out := names[:0]
	for i, n := range names {
		if i > 0 && names[i-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}
