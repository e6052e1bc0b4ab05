package source

import (
	"errors"
	"io/fs"
	"path"
)

// ErrNotListable is returned by Layouts for sources without a Lister.
var ErrNotListable = errors.New("template source cannot list its contents")

// LayoutInfo describes a layout found in a source.
type LayoutInfo struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Origin    string   `json:"origin,omitempty"`
	Fragments []string `json:"fragments"`
}

// Layouts lists every folder under the layouts root that holds a layout
// file, with the names of its fragments.
func Layouts(src Source, p Paths) ([]LayoutInfo, error) {
	lister, ok := src.(Lister)
	if !ok {
		return nil, ErrNotListable
	}
	p = p.WithDefaults()

	names, err := lister.List(p.Layouts)
	if errors.Is(err, fs.ErrNotExist) {
		return []LayoutInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	origin, _ := src.(interface{ Origin(string) string })
	layouts := make([]LayoutInfo, 0, len(names))
	for _, name := range names {
		file := p.Layout(name)
		if !src.Exists(file) {
			continue
		}
		info := LayoutInfo{Name: name, Path: file, Fragments: []string{}}
		if origin != nil {
			info.Origin = origin.Origin(file)
		}

		entries, err := lister.List(path.Dir(p.LayoutFragment(name, "x")))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for _, e := range entries {
			if frag, ok := p.TrimExt(e); ok {
				info.Fragments = append(info.Fragments, frag)
			}
		}
		layouts = append(layouts, info)
	}
	return layouts, nil
}
