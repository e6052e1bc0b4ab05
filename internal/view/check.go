package view

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/tags"
)

// Problem kinds.
const (
	ProblemLayout   = "layout"
	ProblemView     = "view"
	ProblemFragment = "fragment"
	ProblemTag      = "tag"
)

// Problem is something that would make a render fail or leave a tag in the
// output as written.
type Problem struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Report is the result of Check.
type Report struct {
	Route      string    `json:"route"`
	Layout     string    `json:"layout"`
	LayoutPath string    `json:"layout_path"`
	ViewPath   string    `json:"view_path"`
	Problems   []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Check inspects the templates a render would use without rendering. Missing
// layouts, views and fragments are fatal at render time; tags that have no
// value render literally. Other read errors are returned.
func (v *View) Check(data map[string]any) (Report, error) {
	rep := Report{
		Route:      v.route.String(),
		Layout:     v.Layout(),
		LayoutPath: v.LayoutPath(),
		ViewPath:   v.ViewPath(),
		Problems:   []Problem{},
	}

	layoutText, err := v.readLayout(rep.Layout)
	switch {
	case errors.Is(err, ErrLayoutNotFound):
		rep.Problems = append(rep.Problems, Problem{Kind: ProblemLayout, Name: rep.Layout, Path: rep.LayoutPath, Message: "layout not found"})
	case err != nil:
		return rep, err
	}
	_, body, err := v.readView()
	switch {
	case errors.Is(err, ErrViewNotFound):
		rep.Problems = append(rep.Problems, Problem{Kind: ProblemView, Name: v.TemplateFile(), Path: rep.ViewPath, Message: "view not found"})
	case err != nil:
		return rep, err
	}

	store, err := v.seed(slog.New(slog.DiscardHandler), v.title, data)
	if err != nil {
		return rep, err
	}
	c := &checker{
		v:        v,
		store:    store,
		resolver: v.resolver(nil, data),
		checked:  make(map[string]bool),
		nested:   make(map[string]bool),
		report:   &rep,
	}
	for _, text := range []string{layoutText, body} {
		if err := c.walk(text, 0); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

type checker struct {
	v        *View
	store    *tags.Store
	resolver *fragment.Resolver
	checked  map[string]bool
	nested   map[string]bool
	report   *Report
}

func (c *checker) add(p Problem) {
	c.report.Problems = append(c.report.Problems, p)
}

// walk mirrors fragment resolution: fragments referenced from fragment text
// are only followed while depth is within the site's fragment depth. A
// fragment is marked checked only once it has been looked up, so a too-deep
// reference does not hide a later top-level one.
func (c *checker) walk(text string, depth int) error {
	for _, name := range tags.Extract(text) {
		if c.checked[name] || tags.IsProtected(name) || c.store.Has(name) {
			continue
		}

		kind, fname, ok := fragment.Parse(name)
		if !ok {
			c.checked[name] = true
			c.add(Problem{Kind: ProblemTag, Name: name, Message: "no value, renders literally"})
			continue
		}
		if depth > c.v.site.FragmentDepth {
			if !c.nested[name] {
				c.nested[name] = true
				c.add(Problem{Kind: ProblemTag, Name: name, Message: fmt.Sprintf("nested deeper than fragment_depth %d, renders literally", c.v.site.FragmentDepth)})
			}
			continue
		}
		c.checked[name] = true
		path := c.resolver.Path(kind, fname)
		ftext, err := c.v.src.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			c.add(Problem{Kind: ProblemFragment, Name: name, Path: path, Message: kind.String() + " not found"})
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := c.walk(ftext, depth+1); err != nil {
			return err
		}
	}
	return nil
}
