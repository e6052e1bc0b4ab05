package view

import (
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/source"
)

// Request describes a page the way a controller would configure it, for
// callers that have no controller of their own.
type Request struct {
	Route        string
	Layout       string
	File         string
	Folder       string
	Title        string
	PrependTitle string
	AppendTitle  string
	Tags         map[string]any
	Meta         []meta.Entry
}

// Build creates a view for the request. The title is set first, then
// prepended to, then appended to.
func (r Request) Build(src source.Source, site Site, opts ...Option) (*View, error) {
	route, err := ParseRoute(r.Route)
	if err != nil {
		return nil, err
	}
	v := New(src, site, route, opts...)

	if r.Layout != "" {
		v.SetLayout(r.Layout)
	}
	if r.File != "" {
		v.SetTemplateFile(r.File)
	}
	if r.Folder != "" {
		v.SetTemplateFolder(r.Folder)
	}
	if r.Title != "" {
		v.SetTitle(r.Title)
	}
	if r.PrependTitle != "" {
		v.PrependToTitle(r.PrependTitle)
	}
	if r.AppendTitle != "" {
		v.AppendToTitle(r.AppendTitle)
	}
	if err := v.SetTags(r.Tags); err != nil {
		return nil, err
	}
	for _, e := range r.Meta {
		v.AddMeta(e.Name, e.Attr, e.Content)
	}
	return v, nil
}
