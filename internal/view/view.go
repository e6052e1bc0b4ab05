package view

import (
	"github.com/oxtoacart/bpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/parser"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/tags"
)

// DefaultLayout is used when no layout has been chosen.
const DefaultLayout = "default"

const tracerName = "github.com/Swader/ciplusplus/internal/view"

var defaultPool = bpool.NewBufferPool(64)

// Site holds the site-wide settings every view starts from.
type Site struct {
	Title         string
	Layout        string
	Meta          *meta.Map
	Paths         source.Paths
	FragmentDepth int
}

// View renders one page. It is configured by a controller and may be
// rendered any number of times; each render starts from the same state.
// A View is not safe for concurrent mutation.
type View struct {
	src   source.Source
	site  Site
	route Route

	title      string
	titleSet   bool
	layout     string
	file       string
	folder     string
	authorTags *tags.Store
	localMeta  *meta.Map

	pool   *bpool.BufferPool
	tracer trace.Tracer
}

// Option configures a View.
type Option func(*View)

// WithBufferPool sets the pool render output is assembled in.
func WithBufferPool(p *bpool.BufferPool) Option {
	return func(v *View) {
		if p != nil {
			v.pool = p
		}
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(t trace.Tracer) Option {
	return func(v *View) {
		if t != nil {
			v.tracer = t
		}
	}
}

// New returns a view for route that reads templates from src.
func New(src source.Source, site Site, route Route, opts ...Option) *View {
	site.Paths = site.Paths.WithDefaults()
	v := &View{
		src:        src,
		site:       site,
		route:      route,
		title:      site.Title,
		layout:     site.Layout,
		authorTags: tags.NewStore(),
		localMeta:  meta.NewMap(),
		pool:       defaultPool,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Route returns the route the view was created for.
func (v *View) Route() Route { return v.route }

// SetTitle replaces the page title.
func (v *View) SetTitle(title string) {
	v.title = title
	v.titleSet = true
}

// AppendToTitle adds s to the end of the title.
func (v *View) AppendToTitle(s string) {
	v.SetTitle(v.title + s)
}

// PrependToTitle adds s to the start of the title.
func (v *View) PrependToTitle(s string) {
	v.SetTitle(s + v.title)
}

// Title returns the current title.
func (v *View) Title() string { return v.title }

// ResetTitle restores the site title.
func (v *View) ResetTitle() {
	v.title = v.site.Title
	v.titleSet = false
}

// SetTag stores an author tag. The reserved tags title, meta and content
// are rejected with *tags.ProtectedTagError.
func (v *View) SetTag(name string, value any) error {
	return v.authorTags.Set(name, value)
}

// SetTags stores several author tags. Either all are stored or none.
func (v *View) SetTags(values map[string]any) error {
	return v.authorTags.SetMany(values)
}

// RemoveTag deletes an author tag.
func (v *View) RemoveTag(name string) {
	v.authorTags.Remove(name)
}

// Tag returns an author tag, or the title for "title".
func (v *View) Tag(name string) (string, bool) {
	if name == tags.Title {
		return v.title, true
	}
	return v.authorTags.Get(name)
}

// SetLayout selects the layout to render into. An empty name selects the
// default layout.
func (v *View) SetLayout(name string) {
	v.layout = name
}

// ResetLayout restores the site layout.
func (v *View) ResetLayout() {
	v.layout = v.site.Layout
}

// Layout returns the layout that will be rendered.
func (v *View) Layout() string {
	if v.layout == "" {
		return DefaultLayout
	}
	return v.layout
}

// SetTemplateFile overrides the view file name, which defaults to the
// route action.
func (v *View) SetTemplateFile(name string) {
	v.file = name
}

// TemplateFile returns the view file name without extension.
func (v *View) TemplateFile() string {
	if v.file == "" {
		return v.route.Action
	}
	return v.file
}

// SetTemplateFolder overrides the view folder, which defaults to the route
// directory and controller.
func (v *View) SetTemplateFolder(dir string) {
	v.folder = dir
}

// TemplateFolder returns the folder under the views root the view is read from.
func (v *View) TemplateFolder() string {
	if v.folder == "" {
		return v.route.Folder()
	}
	return v.folder
}

// LayoutPath returns the path of the selected layout.
func (v *View) LayoutPath() string {
	return v.site.Paths.Layout(v.Layout())
}

// ViewPath returns the path of the page view.
func (v *View) ViewPath() string {
	return v.site.Paths.View(v.TemplateFolder(), v.TemplateFile())
}

// AddMeta adds or replaces a page-local meta entry.
func (v *View) AddMeta(name, attr, content string) {
	v.localMeta.Set(meta.Entry{Name: name, Attr: attr, Content: content})
}

// RemoveMeta removes a page-local meta entry. Site entries are not affected.
func (v *View) RemoveMeta(name string) {
	v.localMeta.Delete(name)
}

// Meta returns the site meta merged with the page-local meta.
func (v *View) Meta() *meta.Map {
	return meta.Merge(v.site.Meta, v.localMeta)
}

// FetchLayoutFragment returns a fragment of the selected layout with data
// filled in as var_<key> tags. Other tags are left as written.
func (v *View) FetchLayoutFragment(name string, data map[string]any) (string, error) {
	return v.resolver(nil, data).Fetch(fragment.Layout, name, nil)
}

// RenderLayoutFragment reads a layout fragment and substitutes the view's
// title, its author tags and data as var_<key> tags into it in one pass.
func (v *View) RenderLayoutFragment(name string, data map[string]any) (string, error) {
	text, err := v.resolver(nil, data).Read(fragment.Layout, name)
	if err != nil {
		return "", err
	}
	store := v.authorTags.Clone()
	if err := store.SetReserved(tags.Title, v.title); err != nil {
		return "", err
	}
	if err := store.SetMany(fragment.Vars(data)); err != nil {
		return "", err
	}
	return parser.Substitute(store, text), nil
}
