// Package fragment resolves vf_ and lf_ tags into rendered fragment text.
//
// A tag named vf_<name> refers to a global view fragment and lf_<name> to a
// fragment owned by the active layout. Resolving a fragment reads its text,
// substitutes the current store and the caller data (as var_<key> tags)
// into it in a single pass and memoises the result in the store under the
// tag name, so each fragment is read at most once per render. Substituted
// values are never scanned again.
package fragment

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/Swader/ciplusplus/internal/parser"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/tags"
)

// Tag prefixes.
const (
	ViewPrefix   = "vf_"
	LayoutPrefix = "lf_"
	VarPrefix    = "var_"
)

// Kind distinguishes view fragments from layout fragments.
type Kind int

const (
	View Kind = iota + 1
	Layout
)

func (k Kind) String() string {
	switch k {
	case View:
		return "view fragment"
	case Layout:
		return "layout fragment"
	default:
		return "fragment"
	}
}

// ErrNotFound matches every *NotFoundError.
var ErrNotFound = errors.New("fragment not found")

// NotFoundError reports a fragment tag whose template does not exist.
type NotFoundError struct {
	Tag  string
	Kind Kind
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found at %s", e.Kind, e.Tag, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// Parse splits a fragment tag into its kind and name. ok is false for tags
// that are not fragment references or have an empty name.
func Parse(tag string) (kind Kind, name string, ok bool) {
	switch {
	case strings.HasPrefix(tag, ViewPrefix):
		kind, name = View, tag[len(ViewPrefix):]
	case strings.HasPrefix(tag, LayoutPrefix):
		kind, name = Layout, tag[len(LayoutPrefix):]
	default:
		return 0, "", false
	}
	if name == "" {
		return 0, "", false
	}
	return kind, name, true
}

// VarTag returns the tag name caller data key is exposed under.
func VarTag(key string) string {
	return VarPrefix + key
}

// Resolver resolves fragment tags for one render.
type Resolver struct {
	src      source.Source
	paths    source.Paths
	layout   string
	data     map[string]any
	maxDepth int
	logger   *slog.Logger
	active   map[string]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth lets fragments reference other fragments up to n levels
// deep. With the default of 0 such references are left as written unless
// the store already holds them. A fragment that refers back to one being
// resolved is left as written.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a resolver reading fragments from src. layout selects the
// folder lf_ fragments come from, and data is the caller data exposed to
// every fragment as var_<key>.
func New(src source.Source, paths source.Paths, layout string, data map[string]any, opts ...Option) *Resolver {
	r := &Resolver{
		src:    src,
		paths:  paths.WithDefaults(),
		layout: layout,
		data:   data,
		logger: slog.New(slog.DiscardHandler),
		active: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns where the fragment of the given kind and name is read from.
func (r *Resolver) Path(kind Kind, name string) string {
	if kind == Layout {
		return r.paths.LayoutFragment(r.layout, name)
	}
	return r.paths.ViewFragment(name)
}

// Resolve returns the rendered text for tag. ok is false when tag is not a
// fragment reference. A fragment already in the store is returned as is.
func (r *Resolver) Resolve(tag string, store *tags.Store) (text string, ok bool, err error) {
	kind, name, ok := Parse(tag)
	if !ok {
		return "", false, nil
	}
	if v, found := store.Get(tag); found {
		return v, true, nil
	}
	text, err = r.resolve(tag, kind, name, store, 0)
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}

func (r *Resolver) resolve(tag string, kind Kind, name string, store *tags.Store, depth int) (string, error) {
	r.active[tag] = true
	defer delete(r.active, tag)

	text, err := r.Read(kind, name)
	if err != nil {
		return "", err
	}

	if depth < r.maxDepth {
		if err := r.resolveNested(text, store, depth+1); err != nil {
			return "", err
		}
	}

	lookup, err := r.lookup(store)
	if err != nil {
		return "", err
	}
	text = parser.Substitute(lookup, text)
	if err := store.Set(tag, text); err != nil {
		return "", err
	}
	r.logger.Debug("resolved fragment", "tag", tag, "kind", kind.String(), "depth", depth)
	return text, nil
}

func (r *Resolver) resolveNested(text string, store *tags.Store, depth int) error {
	for _, tag := range tags.Extract(text) {
		kind, name, ok := Parse(tag)
		if !ok || store.Has(tag) {
			continue
		}
		if r.active[tag] {
			r.logger.Debug("fragment cycle left unresolved", "tag", tag)
			continue
		}
		if _, err := r.resolve(tag, kind, name, store, depth); err != nil {
			return err
		}
	}
	return nil
}

// lookup returns the store fragments are substituted against: store itself,
// or a clone with the resolver's data added where store has no var_<key> yet.
func (r *Resolver) lookup(store *tags.Store) (*tags.Store, error) {
	vars := Vars(r.data)
	for k := range vars {
		if store.Has(k) {
			delete(vars, k)
		}
	}
	if len(vars) == 0 {
		return store, nil
	}
	lookup := store.Clone()
	if err := lookup.SetMany(vars); err != nil {
		return nil, err
	}
	return lookup, nil
}

// Read returns the raw text of a fragment.
func (r *Resolver) Read(kind Kind, name string) (string, error) {
	path := r.Path(kind, name)
	text, err := r.src.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Tag: prefixFor(kind) + name, Kind: kind, Path: path, Err: err}
		}
		return "", fmt.Errorf("reading %s %q: %w", kind, name, err)
	}
	return text, nil
}

// Fetch reads a fragment and fills in the caller data as var_<key> tags.
// extra adds to or overrides the resolver's data for this call only. The
// result is not substituted against any store and is not memoised.
func (r *Resolver) Fetch(kind Kind, name string, extra map[string]any) (string, error) {
	text, err := r.Read(kind, name)
	if err != nil {
		return "", err
	}
	scope, err := Scope(r.data, extra)
	if err != nil {
		return "", err
	}
	return parser.Substitute(scope, text), nil
}

// Vars maps each data key to its var_<key> tag name. Keys in later maps
// override earlier ones. Keys that cannot form a tag name are dropped.
func Vars(data ...map[string]any) map[string]any {
	vars := make(map[string]any)
	for _, d := range data {
		for k, v := range d {
			if tags.IsName(k) {
				vars[VarTag(k)] = v
			}
		}
	}
	return vars
}

// Scope builds a store holding each data key as var_<key>.
func Scope(data ...map[string]any) (*tags.Store, error) {
	scope := tags.NewStore()
	if err := scope.SetMany(Vars(data...)); err != nil {
		return nil, err
	}
	return scope, nil
}

func prefixFor(kind Kind) string {
	if kind == Layout {
		return LayoutPrefix
	}
	return ViewPrefix
}
