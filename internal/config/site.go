package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// SiteFile is the project-local site configuration file name.
const SiteFile = "cipp.yaml"

// Source drivers.
const (
	DriverFS     = "fs"
	DriverSQLite = "sqlite"
)

// ErrExists is returned by WriteDefault when the target already exists.
var ErrExists = errors.New("config file already exists")

// SourceConfig selects where templates are read from.
type SourceConfig struct {
	Driver string `yaml:"driver"`
	Root   string `yaml:"root,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// CacheConfig controls the in-memory template cache.
type CacheConfig struct {
	Enabled bool  `yaml:"enabled"`
	MaxCost int64 `yaml:"max_cost,omitempty"`
}

// Site is the site configuration: the default title, the global meta
// entries and where templates live.
type Site struct {
	Title         string       `yaml:"title"`
	Layout        string       `yaml:"layout,omitempty"`
	FragmentDepth int          `yaml:"fragment_depth,omitempty"`
	Paths         source.Paths `yaml:"paths"`
	Meta          *meta.Map    `yaml:"meta"`
	Source        SourceConfig `yaml:"source"`
	Cache         CacheConfig  `yaml:"cache"`

	// Path is the file the configuration was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no site file exists.
func Default() *Site {
	return &Site{
		Title:  "Change the title in cipp.yaml",
		Layout: view.DefaultLayout,
		Paths:  source.DefaultPaths(),
		Meta: meta.NewMap(
			meta.Entry{Name: "keywords", Attr: meta.AttrName, Content: "Change us in cipp.yaml"},
			meta.Entry{Name: "description", Attr: meta.AttrName, Content: "Change me in cipp.yaml"},
			meta.Entry{Name: "og:type", Attr: meta.AttrProperty, Content: "website"},
			meta.Entry{Name: "viewport", Attr: meta.AttrName, Content: "width=device-width"},
			meta.Entry{Name: "X-UA-Compatible", Attr: meta.AttrHTTPEquiv, Content: "IE=edge,chrome=1"},
		),
		Source: SourceConfig{Driver: DriverFS, Root: "."},
	}
}

// Load reads a site file. Fields the file leaves out keep their defaults;
// a meta section replaces the default meta entirely.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site config %s: %w", path, err)
	}

	site := Default()
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("parsing site config %s: %w", path, err)
	}
	site.Paths = site.Paths.WithDefaults()
	if site.Meta == nil {
		site.Meta = meta.NewMap()
	}
	if site.Source.Driver == "" {
		site.Source.Driver = DriverFS
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}
	site.Path = path
	return site, nil
}

// Find locates and loads the site configuration.
//
// Resolution:
//   - $CIPP_SITE if set (must exist)
//   - ./cipp.yaml
//   - <Dir()>/site.yaml
//   - built-in defaults
func Find() (*Site, error) {
	if p := os.Getenv(EnvSite); p != "" {
		return Load(p)
	}
	for _, p := range SearchPaths() {
		site, err := Load(p)
		if err == nil {
			return site, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return Default(), nil
}

// Validate checks the settings that cannot be defaulted.
func (s *Site) Validate() error {
	switch s.Source.Driver {
	case DriverFS:
	case DriverSQLite:
		if s.Source.DSN == "" {
			return errors.New("source.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown source driver %q", s.Source.Driver)
	}
	if s.FragmentDepth < 0 {
		return errors.New("fragment_depth cannot be negative")
	}
	return nil
}

// Root returns the template root directory. A relative root is taken
// relative to the site file.
func (s *Site) Root() string {
	root := s.Source.Root
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) || s.Path == "" {
		return root
	}
	return filepath.Join(filepath.Dir(s.Path), root)
}

// View returns the settings a view.View starts from.
func (s *Site) View() view.Site {
	return view.Site{
		Title:         s.Title,
		Layout:        s.Layout,
		Meta:          s.Meta,
		Paths:         s.Paths,
		FragmentDepth: s.FragmentDepth,
	}
}

// Marshal encodes the configuration as YAML.
func (s *Site) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding site config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding site config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path. An existing file
// is left alone and ErrExists returned unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	data, err := Default().Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Templates is an opened template source together with its cleanup.
type Templates struct {
	source.Source
	closers []func()
}

// Close releases the database and cache behind the source, if any.
func (t *Templates) Close() {
	for i := len(t.closers) - 1; i >= 0; i-- {
		t.closers[i]()
	}
	t.closers = nil
}

// OpenSource opens the configured template source followed by the
// built-in skeleton, wrapped in a cache when enabled.
func (s *Site) OpenSource(ctx context.Context) (*Templates, error) {
	t := &Templates{}

	var primary source.Source
	switch s.Source.Driver {
	case DriverSQLite:
		db, err := source.OpenSQLite(ctx, s.Source.DSN)
		if err != nil {
			return nil, err
		}
		t.closers = append(t.closers, func() { _ = db.Close() })
		primary = db
	default:
		primary = source.Dir(s.Root())
	}

	t.Source = source.Chain(primary, source.Builtin())
	if s.Cache.Enabled {
		cached, err := source.NewCached(t.Source, s.Cache.MaxCost)
		if err != nil {
			t.Close()
			return nil, err
		}
		t.closers = append(t.closers, cached.Close)
		t.Source = cached
	}
	return t, nil
}
