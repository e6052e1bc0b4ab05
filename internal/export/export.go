package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// DefaultWorkers is the number of pages rendered at once when Options
// leaves Workers unset.
const DefaultWorkers = 4

// Options controls an export.
type Options struct {
	// Dir is the output directory. It is created if missing.
	Dir string
	// Layout overrides the site layout for every page.
	Layout string
	// Data is the caller data passed to every page.
	Data map[string]any
	// Workers bounds the number of pages rendered at once.
	Workers int
	// DryRun renders every page but writes nothing.
	DryRun bool
}

// Page is the outcome for one route.
type Page struct {
	Route string `json:"route"`
	File  string `json:"file"`
	Bytes int    `json:"bytes"`
	Error string `json:"error,omitempty"`
}

// FileFor returns the output path of route relative to the export directory.
func FileFor(route string) string {
	return filepath.FromSlash(path.Clean(route)) + ".html"
}

// Export renders routes and writes them under opts.Dir. The returned pages
// are in the order of routes. The error joins every page failure.
func Export(ctx context.Context, src source.Source, site view.Site, routes []string, opts Options) ([]Page, error) {
	if opts.Dir == "" && !opts.DryRun {
		return nil, errors.New("export directory is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	pages := make([]Page, len(routes))
	errs := make([]error, len(routes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(workers, len(routes)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pages[i], errs[i] = exportPage(ctx, src, site, routes[i], opts)
			}
		}()
	}

	for i := range routes {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			pages[i] = Page{Route: routes[i], File: FileFor(routes[i]), Error: ctx.Err().Error()}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return pages, errors.Join(errs...)
}

func exportPage(ctx context.Context, src source.Source, site view.Site, route string, opts Options) (Page, error) {
	page := Page{Route: route, File: FileFor(route)}

	v, err := view.Request{Route: route, Layout: opts.Layout}.Build(src, site)
	if err != nil {
		page.Error = err.Error()
		return page, fmt.Errorf("%s: %w", route, err)
	}

	var buf bytes.Buffer
	if err := v.Render(ctx, &buf, opts.Data); err != nil {
		page.Error = err.Error()
		return page, fmt.Errorf("%s: %w", route, err)
	}
	page.Bytes = buf.Len()
	if opts.DryRun {
		return page, nil
	}

	target := filepath.Join(opts.Dir, page.File)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		page.Error = err.Error()
		return page, fmt.Errorf("%s: creating %s: %w", route, filepath.Dir(target), err)
	}
	if err := atomic.WriteFile(target, &buf); err != nil {
		page.Error = err.Error()
		return page, fmt.Errorf("%s: writing %s: %w", route, target, err)
	}
	return page, nil
}

// Routes lists a route for every view file under the views root, sorted.
// The source must implement source.Lister.
func Routes(src source.Source, p source.Paths) ([]string, error) {
	lister, ok := src.(source.Lister)
	if !ok {
		return nil, source.ErrNotListable
	}
	p = p.WithDefaults()

	var routes []string
	var walk func(dir, prefix string) error
	walk = func(dir, prefix string) error {
		names, err := lister.List(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		for _, name := range names {
			full := path.Join(dir, name)
			if src.Exists(full) {
				if base, ok := p.TrimExt(name); ok {
					routes = append(routes, path.Join(prefix, base))
				}
				continue
			}
			if err := walk(full, path.Join(prefix, name)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(p.Views, ""); err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	return routes, nil
}
