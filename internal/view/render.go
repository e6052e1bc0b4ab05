package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/parser"
	"github.com/Swader/ciplusplus/internal/tags"
)

// Render renders the page and writes the finished document to w in one
// write. data is exposed to the view, the layout and every fragment as
// var_<key> tags. On error nothing is written.
func (v *View) Render(ctx context.Context, w io.Writer, data map[string]any) error {
	buf := v.pool.Get()
	defer v.pool.Put(buf)

	if err := v.render(ctx, buf, data); err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// RenderString renders the page and returns the document.
func (v *View) RenderString(ctx context.Context, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := v.render(ctx, &buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (v *View) render(ctx context.Context, out *bytes.Buffer, data map[string]any) (err error) {
	layout := v.Layout()
	ctx, span := v.tracer.Start(ctx, "view.Render", trace.WithAttributes(
		attribute.String("cipp.layout", layout),
		attribute.String("cipp.view", v.ViewPath()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	log := logger(ctx).With("layout", layout, "view", v.ViewPath())

	layoutText, err := v.readLayout(layout)
	if err != nil {
		log.ErrorContext(ctx, "layout unavailable", "error", err)
		return err
	}
	fm, body, err := v.readView()
	if err != nil {
		log.ErrorContext(ctx, "view unavailable", "error", err)
		return err
	}

	title := v.title
	if !v.titleSet && fm.Title != "" {
		title = fm.Title
	}
	store, err := v.seed(log, title, data)
	if err != nil {
		return err
	}

	if err := v.resolveFragments(ctx, log, layoutText, body, store, data); err != nil {
		log.ErrorContext(ctx, "fragment unavailable", "error", err)
		return err
	}

	parser.SubstituteInPlace(store, &body)
	metaMap := meta.Merge(v.site.Meta, meta.Merge(fm.Meta, v.localMeta))
	if err := store.SetReserved(tags.Content, body); err != nil {
		return err
	}
	if err := store.SetReserved(tags.Meta, meta.Render(metaMap)); err != nil {
		return err
	}

	n, err := parser.WriteTo(out, store, layoutText)
	if err != nil {
		return fmt.Errorf("assembling document: %w", err)
	}
	log.DebugContext(ctx, "rendered page", "bytes", n, "tags", store.Names())
	return nil
}

func (v *View) readLayout(layout string) (string, error) {
	path := v.site.Paths.Layout(layout)
	text, err := v.src.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &LayoutNotFoundError{Layout: layout, Path: path, Err: err}
		}
		return "", fmt.Errorf("reading layout %q: %w", layout, err)
	}
	return text, nil
}

func (v *View) readView() (Frontmatter, string, error) {
	path := v.ViewPath()
	raw, err := v.src.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Frontmatter{}, "", &ViewNotFoundError{Path: path, Err: err}
		}
		return Frontmatter{}, "", fmt.Errorf("reading view %s: %w", path, err)
	}
	fm, body, err := ParseView(raw)
	if err != nil {
		return Frontmatter{}, "", fmt.Errorf("view %s: %w", path, err)
	}
	return fm, body, nil
}

// seed builds the render store from the author tags, the title and the
// caller data. Caller keys that cannot form a tag name are skipped.
func (v *View) seed(log *slog.Logger, title string, data map[string]any) (*tags.Store, error) {
	store := v.authorTags.Clone()
	if err := store.SetReserved(tags.Title, title); err != nil {
		return nil, err
	}
	for k := range data {
		if !tags.IsName(k) {
			log.Debug("caller data key skipped", "key", k)
		}
	}
	if err := store.SetMany(fragment.Vars(data)); err != nil {
		return nil, err
	}
	return store, nil
}

func (v *View) resolveFragments(ctx context.Context, log *slog.Logger, layoutText, body string, store *tags.Store, data map[string]any) error {
	_, span := v.tracer.Start(ctx, "view.resolveFragments")
	defer span.End()

	names := tags.Extract(layoutText, body)
	r := v.resolver(log, data)
	resolved := 0
	for _, name := range names {
		_, ok, err := r.Resolve(name, store)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if ok {
			resolved++
		}
	}
	span.SetAttributes(attribute.Int("cipp.tags", len(names)), attribute.Int("cipp.fragments", resolved))
	return nil
}

func (v *View) resolver(log *slog.Logger, data map[string]any) *fragment.Resolver {
	return fragment.New(v.src, v.site.Paths, v.Layout(), data,
		fragment.WithMaxDepth(v.site.FragmentDepth),
		fragment.WithLogger(log),
	)
}
