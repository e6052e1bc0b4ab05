package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/tags"
	"github.com/Swader/ciplusplus/internal/view"
)

// --- Shared types ---

// MetaInput is one page meta entry.
type MetaInput struct {
	Name    string `json:"name"    jsonschema:"meta name, e.g. description or og:type"`
	Attr    string `json:"attr"    jsonschema:"attribute that carries the name: name, property or http-equiv"`
	Content string `json:"content" jsonschema:"value of the content attribute"`
}

func toEntries(in []MetaInput) []meta.Entry {
	entries := make([]meta.Entry, 0, len(in))
	for _, m := range in {
		entries = append(entries, meta.Entry{Name: m.Name, Attr: m.Attr, Content: m.Content})
	}
	return entries
}

func toTagValues(in map[string]string) map[string]any {
	values := make(map[string]any, len(in))
	for k, v := range in {
		values[k] = v
	}
	return values
}

// --- Render tool ---

// RenderInput is the input for the render tool.
type RenderInput struct {
	Route        string            `json:"route"                   jsonschema:"route as directory/controller/action, e.g. blog/show"`
	Layout       string            `json:"layout,omitempty"        jsonschema:"layout to render into (default from site config)"`
	File         string            `json:"file,omitempty"          jsonschema:"view file name overriding the route action"`
	Folder       string            `json:"folder,omitempty"        jsonschema:"view folder overriding the route directory and controller"`
	Title        string            `json:"title,omitempty"         jsonschema:"page title replacing the site title"`
	PrependTitle string            `json:"prepend_title,omitempty" jsonschema:"text added before the title"`
	AppendTitle  string            `json:"append_title,omitempty"  jsonschema:"text added after the title"`
	Tags         map[string]string `json:"tags,omitempty"          jsonschema:"author tag values by name; title, meta and content are reserved"`
	Data         map[string]any    `json:"data,omitempty"          jsonschema:"caller data exposed to every template as var_<key>; values must be strings, numbers or booleans"`
	Meta         []MetaInput       `json:"meta,omitempty"          jsonschema:"page meta entries merged over the site meta"`
}

// RenderOutput is the output for the render tool.
type RenderOutput struct {
	Document string `json:"document" jsonschema:"the rendered HTML document"`
	Layout   string `json:"layout"   jsonschema:"path of the layout used"`
	View     string `json:"view"     jsonschema:"path of the view used"`
}

func handleRender(env Env) mcp.ToolHandlerFor[RenderInput, RenderOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
		if input.Route == "" {
			return nil, RenderOutput{}, errors.New("route is required")
		}
		v, err := view.Request{
			Route:        input.Route,
			Layout:       input.Layout,
			File:         input.File,
			Folder:       input.Folder,
			Title:        input.Title,
			PrependTitle: input.PrependTitle,
			AppendTitle:  input.AppendTitle,
			Tags:         toTagValues(input.Tags),
			Meta:         toEntries(input.Meta),
		}.Build(env.Source, env.Site)
		if err != nil {
			return nil, RenderOutput{}, err
		}

		doc, err := v.RenderString(ctx, input.Data)
		if err != nil {
			return nil, RenderOutput{}, fmt.Errorf("rendering %s: %w", v.Route(), err)
		}
		return nil, RenderOutput{Document: doc, Layout: v.LayoutPath(), View: v.ViewPath()}, nil
	}
}

// --- Check tool ---

// CheckInput is the input for the check_route tool.
type CheckInput struct {
	Route  string         `json:"route"            jsonschema:"route as directory/controller/action"`
	Layout string         `json:"layout,omitempty" jsonschema:"layout to check against (default from site config)"`
	File   string         `json:"file,omitempty"   jsonschema:"view file name overriding the route action"`
	Folder string         `json:"folder,omitempty" jsonschema:"view folder overriding the route directory and controller"`
	Data   map[string]any `json:"data,omitempty"   jsonschema:"caller data that would be passed to the render"`
}

// CheckOutput is the output for the check_route tool.
type CheckOutput struct {
	OK         bool           `json:"ok"          jsonschema:"true when the route would render with every tag filled in"`
	LayoutPath string         `json:"layout_path" jsonschema:"path of the layout checked"`
	ViewPath   string         `json:"view_path"   jsonschema:"path of the view checked"`
	Problems   []view.Problem `json:"problems"    jsonschema:"missing templates and tags that would render literally"`
}

func handleCheck(env Env) mcp.ToolHandlerFor[CheckInput, CheckOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, CheckOutput, error) {
		v, err := view.Request{
			Route:  input.Route,
			Layout: input.Layout,
			File:   input.File,
			Folder: input.Folder,
		}.Build(env.Source, env.Site)
		if err != nil {
			return nil, CheckOutput{}, err
		}
		rep, err := v.Check(input.Data)
		if err != nil {
			return nil, CheckOutput{}, fmt.Errorf("checking %s: %w", v.Route(), err)
		}
		return nil, CheckOutput{
			OK:         rep.OK(),
			LayoutPath: rep.LayoutPath,
			ViewPath:   rep.ViewPath,
			Problems:   rep.Problems,
		}, nil
	}
}

// --- Scan tags tool ---

// ScanTagsInput is the input for the scan_tags tool.
type ScanTagsInput struct {
	Text string `json:"text" jsonschema:"template text to scan"`
}

// TagInfo is one discovered tag.
type TagInfo struct {
	Name string `json:"name" jsonschema:"tag name without braces"`
	Kind string `json:"kind" jsonschema:"system, variable, view-fragment, layout-fragment or tag"`
}

// ScanTagsOutput is the output for the scan_tags tool.
type ScanTagsOutput struct {
	Count int       `json:"count" jsonschema:"number of distinct tags"`
	Tags  []TagInfo `json:"tags"  jsonschema:"tags in order of first appearance"`
}

func handleScanTags() mcp.ToolHandlerFor[ScanTagsInput, ScanTagsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ScanTagsInput) (*mcp.CallToolResult, ScanTagsOutput, error) {
		names := tags.Extract(input.Text)
		out := ScanTagsOutput{Count: len(names), Tags: make([]TagInfo, 0, len(names))}
		for _, name := range names {
			out.Tags = append(out.Tags, TagInfo{Name: name, Kind: fragment.Classify(name)})
		}
		return nil, out, nil
	}
}

// --- List layouts tool ---

// ListLayoutsInput is the input for the list_layouts tool (no parameters needed).
type ListLayoutsInput struct{}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Default string              `json:"default" jsonschema:"layout used when none is selected"`
	Layouts []source.LayoutInfo `json:"layouts" jsonschema:"available layouts with their fragments"`
}

func handleListLayouts(env Env) mcp.ToolHandlerFor[ListLayoutsInput, ListLayoutsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListLayoutsInput) (*mcp.CallToolResult, ListLayoutsOutput, error) {
		layouts, err := source.Layouts(env.Source, env.Site.Paths)
		if err != nil {
			return nil, ListLayoutsOutput{}, fmt.Errorf("listing layouts: %w", err)
		}
		def := env.Site.Layout
		if def == "" {
			def = view.DefaultLayout
		}
		return nil, ListLayoutsOutput{Default: def, Layouts: layouts}, nil
	}
}

// --- Render meta tool ---

// RenderMetaInput is the input for the render_meta tool.
type RenderMetaInput struct {
	Meta []MetaInput `json:"meta,omitempty" jsonschema:"page meta entries; an entry named like a site entry replaces it in place"`
}

// RenderMetaOutput is the output for the render_meta tool.
type RenderMetaOutput struct {
	Entries []meta.Entry `json:"entries" jsonschema:"merged entries in output order"`
	Markup  string       `json:"markup"  jsonschema:"the <meta> elements as rendered into {{meta}}"`
}

func handleRenderMeta(env Env) mcp.ToolHandlerFor[RenderMetaInput, RenderMetaOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input RenderMetaInput) (*mcp.CallToolResult, RenderMetaOutput, error) {
		merged := meta.Merge(env.Site.Meta, meta.NewMap(toEntries(input.Meta)...))
		return nil, RenderMetaOutput{Entries: merged.Entries(), Markup: meta.Render(merged)}, nil
	}
}
