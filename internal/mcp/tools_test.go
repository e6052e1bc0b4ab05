package mcp

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// --- Test helpers ---

func testEnv() Env {
	files := fstest.MapFS{
		"layouts/default/layout.html":        {Data: []byte(`<title>{{title}}</title>{{meta}}{{lf_nav}}{{content}}`)},
		"layouts/default/fragments/nav.html": {Data: []byte(`<nav>{{var_user}}</nav>`)},
		"layouts/print/layout.html":          {Data: []byte(`{{content}}`)},
		"views/blog/show.html":               {Data: []byte(`<h1>{{title}}</h1>{{body}}{{vf_share}}`)},
		"fragments/share.html":               {Data: []byte(`<a>share {{var_id}}</a>`)},
		"views/blog/draft.html":              {Data: []byte(`{{vf_gone}}{{nobody}}`)},
	}
	return Env{
		Source: source.NewFS("test", files),
		Site: view.Site{
			Title: "Site",
			Meta: meta.NewMap(
				meta.Entry{Name: "description", Attr: meta.AttrName, Content: "site"},
				meta.Entry{Name: "viewport", Attr: meta.AttrName, Content: "width=device-width"},
			),
		},
	}
}

// --- Render handler tests ---

func TestHandleRender(t *testing.T) {
	handler := handleRender(testEnv())

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, RenderInput{
		Route:       "blog/show",
		Title:       "Post",
		AppendTitle: " | Site",
		Tags:        map[string]string{"body": "<p>hi</p>"},
		Data:        map[string]any{"user": "ann", "id": float64(7)},
		Meta:        []MetaInput{{Name: "description", Attr: "name", Content: "post"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<title>Post | Site</title>` +
		`<meta name="description" content="post" /><meta name="viewport" content="width=device-width" />` +
		`<nav>ann</nav><h1>Post | Site</h1><p>hi</p><a>share 7</a>`
	if out.Document != want {
		t.Errorf("Document =\n%s\nwant\n%s", out.Document, want)
	}
	if out.Layout != "layouts/default/layout.html" || out.View != "views/blog/show.html" {
		t.Errorf("paths = %q, %q", out.Layout, out.View)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	handler := handleRender(testEnv())

	tests := []struct {
		name  string
		input RenderInput
		want  string
	}{
		{"no route", RenderInput{}, "route is required"},
		{"protected tag", RenderInput{Route: "blog/show", Tags: map[string]string{"content": "x"}}, "protected"},
		{"missing layout", RenderInput{Route: "blog/show", Layout: "nope"}, "layout"},
		{"missing fragment", RenderInput{Route: "blog/draft"}, "vf_gone"},
		{"nested data", RenderInput{Route: "blog/show", Data: map[string]any{"user": map[string]any{"a": 1}}}, "var_user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, tt.input)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

// --- Check handler tests ---

func TestHandleCheck(t *testing.T) {
	handler := handleCheck(testEnv())

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, CheckInput{Route: "blog/draft", Layout: "print"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OK {
		t.Error("OK = true, want false")
	}
	if len(out.Problems) != 2 {
		t.Fatalf("Problems = %+v, want 2", out.Problems)
	}
	if out.Problems[0].Kind != view.ProblemFragment || out.Problems[1].Name != "nobody" {
		t.Errorf("Problems = %+v", out.Problems)
	}

	_, out, err = handler(context.Background(), &mcp.CallToolRequest{}, CheckInput{Route: "blog/show", Layout: "print"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OK || len(out.Problems) != 2 {
		t.Errorf("missing body and var_id should be reported: %+v", out.Problems)
	}
}

// --- Scan tags handler tests ---

func TestHandleScanTags(t *testing.T) {
	handler := handleScanTags()

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ScanTagsInput{
		Text: `{{title}}{{vf_a}}{{lf_b}}{{var_c}}{{d}}{{title}}{{ bad }}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TagInfo{
		{"title", "system"},
		{"vf_a", "view-fragment"},
		{"lf_b", "layout-fragment"},
		{"var_c", "variable"},
		{"d", "tag"},
	}
	if out.Count != len(want) || len(out.Tags) != len(want) {
		t.Fatalf("Tags = %+v", out.Tags)
	}
	for i := range want {
		if out.Tags[i] != want[i] {
			t.Errorf("Tags[%d] = %+v, want %+v", i, out.Tags[i], want[i])
		}
	}
}

// --- List layouts handler tests ---

func TestHandleListLayouts(t *testing.T) {
	handler := handleListLayouts(testEnv())

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListLayoutsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Default != "default" {
		t.Errorf("Default = %q, want default", out.Default)
	}
	if len(out.Layouts) != 2 || out.Layouts[0].Name != "default" || out.Layouts[1].Name != "print" {
		t.Fatalf("Layouts = %+v", out.Layouts)
	}
	if frags := out.Layouts[0].Fragments; len(frags) != 1 || frags[0] != "nav" {
		t.Errorf("default fragments = %v, want [nav]", frags)
	}
}

// --- Render meta handler tests ---

func TestHandleRenderMeta(t *testing.T) {
	handler := handleRenderMeta(testEnv())

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, RenderMetaInput{
		Meta: []MetaInput{
			{Name: "viewport", Attr: "name", Content: "width=1024"},
			{Name: "og:type", Attr: "property", Content: "article"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<meta name="description" content="site" />` +
		`<meta name="viewport" content="width=1024" />` +
		`<meta property="og:type" content="article" />`
	if out.Markup != want {
		t.Errorf("Markup = %s\nwant %s", out.Markup, want)
	}
	if len(out.Entries) != 3 {
		t.Errorf("Entries = %+v", out.Entries)
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	server := NewServer("test-version", testEnv())
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
}
