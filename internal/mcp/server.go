// Package mcp provides a Model Context Protocol server for cipp.
// It exposes page rendering and template inspection as MCP tools that any
// MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// Env is what the tools render against: the template source and the site
// settings every view starts from.
type Env struct {
	Source source.Source
	Site   view.Site
}

// NewServer creates an MCP server with all cipp tools registered.
func NewServer(version string, env Env) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cipp",
		Version: version,
	}, nil)
	registerTools(server, env)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for tools that only read templates.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

func registerTools(server *mcp.Server, env Env) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "render",
		Description: "Render a page for a route (directory/controller/action) into its layout. Returns the complete HTML document.",
		Annotations: readOnlyAnnotations(),
	}, handleRender(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_route",
		Description: "Check the templates a route would render without rendering: missing layout, view or fragments, and tags that would be left in the output as written.",
		Annotations: readOnlyAnnotations(),
	}, handleCheck(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_tags",
		Description: "List the {{tag}} names in a template text in order of first appearance, with the role each plays (system, variable, view-fragment, layout-fragment, tag).",
		Annotations: readOnlyAnnotations(),
	}, handleScanTags())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_layouts",
		Description: "List the available layouts and the fragments each one owns.",
		Annotations: readOnlyAnnotations(),
	}, handleListLayouts(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_meta",
		Description: "Merge page meta entries over the site meta and return the entries and their <meta> markup.",
		Annotations: readOnlyAnnotations(),
	}, handleRenderMeta(env))
}
