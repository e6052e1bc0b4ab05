package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	cippmcp "github.com/Swader/ciplusplus/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run cipp as a Model Context Protocol (MCP) server over stdio.

This exposes rendering and template inspection as MCP tools that any
MCP-capable agent environment can use. The site config is loaded once at
start-up, the same way the other commands load it.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "cipp": {
        "command": "cipp",
        "args": ["serve", "--site", "/path/to/cipp.yaml"]
      }
    }
  }

Available tools: render, check_route, scan_tags, list_layouts, render_meta`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			site, tmpl, err := openSite(cmd)
			if err != nil {
				return err
			}
			defer tmpl.Close()

			server := cippmcp.NewServer(buildVersion(), cippmcp.Env{Source: tmpl.Source, Site: site.View()})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
