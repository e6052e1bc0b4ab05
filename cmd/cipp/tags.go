package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/tags"
)

// tagInfo is one tag in the tags command output.
type tagInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// newTagsCmd creates the tags command.
func newTagsCmd() *cobra.Command {
	var fromSource bool

	cmd := &cobra.Command{
		Use:   "tags <file>...",
		Short: "List the {{tags}} used by template files",
		Long: `List the {{tag}} names in one or more template files, in order of first
appearance across all files, with the role each tag plays:

  system           title, meta or content, filled in by the renderer
  variable         var_<key>, filled in from caller data
  view-fragment    vf_<name>, replaced by fragments/<name>.html
  layout-fragment  lf_<name>, replaced by a fragment of the layout
  tag              set by the page

Use - to read standard input. With --source the arguments are template
paths in the site's template source, e.g. layouts/default/layout.html.

Examples:
  cipp tags views/blog/show.html layouts/default/layout.html
  cipp tags --source layouts/default/layout.html
  cat page.html | cipp tags -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(cmd, args, fromSource)
		},
	}

	cmd.Flags().BoolVar(&fromSource, "source", false, "Read the templates from the site's template source")

	return cmd
}

// runTags executes the tags command.
func runTags(cmd *cobra.Command, files []string, fromSource bool) error {
	printer := newPrinter(cmd)

	read := func(name string) (string, error) { return readTemplateFile(cmd.InOrStdin(), name) }
	if fromSource {
		_, tmpl, err := openSite(cmd)
		if err != nil {
			printer.Error(err)
			return err
		}
		defer tmpl.Close()
		read = tmpl.Read
	}

	bodies := make([]string, 0, len(files))
	for _, name := range files {
		text, err := read(name)
		if err != nil {
			return fail(printer, output.NewUserError(fmt.Sprintf("reading %s: %v", name, err)))
		}
		bodies = append(bodies, text)
	}

	names := tags.Extract(bodies...)
	found := make([]tagInfo, 0, len(names))
	for _, name := range names {
		found = append(found, tagInfo{Name: name, Kind: fragment.Classify(name)})
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"count": len(found), "tags": found})
	}
	if len(found) == 0 {
		printer.Stderr("No tags found\n")
		return nil
	}
	rows := make([][]string, 0, len(found))
	for _, t := range found {
		rows = append(rows, []string{t.Name, t.Kind})
	}
	printer.Table([]string{"TAG", "KIND"}, rows)
	return nil
}

func readTemplateFile(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}
