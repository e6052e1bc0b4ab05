package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// newLayoutsCmd creates the layouts command.
func newLayoutsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List available layouts and their fragments",
		Long: `List the layouts in the site's template source and the built-in skeleton.

A layout is a folder under the layouts root holding layout.html. Its
fragments live in the folder's fragments/ directory and are used in
templates as {{lf_<name>}}.`,
		Args: cobra.NoArgs,
		RunE: runLayouts,
	}
}

// runLayouts executes the layouts command.
func runLayouts(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	site, tmpl, err := openSite(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	defer tmpl.Close()

	layouts, err := source.Layouts(tmpl.Source, site.Paths)
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("listing layouts: "+err.Error(), err))
	}
	def := site.Layout
	if def == "" {
		def = view.DefaultLayout
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"default": def, "layouts": layouts})
	}
	if len(layouts) == 0 {
		printer.Stderr("No layouts found\n")
		return nil
	}
	rows := make([][]string, 0, len(layouts))
	for _, l := range layouts {
		name := l.Name
		if name == def {
			name += " *"
		}
		rows = append(rows, []string{name, l.Origin, strings.Join(l.Fragments, ", ")})
	}
	printer.Table([]string{"LAYOUT", "SOURCE", "FRAGMENTS"}, rows)
	return nil
}
