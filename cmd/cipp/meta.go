package main

import (
	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/output"
)

// newMetaCmd creates the meta command.
func newMetaCmd() *cobra.Command {
	var entries []string

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show the merged meta entries and their markup",
		Long: `Show the site's meta entries merged with page entries given by --meta,
and the markup that replaces {{meta}} in the layout.

A page entry with the same name as a site entry replaces it in place;
new names are added at the end.

Examples:
  cipp meta
  cipp meta --meta description=name:"About us" --meta og:type=property:article`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMeta(cmd, entries)
		},
	}

	cmd.Flags().StringArrayVar(&entries, "meta", nil, "Page meta entry as name=attr:content (repeatable)")

	return cmd
}

// runMeta executes the meta command.
func runMeta(cmd *cobra.Command, flagEntries []string) error {
	printer := newPrinter(cmd)

	local, err := parseMeta(flagEntries)
	if err != nil {
		printer.Error(err)
		return err
	}
	site, err := loadSite(cmd)
	if err != nil {
		return fail(printer, output.NewUserError(err.Error()))
	}

	merged := meta.Merge(site.Meta, meta.NewMap(local...))
	markup := meta.Render(merged)

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"entries": merged.Entries(), "markup": markup})
	}
	rows := make([][]string, 0, merged.Len())
	for _, e := range merged.Entries() {
		rows = append(rows, []string{e.Name, e.Attr, e.Content})
	}
	printer.Table([]string{"NAME", "ATTR", "CONTENT"}, rows)
	printer.Section("Markup")
	printer.Println(markup)
	return nil
}
