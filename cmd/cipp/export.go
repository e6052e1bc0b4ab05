package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/export"
	"github.com/Swader/ciplusplus/internal/output"
)

type exportFlags struct {
	dir       string
	all       bool
	layout    string
	data      []string
	dataFiles []string
	parallel  int
	dryRun    bool
}

// exportResult is the JSON output of the export command.
type exportResult struct {
	Dir    string        `json:"dir"`
	DryRun bool          `json:"dry_run,omitempty"`
	Pages  []export.Page `json:"pages"`
	Failed int           `json:"failed"`
}

func newExportCmd() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export [route...]",
		Short: "Render pages to HTML files",
		Long: `Render each route and write it under the export directory.

blog/show is written to <dir>/blog/show.html. With --all every view in the
template source is exported. Pages that fail are reported and the rest are
still written.

Examples:
  cipp export welcome/index blog/show
  cipp export --all --dir public
  cipp export --all --data-file site.env --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "public", "Output directory")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Export every view in the template source")
	cmd.Flags().StringVar(&flags.layout, "layout", "", "Layout for every page (default from site config)")
	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "Caller data as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&flags.dataFiles, "data-file", nil, "KEY=VALUE file of caller data (repeatable; --data wins)")
	cmd.Flags().IntVar(&flags.parallel, "parallel", export.DefaultWorkers, "Pages rendered at once")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Render every page without writing files")

	return cmd
}

func runExport(cmd *cobra.Command, flags *exportFlags, routes []string) error {
	printer := newPrinter(cmd)

	if len(routes) == 0 && !flags.all {
		err := output.NewUserError("name at least one route or pass --all")
		printer.Error(err)
		return err
	}
	if len(routes) > 0 && flags.all {
		err := output.NewUserError("--all cannot be combined with routes")
		printer.Error(err)
		return err
	}
	if flags.parallel <= 0 {
		err := output.NewUserError("parallel must be positive, got " + strconv.Itoa(flags.parallel))
		printer.Error(err)
		return err
	}

	data, err := loadData(flags.dataFiles, flags.data)
	if err != nil {
		printer.Error(err)
		return err
	}

	site, tmpl, err := openSite(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	defer tmpl.Close()

	if flags.all {
		if routes, err = export.Routes(tmpl.Source, site.Paths); err != nil {
			return fail(printer, output.NewSystemErrorWithCause(err.Error(), err))
		}
	}

	pages, exportErr := export.Export(cmd.Context(), tmpl, site.View(), routes, export.Options{
		Dir:     flags.dir,
		Layout:  flags.layout,
		Data:    data,
		Workers: flags.parallel,
		DryRun:  flags.dryRun,
	})

	result := exportResult{Dir: flags.dir, DryRun: flags.dryRun, Pages: pages}
	for _, p := range pages {
		if p.Error != "" {
			result.Failed++
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(result); err != nil {
			return err
		}
	} else {
		printExportPages(printer, result)
	}

	if exportErr != nil {
		return exitError(exportErr)
	}
	return nil
}

func printExportPages(printer *output.Printer, result exportResult) {
	if len(result.Pages) == 0 {
		printer.Println("No views to export")
		return
	}
	rows := make([][]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		status := strconv.Itoa(p.Bytes) + " bytes"
		if p.Error != "" {
			status = "error: " + p.Error
		}
		rows = append(rows, []string{p.Route, p.File, status})
	}
	printer.Table([]string{"ROUTE", "FILE", "RESULT"}, rows)

	verb := "Wrote"
	if result.DryRun {
		verb = "Would write"
	}
	printer.Print("%s %d page(s) to %s, %d failed\n", verb, len(result.Pages)-result.Failed, result.Dir, result.Failed)
}
