package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/tags"
	"github.com/Swader/ciplusplus/internal/view"
)

// checkFlags holds the command-line flags for the check command.
type checkFlags struct {
	layout string
	data   []string
	strict bool
}

// checkSummary is the JSON output of the check command.
type checkSummary struct {
	OK     bool          `json:"ok"`
	Routes []view.Report `json:"routes"`
}

// newCheckCmd creates the check command.
func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <route>...",
		Short: "Check routes for missing templates and unset tags",
		Long: `Check that each route can be rendered without rendering it.

Reports a missing layout, view or fragment, which would stop the render,
and tags with no value, which would appear in the page as written.

Exits 4 if any template is missing. Unset tags are warnings unless
--strict is given, which makes them fail with exit code 1.

Examples:
  cipp check welcome/index blog/show
  cipp check blog/show --data user=ann --strict
  cipp check blog/show --layout print --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.layout, "layout", "", "Layout to check against (default from site config)")
	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "Caller data as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail when a tag would render literally")

	return cmd
}

// runCheck executes the check command.
func runCheck(cmd *cobra.Command, flags *checkFlags, routes []string) error {
	printer := newPrinter(cmd)

	data, err := parsePairs("data", flags.data)
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

	summary := checkSummary{OK: true, Routes: make([]view.Report, 0, len(routes))}
	missing, literal := 0, 0
	for _, route := range routes {
		v, err := view.Request{Route: route, Layout: flags.layout}.Build(tmpl, site.View())
		if err != nil {
			return fail(printer, err)
		}
		rep, err := v.Check(data)
		if err != nil {
			return fail(printer, err)
		}
		for _, p := range rep.Problems {
			if p.Kind == view.ProblemTag {
				literal++
			} else {
				missing++
			}
		}
		summary.Routes = append(summary.Routes, rep)
	}
	summary.OK = missing == 0 && (literal == 0 || !flags.strict)

	if printer.IsJSON() {
		if err := printer.WriteJSON(summary); err != nil {
			return err
		}
	} else {
		printCheckReports(printer, summary.Routes)
	}

	switch {
	case missing > 0:
		return output.NewNotFoundError(fmt.Sprintf("%d missing template(s)", missing), nil)
	case literal > 0 && flags.strict:
		return output.NewUserError(fmt.Sprintf("%d tag(s) would render literally", literal))
	}
	return nil
}

func printCheckReports(printer *output.Printer, reports []view.Report) {
	for _, rep := range reports {
		printer.Section(rep.Route)
		printer.KeyValue("Layout", rep.LayoutPath)
		printer.KeyValue("View", rep.ViewPath)
		if rep.OK() {
			printer.Check("pass", "ok", "every template found and every tag set")
			continue
		}
		for _, p := range rep.Problems {
			status, name := "fail", p.Name
			if p.Kind == view.ProblemTag {
				status, name = "warn", tags.Delimit(p.Name)
			}
			msg := p.Message
			if p.Path != "" {
				msg += " (" + p.Path + ")"
			}
			printer.Check(status, name, msg)
		}
	}
}
