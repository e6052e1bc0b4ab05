package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/config"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/source"
	"github.com/Swader/ciplusplus/internal/view"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version   string        `json:"version"`
	Config    []checkResult `json:"config"`
	Templates []checkResult `json:"templates"`
	Summary   doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the site configuration and templates",
		Long: `Check that the site configuration loads and its templates are reachable.

Runs checks in two categories:
  CONFIG     - Which site file is used and whether it is valid
  TEMPLATES  - Template source, default layout and views

Examples:
  cipp doctor              # Run all checks
  cipp doctor --quiet      # Only show failures and warnings
  cipp doctor --json       # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, quiet)
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

// runDoctor executes the doctor command.
func runDoctor(cmd *cobra.Command, quiet bool) error {
	printer := newPrinter(cmd)

	result := &doctorResult{Version: version}
	site, configChecks := runConfigChecks(cmd)
	result.Config = configChecks
	if site != nil {
		result.Templates = runTemplateChecks(cmd, site)
	}

	for _, check := range append(append([]checkResult{}, result.Config...), result.Templates...) {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(result); err != nil {
			return err
		}
	} else {
		outputDoctorHuman(printer, result, quiet)
	}

	if result.Summary.Failed > 0 {
		return output.NewSystemError(fmt.Sprintf("%d check(s) failed", result.Summary.Failed))
	}
	return nil
}

func runConfigChecks(cmd *cobra.Command) (*config.Site, []checkResult) {
	site, err := loadSite(cmd)
	if err != nil {
		return nil, []checkResult{{
			Name:    "Site config",
			Status:  checkFail,
			Message: err.Error(),
			Hint:    "fix the file or run 'cipp init --force' to recreate it",
		}}
	}

	if site.Path == "" {
		return site, []checkResult{{
			Name:    "Site config",
			Status:  checkWarn,
			Message: "no site file found in " + strings.Join(config.SearchPaths(), ", ") + ", using built-in defaults",
			Hint:    "run 'cipp init' to create one",
		}}
	}
	return site, []checkResult{{
		Name:    "Site config",
		Status:  checkPass,
		Message: site.Path,
	}}
}

func runTemplateChecks(cmd *cobra.Command, site *config.Site) []checkResult {
	var checks []checkResult

	if site.Source.Driver == config.DriverFS {
		checks = append(checks, checkRootDir(site.Root()))
	}

	tmpl, err := site.OpenSource(cmd.Context())
	if err != nil {
		return append(checks, checkResult{
			Name:    "Template source",
			Status:  checkFail,
			Message: err.Error(),
		})
	}
	defer tmpl.Close()
	checks = append(checks, checkResult{
		Name:    "Template source",
		Status:  checkPass,
		Message: fmt.Sprintf("%s driver, cache %s", site.Source.Driver, enabledText(site.Cache.Enabled)),
	})

	def := site.Layout
	if def == "" {
		def = view.DefaultLayout
	}
	layoutPath := site.Paths.Layout(def)
	if tmpl.Exists(layoutPath) {
		checks = append(checks, checkResult{Name: "Default layout", Status: checkPass, Message: layoutPath})
	} else {
		checks = append(checks, checkResult{
			Name:    "Default layout",
			Status:  checkFail,
			Message: layoutPath + " not found",
			Hint:    "create it or set layout: in cipp.yaml",
		})
	}

	layouts, err := source.Layouts(tmpl.Source, site.Paths)
	switch {
	case err != nil:
		checks = append(checks, checkResult{Name: "Layouts", Status: checkWarn, Message: err.Error()})
	default:
		checks = append(checks, checkResult{Name: "Layouts", Status: checkPass, Message: fmt.Sprintf("%d available", len(layouts))})
	}
	return checks
}

func checkRootDir(root string) checkResult {
	info, err := os.Stat(root)
	switch {
	case err != nil:
		return checkResult{
			Name:    "Template root",
			Status:  checkWarn,
			Message: root + " not found, only built-in templates are available",
			Hint:    "run 'cipp init' or set source.root in cipp.yaml",
		}
	case !info.IsDir():
		return checkResult{Name: "Template root", Status: checkFail, Message: root + " is not a directory"}
	default:
		return checkResult{Name: "Template root", Status: checkPass, Message: root}
	}
}

func enabledText(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Print("cipp doctor v%s\n", result.Version)

	printCheckSection(printer, "CONFIG", result.Config, quiet)
	printCheckSection(printer, "TEMPLATES", result.Templates, quiet)

	printer.Println()
	printer.Print("%d passed  %d warnings  %d failed\n",
		result.Summary.Passed, result.Summary.Warnings, result.Summary.Failed)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	var shown []checkResult
	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}
		shown = append(shown, check)
	}
	if len(shown) == 0 {
		return
	}

	printer.Section(title)
	for _, check := range shown {
		printer.Check(string(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("      -> %s\n", check.Hint)
		}
	}
}
