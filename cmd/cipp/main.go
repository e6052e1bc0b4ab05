// Package main provides the entry point for the cipp CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/config"
	"github.com/Swader/ciplusplus/internal/envfile"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/view"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag != nil && flag.Value.String() == "true"
}

func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// newPrinter builds the printer for a command from --json and --color.
func newPrinter(cmd *cobra.Command) *output.Printer {
	out := cmd.OutOrStdout()
	isTTY := output.ResolveColorMode(stringFlag(cmd, "color"), output.IsTTY(out))
	return output.NewPrinter(out, isJSONMode(cmd), isTTY).WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the cipp CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cipp",
		Short: "Layouts, views and fragments for HTML pages",
		Long: `cipp renders HTML pages from layouts, views and fragments.

A page is a view file rendered into a layout. Templates use {{tag}}
placeholders: {{title}}, {{meta}} and {{content}} are filled in by the
renderer, {{vf_name}} and {{lf_name}} pull in view and layout fragments,
{{var_key}} exposes caller data, and every other tag is set by the page.

Templates are read from the directory (or SQLite database) named in
cipp.yaml, falling back to a built-in skeleton.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := newPrinter(cmd)
				err := output.NewUserError("no command specified. Run 'cipp --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) so CIPP_* settings can live next to the
	// project. Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles()
		if err := output.ValidateColorMode(stringFlag(cmd, "color")); err != nil {
			return output.NewUserError(err.Error())
		}
		cmd.SetContext(view.LoggingContext(cmd.Context(), newLogger(cmd)))
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", output.ColorAuto, "Color output: auto, always or never")
	cmd.PersistentFlags().String("site", "", "Site config file (default: $CIPP_SITE, ./cipp.yaml, then the global site.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log render steps to stderr")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// newLogger returns the logger render diagnostics go to: warnings only by
// default, everything with --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if boolFlag(cmd, "verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. <config dir>/env
func loadEnvFiles() {
	_ = envfile.Load(".env.local")
	_ = envfile.Load(".env")

	if dir := config.Dir(); dir != "" {
		_ = envfile.Load(filepath.Join(dir, "env"))
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "render", Title: "Render Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "inspect", Title: "Inspect Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newRenderCmd(), "render")
	addGroupedCommand(cmd, newCheckCmd(), "render")
	addGroupedCommand(cmd, newExportCmd(), "render")

	addGroupedCommand(cmd, newTagsCmd(), "inspect")
	addGroupedCommand(cmd, newLayoutsCmd(), "inspect")
	addGroupedCommand(cmd, newMetaCmd(), "inspect")

	addGroupedCommand(cmd, newInitCmd(), "admin")
	addGroupedCommand(cmd, newDoctorCmd(), "admin")
	addGroupedCommand(cmd, newServeCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
