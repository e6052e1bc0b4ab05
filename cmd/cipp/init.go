package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/config"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/source"
)

// initFlags holds the command-line flags for the init command.
type initFlags struct {
	force  bool
	dryRun bool
	dir    string
}

// initStepResult tracks the result of writing one file.
type initStepResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"` // "ok", "skipped", "failed", "dry_run"
	Message string `json:"message,omitempty"`
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create cipp.yaml and a starter template tree",
		Long: `Create a site in the current directory (or --dir):

  cipp.yaml                               site title, meta and template paths
  layouts/default/layout.html             the default layout
  layouts/default/fragments/*.html        its header and footer fragments
  views/welcome/index.html                a first page
  fragments/notice.html                   a view fragment used by that page

Existing files are left alone unless --force is given, so the command is
safe to run again.

Examples:
  cipp init
  cipp init --dir site --dry-run
  cipp render welcome/index`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Directory to create the site in")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, flags *initFlags) error {
	printer := newPrinter(cmd)

	steps := []initStepResult{initConfig(flags)}
	skeleton, err := initSkeleton(flags)
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("reading built-in skeleton", err))
	}
	steps = append(steps, skeleton...)

	failed := 0
	for _, step := range steps {
		if step.Status == "failed" {
			failed++
		}
	}

	if printer.IsJSON() {
		status := "ok"
		switch {
		case flags.dryRun:
			status = "dry_run"
		case failed > 0:
			status = "failed"
		}
		if err := printer.WriteJSON(map[string]any{"status": status, "dir": flags.dir, "steps": steps}); err != nil {
			return err
		}
	} else {
		printInitSteps(printer, flags, steps, failed)
	}

	if failed > 0 {
		return output.NewSystemError(fmt.Sprintf("%d file(s) could not be written", failed))
	}
	return nil
}

func initConfig(flags *initFlags) initStepResult {
	path := filepath.Join(flags.dir, config.SiteFile)
	step := initStepResult{Path: path}

	if flags.dryRun {
		step.Status = plannedStatus(path, flags.force)
		return step
	}
	err := config.WriteDefault(path, flags.force)
	switch {
	case errors.Is(err, config.ErrExists):
		step.Status, step.Message = "skipped", "already exists"
	case err != nil:
		step.Status, step.Message = "failed", err.Error()
	default:
		step.Status = "ok"
	}
	return step
}

// initSkeleton copies the built-in templates into the target directory.
func initSkeleton(flags *initFlags) ([]initStepResult, error) {
	var steps []initStepResult
	skeleton := source.Skeleton()

	err := fs.WalkDir(skeleton, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		target := filepath.Join(flags.dir, filepath.FromSlash(name))
		step := initStepResult{Path: target}

		if flags.dryRun {
			step.Status = plannedStatus(target, flags.force)
			steps = append(steps, step)
			return nil
		}
		if _, statErr := os.Stat(target); statErr == nil && !flags.force {
			step.Status, step.Message = "skipped", "already exists"
			steps = append(steps, step)
			return nil
		}

		data, err := fs.ReadFile(skeleton, name)
		if err != nil {
			return err
		}
		if err := writeTemplateFile(target, data); err != nil {
			step.Status, step.Message = "failed", err.Error()
		} else {
			step.Status = "ok"
		}
		steps = append(steps, step)
		return nil
	})
	return steps, err
}

func writeTemplateFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func plannedStatus(path string, force bool) string {
	if _, err := os.Stat(path); err == nil && !force {
		return "skipped"
	}
	return "dry_run"
}

func printInitSteps(printer *output.Printer, flags *initFlags, steps []initStepResult, failed int) {
	styles := printer.Styles()
	heading := "Creating site in"
	if flags.dryRun {
		heading = "Dry run: would create site in"
	}
	printer.Print("%s %s\n\n", styles.Bold.Render(heading), styles.Muted.Render(flags.dir))

	for _, step := range steps {
		printer.Print("  %s %s", initStepIcon(styles, step.Status), step.Path)
		if step.Message != "" {
			printer.Print(" %s", styles.Muted.Render("("+step.Message+")"))
		}
		printer.Println()
	}

	if flags.dryRun || failed > 0 {
		return
	}
	printer.Println()
	printer.Print("%s\n", styles.Success.Render("Site ready."))
	printer.Print("  %s\n", styles.Muted.Render("Render the welcome page:"))
	printer.Print("  %s\n", styles.Accent.Render("cipp render welcome/index"))
}

func initStepIcon(styles *output.Styles, status string) string {
	switch status {
	case "ok":
		return styles.Success.Render("ok")
	case "skipped":
		return styles.Muted.Render("--")
	case "dry_run":
		return styles.Accent.Render(">")
	case "failed":
		return styles.Error.Render("XX")
	default:
		return "??"
	}
}
