package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/envfile"
	"github.com/Swader/ciplusplus/internal/meta"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/view"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	layout       string
	file         string
	folder       string
	title        string
	appendTitle  string
	prependTitle string
	data         []string
	dataFiles    []string
	tags         []string
	meta         []string
	out          string
}

// renderResult is the JSON output of the render command.
type renderResult struct {
	Document string `json:"document"`
	Layout   string `json:"layout"`
	View     string `json:"view"`
	Out      string `json:"out,omitempty"`
}

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <directory/controller/action>",
		Short: "Render a page into its layout",
		Long: `Render the page for a route and print the finished document.

The route names the view: blog/show reads views/blog/show.html and
admin/users/edit reads views/admin/users/edit.html. --file and --folder
override that location. Nothing is printed or written unless the whole
page renders.

Examples:
  cipp render welcome/index
  cipp render blog/show --title "Hello" --tag body="<p>Hi</p>"
  cipp render blog/show --data user=ann --data-file post.env
  cipp render blog/show --meta og:type=property:article --out public/post.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.layout, "layout", "", "Layout to render into (default from site config)")
	cmd.Flags().StringVar(&flags.file, "file", "", "View file name, overriding the route action")
	cmd.Flags().StringVar(&flags.folder, "folder", "", "View folder, overriding the route directory and controller")
	cmd.Flags().StringVar(&flags.title, "title", "", "Page title, replacing the site title")
	cmd.Flags().StringVar(&flags.appendTitle, "append-title", "", "Text added after the title")
	cmd.Flags().StringVar(&flags.prependTitle, "prepend-title", "", "Text added before the title")
	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "Caller data as key=value, exposed as {{var_key}} (repeatable)")
	cmd.Flags().StringArrayVar(&flags.dataFiles, "data-file", nil, "KEY=VALUE file of caller data (repeatable; --data wins)")
	cmd.Flags().StringArrayVar(&flags.tags, "tag", nil, "Author tag as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&flags.meta, "meta", nil, "Page meta entry as name=attr:content (repeatable)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the document to this file instead of stdout")

	return cmd
}

// runRender executes the render command.
func runRender(cmd *cobra.Command, flags *renderFlags, route string) error {
	printer := newPrinter(cmd)

	req, data, err := flags.request(route)
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

	v, err := req.Build(tmpl, site.View())
	if err != nil {
		return fail(printer, err)
	}

	var buf bytes.Buffer
	if err := v.Render(cmd.Context(), &buf, data); err != nil {
		return fail(printer, err)
	}

	if flags.out != "" {
		if err := atomic.WriteFile(flags.out, bytes.NewReader(buf.Bytes())); err != nil {
			return fail(printer, output.NewSystemErrorWithCause(fmt.Sprintf("writing %s: %v", flags.out, err), err))
		}
	}

	if printer.IsJSON() {
		return printer.WriteJSON(renderResult{
			Document: buf.String(),
			Layout:   v.LayoutPath(),
			View:     v.ViewPath(),
			Out:      flags.out,
		})
	}
	if flags.out != "" {
		return printer.Success(map[string]any{
			"message": fmt.Sprintf("Wrote %s (%d bytes)", flags.out, buf.Len()),
		})
	}
	printer.Document(buf.String())
	return nil
}

// request turns the flags into a view request and the caller data.
func (f *renderFlags) request(route string) (view.Request, map[string]any, error) {
	req := view.Request{
		Route:        route,
		Layout:       f.layout,
		File:         f.file,
		Folder:       f.folder,
		Title:        f.title,
		AppendTitle:  f.appendTitle,
		PrependTitle: f.prependTitle,
	}

	var err error
	if req.Tags, err = parsePairs("tag", f.tags); err != nil {
		return view.Request{}, nil, err
	}
	if req.Meta, err = parseMeta(f.meta); err != nil {
		return view.Request{}, nil, err
	}
	data, err := loadData(f.dataFiles, f.data)
	if err != nil {
		return view.Request{}, nil, err
	}
	return req, data, nil
}

// parsePairs parses repeated key=value flag values. Later keys win.
func parsePairs(flag string, values []string) (map[string]any, error) {
	pairs := make(map[string]any, len(values))
	for _, kv := range values {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, output.NewUserError(fmt.Sprintf("--%s %q: want key=value", flag, kv))
		}
		pairs[key] = value
	}
	return pairs, nil
}

func parseMeta(values []string) ([]meta.Entry, error) {
	entries := make([]meta.Entry, 0, len(values))
	for _, s := range values {
		e, err := meta.ParseEntry(s)
		if err != nil {
			return nil, output.NewUserError("--" + err.Error())
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// loadData reads the data files in order, then applies the --data pairs.
func loadData(files []string, pairs []string) (map[string]any, error) {
	data := make(map[string]any)
	for _, path := range files {
		read, err := envfile.Read(path)
		if err != nil {
			return nil, output.NewUserError(err.Error())
		}
		for k, v := range envfile.Map(read) {
			data[k] = v
		}
	}
	flagData, err := parsePairs("data", pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range flagData {
		data[k] = v
	}
	return data, nil
}
