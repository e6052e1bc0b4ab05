package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes command results either as styled text or as JSON.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	isTTY  bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Accent  lipgloss.Style
}

func colorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:   lipgloss.NewStyle().Faint(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:   plain,
		Success: plain,
		Warning: plain,
		Bold:    plain,
		Title:   plain,
		Muted:   plain,
		Key:     plain,
		Accent:  plain,
	}
}

// NewPrinter creates a Printer. jsonMode selects JSON output; isTTY enables
// colors for human output.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := plainStyles()
	if isTTY {
		styles = colorStyles()
	}
	return &Printer{
		w:      writer,
		errW:   writer,
		json:   jsonMode,
		isTTY:  isTTY,
		styles: styles,
	}
}

// WithStderr sets a separate writer for errors and warnings in human mode.
// In JSON mode, errors still go to the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// IsTTY returns true if the printer output is a TTY.
func (p *Printer) IsTTY() bool {
	return p.isTTY
}

// Styles returns the active styles.
func (p *Printer) Styles() *Styles {
	return p.styles
}

// Success outputs a result. In human mode a "message" key is printed on its
// own; otherwise the pairs are printed as keys and values.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.writeJSON(data)
	}
	if msg, ok := data["message"].(string); ok {
		mustWrite(fmt.Fprintln(p.w, p.styles.Success.Render(msg)))
		return nil
	}
	for key, val := range data {
		mustWrite(fmt.Fprintf(p.w, "%s: %v\n", p.styles.Bold.Render(key), val))
	}
	return nil
}

// Error outputs an error as {"error": "...", "code": N} in JSON mode, or as
// a styled line on the error writer.
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitUserError, Message: err.Error()}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), exitErr.Message))
}

// Warn outputs a warning. JSON mode emits {"warning": "..."}.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.writeJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), msg))
}

// Stderr writes a status hint to the error writer. No-op in JSON mode.
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	mustWrite(fmt.Fprintf(p.errW, format, args...))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// Document writes a rendered document exactly as given.
func (p *Printer) Document(doc string) {
	mustWrite(io.WriteString(p.w, doc))
}

// WriteJSON encodes any value as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	return p.writeJSON(data)
}

func (p *Printer) writeJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns {"error": message, "code": N} as bytes.
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{
		"error": message,
		"code":  code,
	})
	return result
}

// mustWrite panics if a write to stdout, stderr or a buffer fails.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Table renders rows under bold headers with columns padded to the widest cell.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := columnWidths(headers, rows)

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = p.styles.Bold.Render(padRight(h, widths[i]))
	}
	mustWrite(fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " ")))

	for _, row := range rows {
		cells = cells[:0]
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			cells = append(cells, padRight(cell, widths[i]))
		}
		mustWrite(fmt.Fprintln(p.w, strings.TrimRight(strings.Join(cells, "  "), " ")))
	}
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// Section renders a heading underlined to its own width, after a blank line.
func (p *Printer) Section(title string) {
	mustWrite(fmt.Fprintln(p.w))
	mustWrite(fmt.Fprintln(p.w, p.styles.Title.Render(title)))
	mustWrite(fmt.Fprintln(p.w, p.styles.Muted.Render(strings.Repeat("─", len(title)))))
}

// KeyValue renders "Key: Value".
func (p *Printer) KeyValue(key string, value string) {
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", p.styles.Key.Render(key+":"), value))
}

// Check renders one check result line: a pass/warn/fail marker, the check
// name and a message.
func (p *Printer) Check(status, name, message string) {
	var marker string
	switch status {
	case "pass":
		marker = p.styles.Success.Render("✓")
	case "warn":
		marker = p.styles.Warning.Render("!")
	default:
		marker = p.styles.Error.Render("✗")
	}
	mustWrite(fmt.Fprintf(p.w, "  %s %s %s\n", marker, p.styles.Bold.Render(name), p.styles.Muted.Render(message)))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
