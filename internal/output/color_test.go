package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveColorMode(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		mode  string
		isTTY bool
		want  bool
	}{
		{ColorNever, true, false},
		{ColorAlways, false, true},
		{ColorAuto, true, true},
		{ColorAuto, false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if got := ResolveColorMode(tt.mode, tt.isTTY); got != tt.want {
			t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.mode, tt.isTTY, got, tt.want)
		}
	}
}

func TestResolveColorMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ResolveColorMode(ColorAuto, true) {
		t.Error("NO_COLOR should disable colors in auto mode")
	}
	if !ResolveColorMode(ColorAlways, false) {
		t.Error("--color always should override NO_COLOR")
	}
}

func TestValidateColorMode(t *testing.T) {
	for _, ok := range []string{"", ColorAuto, ColorAlways, ColorNever} {
		if err := ValidateColorMode(ok); err != nil {
			t.Errorf("ValidateColorMode(%q) = %v", ok, err)
		}
	}
	if err := ValidateColorMode("sometimes"); err == nil || !strings.Contains(err.Error(), "sometimes") {
		t.Errorf("ValidateColorMode(sometimes) = %v", err)
	}
}

func TestStyles(t *testing.T) {
	var buf bytes.Buffer
	empty := lipgloss.NewStyle()

	plain := NewPrinter(&buf, false, false)
	if plain.Styles().Error.GetForeground() != empty.GetForeground() {
		t.Error("non-TTY printer should use plain styles")
	}
	colored := NewPrinter(&buf, false, true)
	if colored.Styles().Error.GetForeground() == empty.GetForeground() {
		t.Error("TTY printer should color errors")
	}
}

func TestPlainOutputHasNoANSI(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Error(NewUserError("test error"))
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("plain output contains ANSI codes: %q", buf.String())
	}
}
