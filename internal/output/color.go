package output

import (
	"fmt"
	"io"
	"os"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidateColorMode rejects anything but auto, always, never or empty.
func ValidateColorMode(mode string) error {
	switch mode {
	case "", ColorAuto, ColorAlways, ColorNever:
		return nil
	}
	return fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
}

// ResolveColorMode decides whether styled output is used. "always" and
// "never" win outright; in auto mode a set NO_COLOR disables colors,
// otherwise the detected isTTY value is used.
func ResolveColorMode(mode string, isTTY bool) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTTY
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
