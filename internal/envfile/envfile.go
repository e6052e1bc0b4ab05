// Package envfile reads KEY=VALUE files.
//
// Load applies a .env file to the process environment, where variables
// already set take precedence. Read returns the pairs of a file without
// touching the environment; cipp uses it for caller data files.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Pair is one KEY=VALUE assignment.
type Pair struct {
	Key   string
	Value string
}

// Load reads a .env file and sets any variables not already in the environment.
// Returns nil if the file doesn't exist. Returns an error only for read failures.
func Load(path string) error {
	pairs, err := Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, p := range pairs {
		if os.Getenv(p.Key) == "" {
			_ = os.Setenv(p.Key, p.Value)
		}
	}
	return nil
}

// Read returns the assignments in the file at path, in file order.
func Read(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // best-effort close on read-only file

	pairs, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return pairs, nil
}

// Parse reads assignments from r, skipping blank lines and comments.
func Parse(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// Map converts pairs to a map. Later keys win.
func Map(pairs []Pair) map[string]any {
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// parseEnvLine extracts KEY=VALUE from a line.
// Handles optional quoting (single or double quotes) around the value.
func parseEnvLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}

	return key, value, true
}
