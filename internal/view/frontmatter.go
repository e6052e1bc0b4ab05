package view

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Swader/ciplusplus/internal/meta"
)

// Frontmatter is the optional YAML header of a view file.
type Frontmatter struct {
	Title string    `yaml:"title"`
	Meta  *meta.Map `yaml:"meta"`
}

// ParseView separates a view's frontmatter from its body. A view without
// frontmatter is returned unchanged.
func ParseView(raw string) (Frontmatter, string, error) {
	var fm Frontmatter
	header, body, ok := splitFrontmatter(raw)
	if !ok {
		return fm, raw, nil
	}
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return fm, raw, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	return fm, body, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- lines at the start of the file.
func splitFrontmatter(raw string) (frontmatter, content string, ok bool) {
	rest, found := strings.CutPrefix(raw, "---\n")
	if !found {
		rest, found = strings.CutPrefix(raw, "---\r\n")
	}
	if !found {
		return "", raw, false
	}

	var after string
	if strings.HasPrefix(rest, "---") {
		after = rest[3:]
	} else {
		frontmatter, after, found = strings.Cut(rest, "\n---")
		if !found {
			return "", raw, false
		}
	}

	// Drop the remainder of the closing delimiter line.
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		after = after[i+1:]
	} else {
		after = ""
	}
	return frontmatter, after, true
}
