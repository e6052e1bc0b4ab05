package tags

import "regexp"

// Pattern matches a single tag occurrence. The first submatch is the name.
var Pattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Extract returns the distinct tag names referenced by bodies, in the order
// they first appear. Bodies are scanned in argument order, so names from the
// first body come before names that only appear in later ones.
func Extract(bodies ...string) []string {
	names := []string{}
	seen := make(map[string]struct{})
	for _, body := range bodies {
		for _, m := range Pattern.FindAllStringSubmatch(body, -1) {
			name := m[1]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// IsName reports whether s is a valid tag identifier.
func IsName(s string) bool {
	return namePattern.MatchString(s)
}

// Delimit wraps name in tag delimiters.
func Delimit(name string) string {
	return "{{" + name + "}}"
}
