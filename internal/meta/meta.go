// Package meta models the HTML meta entries of a page.
//
// Site-wide entries come from configuration and page-local entries from the
// view. Merge combines them the way an ordered associative merge does: the
// global order is kept, a local entry with the same name replaces the global
// one in place, and new local names are appended.
package meta

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common attribute kinds. Any non-empty attribute is accepted.
const (
	AttrName      = "name"
	AttrProperty  = "property"
	AttrHTTPEquiv = "http-equiv"
)

// Entry is a single meta element.
type Entry struct {
	Name    string `json:"name" yaml:"-"`
	Attr    string `json:"attr" yaml:"attr"`
	Content string `json:"content" yaml:"content"`
}

// Valid reports whether the entry has both an attribute and content.
func (e Entry) Valid() bool {
	return e.Attr != "" && e.Content != ""
}

// Markup renders the entry as a self-closing meta element.
func (e Entry) Markup() string {
	return fmt.Sprintf(`<meta %s="%s" content="%s" />`, e.Attr, e.Name, e.Content)
}

// ParseEntry parses "name=attr:content", the form meta entries take on
// the command line. The name may itself contain colons, as in og:type.
func ParseEntry(s string) (Entry, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return Entry{}, fmt.Errorf("meta %q: want name=attr:content", s)
	}
	attr, content, ok := strings.Cut(rest, ":")
	if !ok || attr == "" || content == "" {
		return Entry{}, fmt.Errorf("meta %q: want name=attr:content", s)
	}
	return Entry{Name: name, Attr: attr, Content: content}, nil
}

// Map is an insertion-ordered set of entries keyed by name.
// The zero value is ready to use.
type Map struct {
	keys    []string
	entries map[string]Entry
}

// NewMap returns a map holding entries in order.
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e)
	}
	return m
}

// Set adds e, or replaces the entry with the same name in its current position.
func (m *Map) Set(e Entry) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, ok := m.entries[e.Name]; !ok {
		m.keys = append(m.keys, e.Name)
	}
	m.entries[e.Name] = e
}

// Get returns the entry called name.
func (m *Map) Get(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	e, ok := m.entries[name]
	return e, ok
}

// Delete removes the entry called name.
func (m *Map) Delete(name string) {
	if m == nil {
		return
	}
	if _, ok := m.entries[name]; !ok {
		return
	}
	delete(m.entries, name)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == name })
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Entries returns the entries in order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	return NewMap(m.Entries()...)
}

// Merge returns global overlaid with local. Neither input is modified.
func Merge(global, local *Map) *Map {
	out := global.Clone()
	for _, e := range local.Entries() {
		out.Set(e)
	}
	return out
}

// Render concatenates the markup of every valid entry, with no separator.
// Entries missing an attribute or content are skipped. Values are written
// as given; callers that accept untrusted content escape it first.
func Render(m *Map) string {
	var b strings.Builder
	for _, e := range m.Entries() {
		if !e.Valid() {
			continue
		}
		b.WriteString(e.Markup())
	}
	return b.String()
}

// UnmarshalYAML decodes a mapping of name to {attr, content}, keeping the
// document order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("meta: expected a mapping, got %s", kindName(node.Kind))
	}
	*m = Map{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var e Entry
		if err := node.Content[i+1].Decode(&e); err != nil {
			return fmt.Errorf("meta %q: %w", node.Content[i].Value, err)
		}
		e.Name = node.Content[i].Value
		m.Set(e)
	}
	return nil
}

// MarshalYAML encodes the map as an ordered mapping.
func (m Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.Entries() {
		var val yaml.Node
		if err := val.Encode(e); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Name},
			&val,
		)
	}
	return node, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.DocumentNode:
		return "document"
	case yaml.AliasNode:
		return "alias"
	default:
		return "mapping"
	}
}
