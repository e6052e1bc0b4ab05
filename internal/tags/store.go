package tags

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
)

// Reserved tag names. They are written only by the render pipeline.
const (
	Title   = "title"
	Meta    = "meta"
	Content = "content"
)

var protected = []string{Title, Meta, Content}

// IsProtected reports whether name is one of the reserved tags.
func IsProtected(name string) bool {
	return slices.Contains(protected, name)
}

// Protected returns the reserved tag names.
func Protected() []string {
	return slices.Clone(protected)
}

// Renderer is implemented by values that know how to present themselves as
// tag text.
type Renderer interface {
	RenderTag() string
}

// Store maps tag names to their text. A Store belongs to a single render and
// is not safe for concurrent use.
type Store struct {
	values map[string]string
	order  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set stores value under name. Protected names are rejected with a
// *ProtectedTagError and values that cannot become text with an
// *InvalidValueError.
func (s *Store) Set(name string, value any) error {
	text, err := coerce(name, value)
	if err != nil {
		return err
	}
	s.put(name, text)
	return nil
}

// SetMany validates every pair before writing any of them. If one pair is
// rejected, the store is left unchanged.
func (s *Store) SetMany(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	texts := make([]string, len(names))
	for i, name := range names {
		text, err := coerce(name, values[name])
		if err != nil {
			return err
		}
		texts[i] = text
	}
	for i, name := range names {
		s.put(name, texts[i])
	}
	return nil
}

// SetReserved writes one of the protected tags. Only the render pipeline
// calls this.
func (s *Store) SetReserved(name, value string) error {
	if !IsProtected(name) {
		return &InvalidValueError{Name: name, Reason: "not a reserved tag"}
	}
	s.put(name, value)
	return nil
}

// Remove deletes name. Removing an absent tag is a no-op.
func (s *Store) Remove(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}

// Get returns the text stored under name.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name is set.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns the set tag names in the order they were first written.
func (s *Store) Names() []string {
	return slices.Clone(s.order)
}

// Len returns the number of tags in the store.
func (s *Store) Len() int {
	return len(s.values)
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		values: make(map[string]string, len(s.values)),
		order:  slices.Clone(s.order),
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

func (s *Store) put(name, text string) {
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = text
}

func coerce(name string, value any) (string, error) {
	if IsProtected(name) {
		return "", &ProtectedTagError{Name: name}
	}
	if !IsName(name) {
		return "", &InvalidValueError{Name: name, Reason: "name must match [A-Za-z0-9_]+"}
	}
	text, ok := Text(value)
	if !ok {
		return "", &InvalidValueError{Name: name, Reason: fmt.Sprintf("%T cannot be used as text", value)}
	}
	return text, nil
}

// Text converts a tag value to its text form. It accepts strings, Renderer,
// fmt.Stringer, booleans and numbers.
func Text(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case Renderer:
		return v.RenderTag(), true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
