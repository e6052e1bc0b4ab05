package tags

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrProtectedTag = errors.New("protected tag")
	ErrInvalidValue = errors.New("invalid tag value")
)

// ProtectedTagError is returned when a caller tries to set one of the
// reserved tags (title, meta, content) directly.
type ProtectedTagError struct {
	Name string
}

// Error implements the error interface.
func (e *ProtectedTagError) Error() string {
	return fmt.Sprintf("tag %q is protected and is set by the renderer", e.Name)
}

// Is reports whether target is ErrProtectedTag.
func (e *ProtectedTagError) Is(target error) bool {
	return target == ErrProtectedTag
}

// InvalidValueError is returned when a tag name is not an identifier or its
// value cannot be converted to text.
type InvalidValueError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for tag %q: %s", e.Name, e.Reason)
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
