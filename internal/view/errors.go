package view

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrLayoutNotFound = errors.New("layout not found")
	ErrViewNotFound   = errors.New("view not found")
)

// LayoutNotFoundError reports a layout whose skeleton file is missing.
type LayoutNotFoundError struct {
	Layout string
	Path   string
	Err    error
}

func (e *LayoutNotFoundError) Error() string {
	return fmt.Sprintf("layout %q not found at %s", e.Layout, e.Path)
}

func (e *LayoutNotFoundError) Is(target error) bool { return target == ErrLayoutNotFound }

func (e *LayoutNotFoundError) Unwrap() error { return e.Err }

// ViewNotFoundError reports a page view file that is missing.
type ViewNotFoundError struct {
	Path string
	Err  error
}

func (e *ViewNotFoundError) Error() string {
	return fmt.Sprintf("view not found at %s", e.Path)
}

func (e *ViewNotFoundError) Is(target error) bool { return target == ErrViewNotFound }

func (e *ViewNotFoundError) Unwrap() error { return e.Err }
