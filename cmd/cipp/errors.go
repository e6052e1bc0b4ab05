package main

import (
	"errors"

	"github.com/Swader/ciplusplus/internal/config"
	"github.com/Swader/ciplusplus/internal/fragment"
	"github.com/Swader/ciplusplus/internal/output"
	"github.com/Swader/ciplusplus/internal/tags"
	"github.com/Swader/ciplusplus/internal/view"
)

// exitError attaches the exit code for err:
//
//	missing layout, view or fragment  -> ExitNotFound
//	protected tag, existing file      -> ExitConflict
//	invalid tag value                 -> ExitUserError
//	anything else                     -> ExitSystemError
//
// Errors that already carry a code are returned as is.
func exitError(err error) *output.ExitError {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	switch {
	case errors.Is(err, view.ErrLayoutNotFound),
		errors.Is(err, view.ErrViewNotFound),
		errors.Is(err, fragment.ErrNotFound):
		return output.Wrap(output.ExitNotFound, err)
	case errors.Is(err, tags.ErrProtectedTag), errors.Is(err, config.ErrExists):
		return output.Wrap(output.ExitConflict, err)
	case errors.Is(err, tags.ErrInvalidValue):
		return output.Wrap(output.ExitUserError, err)
	default:
		return output.Wrap(output.ExitSystemError, err)
	}
}

// fail prints err and returns it with its exit code attached.
func fail(printer *output.Printer, err error) error {
	exitErr := exitError(err)
	printer.Error(exitErr)
	return exitErr
}
