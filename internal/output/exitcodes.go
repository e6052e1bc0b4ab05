package output

import "errors"

// Exit codes:
// 0 = Success
// 1 = User error (bad arguments, invalid tag values)
// 2 = System error (I/O, database)
// 3 = Conflict (protected tag, file already exists)
// 4 = Not found (layout, view or fragment template missing)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
	ExitNotFound    = 4
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewSystemError creates an error for system failures (exit code 2).
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// NewConflictError creates an error for conflicts (exit code 3).
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// NewNotFoundError creates an error for a missing template (exit code 4).
func NewNotFoundError(message string, cause error) *ExitError {
	return &ExitError{Code: ExitNotFound, Message: message, Cause: cause}
}

// Wrap attaches an exit code to cause, using its message.
func Wrap(code int, cause error) *ExitError {
	return &ExitError{Code: code, Message: cause.Error(), Cause: cause}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
