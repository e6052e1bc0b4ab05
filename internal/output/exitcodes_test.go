package output

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	codes := []int{ExitSuccess, ExitUserError, ExitSystemError, ExitConflict, ExitNotFound}
	for want, got := range codes {
		if got != want {
			t.Errorf("exit code %d has value %d", want, got)
		}
	}
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ExitError
		wantCode int
		wantMsg  string
	}{
		{"user error", NewUserError("--data expects key=value"), ExitUserError, "--data expects key=value"},
		{"system error", NewSystemError("template database unavailable"), ExitSystemError, "template database unavailable"},
		{"conflict error", NewConflictError(`"title" is a protected tag`), ExitConflict, `"title" is a protected tag`},
		{"not found error", NewNotFoundError("view views/blog/show.html not found", nil), ExitNotFound, "view views/blog/show.html not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestExitErrorWrapping(t *testing.T) {
	underlying := errors.New("disk I/O error")
	err := NewSystemErrorWithCause("opening template database", underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
	if err.Error() != "opening template database" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := Wrap(ExitConflict, underlying)
	if wrapped.Code != ExitConflict || wrapped.Message != "disk I/O error" || !errors.Is(wrapped, underlying) {
		t.Errorf("Wrap() = %+v", wrapped)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"user", NewUserError("bad input"), ExitUserError},
		{"system", NewSystemError("read failed"), ExitSystemError},
		{"conflict", NewConflictError("exists"), ExitConflict},
		{"not found", NewNotFoundError("missing", nil), ExitNotFound},
		{"wrapped exit error", fmt.Errorf("render: %w", NewNotFoundError("missing", nil)), ExitNotFound},
		{"regular error defaults to user error", errors.New("some error"), ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
