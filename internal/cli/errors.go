package cli

import (
	"errors"
	"fmt"

	"github.com/akyairhashvil/taskwatch/internal/history"
	"github.com/akyairhashvil/taskwatch/internal/taskapi"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
)

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown type, wrong list).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// CLIError wraps an error with a user-facing message, a hint and an exit code.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code.
func NewCLIError(code int, msg, hint string, err error) *CLIError {
	return &CLIError{Message: msg, Hint: hint, Err: err, ExitCode: code}
}

// MapError classifies err. Errors that are not recognised become user errors,
// which covers cobra's own argument and flag failures.
func MapError(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var (
		bulkErr *tasks.BulkError
		opErr   *taskapi.OpError
		histErr *history.OpError
	)
	switch {
	case errors.Is(err, taskapi.ErrUnauthorized):
		return NewCLIError(AuthError, "server rejected the token", "Pass --token or --ask-token, or set the token in the config file", err)
	case errors.Is(err, tasks.ErrActionUnavailable):
		return NewCLIError(UserError, "action not available", "", err)
	case errors.As(err, &bulkErr):
		return NewCLIError(BackendError, "bulk action incomplete", "Run 'taskwatch history' to see which tasks failed", err)
	case taskapi.IsAPIError(err), errors.As(err, &opErr):
		return NewCLIError(BackendError, "request failed", "", err)
	case errors.As(err, &histErr):
		return NewCLIError(BackendError, "history unavailable", "", err)
	}
	return NewCLIError(UserError, "invalid usage", "Run with --help for usage", err)
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return Success
	}
	return MapError(err).ExitCode
}
