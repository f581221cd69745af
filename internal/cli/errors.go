package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ExitError represents a command execution failure with a specific exit code.
//
// This error type allows Cobra RunE functions to signal non-zero exit codes
// without calling os.Exit() directly, enabling testable CLI behavior.
// When a command fails, it returns NewExitError(code, cause), which propagates
// up to [RunWithConfig] where [IsExitError] extracts the code for [ExecuteResult].
//
// The [Execute] function handles the actual os.Exit() call based on the code.
type ExitError struct {
	// Code is the exit code to return to the shell.
	// Convention: 0 = success, 1 = workflow failure, 2 = configuration error.
	Code int

	// Err is the failure that caused the exit, already reported to the user.
	Err error
}

// Error implements the error interface, returning a string in the format
// "exit status N" where N is the exit code.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the cause.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an [ExitError] with the given exit code and cause.
//
// Use this in Cobra RunE functions to signal failure:
//
//	if err := app.Config.Validate(false); err != nil {
//	    app.Printer.Failure(err)
//	    return NewExitError(ExitConfig, err)
//	}
func NewExitError(code int, cause error) *ExitError {
	return &ExitError{Code: code, Err: cause}
}

// IsExitError checks if an error is an [ExitError] and extracts its exit code.
//
// Returns (code, true) if err wraps an *ExitError. Returns (0, false) for nil
// or non-ExitError errors.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
