package workflow

import (
	"errors"
	"fmt"
)

// ErrTimeout means a Step's completion predicate did not hold before its
// timeout: the UI never confirmed the operation.
var ErrTimeout = errors.New("condition not met before timeout")

// FailureKind classifies why a workflow stopped.
type FailureKind string

// Failure kinds. SessionError covers driver-level problems (element not
// found, browser gone); the others mean the UI did not confirm completion.
const (
	LoginFailed          FailureKind = "login-failed"
	NavigationFailed     FailureKind = "navigation-failed"
	PasswordUpdateFailed FailureKind = "password-update-failed"
	ChannelToggleFailed  FailureKind = "channel-toggle-failed"
	LogoutFailed         FailureKind = "logout-failed"
	SessionError         FailureKind = "session-error"
)

// IsValid reports whether k is one of the defined kinds.
func (k FailureKind) IsValid() bool {
	switch k {
	case LoginFailed, NavigationFailed, PasswordUpdateFailed,
		ChannelToggleFailed, LogoutFailed, SessionError:
		return true
	}
	return false
}

// Error is the single failure type returned by [Runner.Run].
type Error struct {
	Kind FailureKind

	// Workflow is the name of the workflow that stopped.
	Workflow string

	// Step is the name of the stage that failed.
	Step string

	// Err is the cause: an [ErrTimeout] wrap or a driver error.
	Err error
}

func (e *Error) Error() string {
	if e.Workflow != "" {
		return fmt.Sprintf("%s: %s/%s: %v", e.Kind, e.Workflow, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the [FailureKind] from err. It returns false when err does
// not wrap an [*Error].
func KindOf(err error) (FailureKind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return "", false
}
