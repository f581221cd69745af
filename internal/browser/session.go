package browser

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for driver operations.
var (
	// ErrElementNotFound means a locator resolved to zero elements. Lookups
	// never wait for an element to appear; waiting is the caller's job.
	ErrElementNotFound = errors.New("element not found")

	// ErrInvalidLocator is returned for a locator with an unknown strategy or
	// an empty value.
	ErrInvalidLocator = errors.New("invalid locator")

	// ErrSessionClosed is returned by any operation on a closed session.
	ErrSessionClosed = errors.New("browser session closed")
)

// Session is a live browser session owned by a single run.
//
// Implementations are not safe for concurrent use; the runner drives a session
// from one goroutine.
type Session interface {
	// Navigate loads url in the current tab and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Find resolves loc against the current page without waiting. It returns
	// an error wrapping [ErrElementNotFound] when nothing matches.
	Find(ctx context.Context, loc Locator) (Element, error)

	// Close tears down the session and the browser it owns.
	Close() error
}

// Element is a handle to an element resolved by [Session.Find].
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error

	// Hover moves the pointer over the element without clicking.
	Hover(ctx context.Context) error

	// ContextClick performs a right click on the element.
	ContextClick(ctx context.Context) error

	// Text returns the element's rendered text content.
	Text(ctx context.Context) (string, error)

	// Attribute returns the named attribute, or "" when it is absent.
	Attribute(ctx context.Context, name string) (string, error)

	// Clickable reports whether the element is displayed and enabled.
	Clickable(ctx context.Context) (bool, error)
}

// NotFoundError wraps [ErrElementNotFound] with the locator that missed.
func NotFoundError(loc Locator) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, loc)
}
