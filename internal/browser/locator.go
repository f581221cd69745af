// Package browser is the driver session boundary for routerctl.
//
// The workflow engine never talks to Chrome directly. It resolves a [Locator]
// against a [Session] and drives the returned [Element]. Two implementations
// exist:
//   - [ChromeSession] drives a real Chrome through chromedp
//   - [FakeSession] is a scripted in-memory page used by tests
//
// Key types:
//   - [Locator] describes how to find an element (strategy + value)
//   - [Session] navigates and finds elements
//   - [Element] is a resolved element handle
package browser

import "fmt"

// By is the lookup strategy of a [Locator].
type By string

// Supported lookup strategies.
const (
	// ByID matches the element's id attribute exactly.
	ByID By = "id"

	// ByXPath evaluates an XPath expression against the document.
	ByXPath By = "xpath"

	// ByCSS evaluates a CSS selector against the document.
	ByCSS By = "css"
)

// Locator is an immutable description of how to find one element on the
// current page.
type Locator struct {
	By    By
	Value string
}

// ID returns a [Locator] matching an element id.
func ID(id string) Locator {
	return Locator{By: ByID, Value: id}
}

// XPath returns a [Locator] for an XPath expression.
func XPath(expr string) Locator {
	return Locator{By: ByXPath, Value: expr}
}

// CSS returns a [Locator] for a CSS selector.
func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

// String renders the locator as "strategy=value" for diagnostics.
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// IsValid reports whether the locator has a known strategy and a value.
func (l Locator) IsValid() bool {
	switch l.By {
	case ByID, ByXPath, ByCSS:
		return l.Value != ""
	}
	return false
}
