package workflow

import (
	"context"
	"fmt"

	"routerctl/internal/browser"
)

// ActionKind tags the variant held by an [Action].
type ActionKind string

// Action kinds.
const (
	ActionNavigate     ActionKind = "navigate"
	ActionClick        ActionKind = "click"
	ActionType         ActionKind = "type"
	ActionClear        ActionKind = "clear"
	ActionHover        ActionKind = "hover"
	ActionContextClick ActionKind = "context-click"
)

// Action is a stateless description of one interaction. It is evaluated
// against the live session only when its Step executes.
type Action struct {
	Kind   ActionKind
	Target browser.Locator
	URL    string
	Text   string
}

// Navigate loads url.
func Navigate(url string) Action {
	return Action{Kind: ActionNavigate, URL: url}
}

// Click left-clicks the element at loc.
func Click(loc browser.Locator) Action {
	return Action{Kind: ActionClick, Target: loc}
}

// Type sends text to the element at loc.
func Type(loc browser.Locator, text string) Action {
	return Action{Kind: ActionType, Target: loc, Text: text}
}

// Clear empties the input at loc.
func Clear(loc browser.Locator) Action {
	return Action{Kind: ActionClear, Target: loc}
}

// Hover moves the pointer over the element at loc.
func Hover(loc browser.Locator) Action {
	return Action{Kind: ActionHover, Target: loc}
}

// ContextClick right-clicks the element at loc.
func ContextClick(loc browser.Locator) Action {
	return Action{Kind: ActionContextClick, Target: loc}
}

// String describes the action without revealing typed text.
func (a Action) String() string {
	switch a.Kind {
	case ActionNavigate:
		return fmt.Sprintf("navigate %s", a.URL)
	case ActionType:
		return fmt.Sprintf("type %s (%d chars)", a.Target, len(a.Text))
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Target)
	}
}

// Apply performs the action. Element lookups fail fast: a locator that
// matches nothing returns an error wrapping [browser.ErrElementNotFound].
func (a Action) Apply(ctx context.Context, s browser.Session) error {
	if a.Kind == ActionNavigate {
		return s.Navigate(ctx, a.URL)
	}

	el, err := s.Find(ctx, a.Target)
	if err != nil {
		return err
	}

	switch a.Kind {
	case ActionClick:
		return el.Click(ctx)
	case ActionType:
		return el.SendKeys(ctx, a.Text)
	case ActionClear:
		return el.Clear(ctx)
	case ActionHover:
		return el.Hover(ctx)
	case ActionContextClick:
		return el.ContextClick(ctx)
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}
