package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"routerctl/internal/browser"
)

// Predicate is a completion condition checked after a Step's actions.
//
// Check returns (false, nil) while the condition does not hold yet, including
// when the element it inspects is not on the page. A non-nil error aborts the
// wait as a session failure.
type Predicate interface {
	Check(ctx context.Context, s browser.Session) (bool, error)
	String() string
}

// TextPresent holds when the element at Target exists and its text contains
// Text.
func TextPresent(loc browser.Locator, text string) Predicate {
	return textPresent{target: loc, text: text}
}

// Present holds when an element matches loc.
func Present(loc browser.Locator) Predicate {
	return present{target: loc}
}

// Clickable holds when the element at loc is displayed and enabled.
func Clickable(loc browser.Locator) Predicate {
	return clickable{target: loc}
}

// All holds when every predicate holds in the same check.
func All(preds ...Predicate) Predicate {
	return all(preds)
}

type textPresent struct {
	target browser.Locator
	text   string
}

func (p textPresent) Check(ctx context.Context, s browser.Session) (bool, error) {
	el, err := find(ctx, s, p.target)
	if el == nil || err != nil {
		return false, err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(text, p.text), nil
}

func (p textPresent) String() string {
	return fmt.Sprintf("text %q in %s", p.text, p.target)
}

type present struct {
	target browser.Locator
}

func (p present) Check(ctx context.Context, s browser.Session) (bool, error) {
	el, err := find(ctx, s, p.target)
	return el != nil, err
}

func (p present) String() string {
	return fmt.Sprintf("%s present", p.target)
}

type clickable struct {
	target browser.Locator
}

func (p clickable) Check(ctx context.Context, s browser.Session) (bool, error) {
	el, err := find(ctx, s, p.target)
	if el == nil || err != nil {
		return false, err
	}
	return el.Clickable(ctx)
}

func (p clickable) String() string {
	return fmt.Sprintf("%s clickable", p.target)
}

type all []Predicate

func (a all) Check(ctx context.Context, s browser.Session) (bool, error) {
	for _, p := range a {
		ok, err := p.Check(ctx, s)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a all) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return strings.Join(parts, " and ")
}

// find resolves loc, mapping "not found" to a nil element without error.
func find(ctx context.Context, s browser.Session, loc browser.Locator) (browser.Element, error) {
	el, err := s.Find(ctx, loc)
	if errors.Is(err, browser.ErrElementNotFound) {
		return nil, nil
	}
	return el, err
}
