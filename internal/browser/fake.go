package browser

import (
	"context"
	"fmt"
)

// FakeElement is one element of a [FakeSession] page.
//
// The On* hooks let a test script how the page reacts to an interaction,
// e.g. a click on "Save" making a success banner appear.
type FakeElement struct {
	Text     string
	Attrs    map[string]string
	Hidden   bool
	Disabled bool

	// Value accumulates text typed into the element.
	Value string

	OnClick        func(s *FakeSession)
	OnContextClick func(s *FakeSession)
	OnHover        func(s *FakeSession)
}

// FakeSession implements [Session] over an in-memory map of elements.
//
// It is not a DOM: each [Locator] maps to exactly one element, and a test
// adds, changes or removes elements to model page transitions.
type FakeSession struct {
	// URL is the last navigated URL.
	URL string

	// Calls records every interaction in order, e.g. "click id=mainMenu3".
	Calls []string

	// OnNavigate runs after each navigation.
	OnNavigate func(s *FakeSession, url string)

	// NavigateErr, when set, is returned by Navigate.
	NavigateErr error

	elements map[Locator]*FakeElement
	closed   bool
}

// NewFakeSession returns an empty page.
func NewFakeSession() *FakeSession {
	return &FakeSession{elements: make(map[Locator]*FakeElement)}
}

// Put places el at loc, replacing any existing element, and returns it.
func (s *FakeSession) Put(loc Locator, el *FakeElement) *FakeElement {
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	s.elements[loc] = el
	return el
}

// Remove deletes the element at loc.
func (s *FakeSession) Remove(loc Locator) {
	delete(s.elements, loc)
}

// Get returns the element at loc, or nil.
func (s *FakeSession) Get(loc Locator) *FakeElement {
	return s.elements[loc]
}

// Closed reports whether Close has been called.
func (s *FakeSession) Closed() bool {
	return s.closed
}

// Navigate implements [Session].
func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.Calls = append(s.Calls, "navigate "+url)
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.URL = url
	if s.OnNavigate != nil {
		s.OnNavigate(s, url)
	}
	return nil
}

// Find implements [Session].
func (s *FakeSession) Find(ctx context.Context, loc Locator) (Element, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if !loc.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocator, loc)
	}
	el, ok := s.elements[loc]
	if !ok {
		return nil, NotFoundError(loc)
	}
	return &fakeHandle{session: s, loc: loc, el: el}, nil
}

// Close implements [Session].
func (s *FakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeHandle struct {
	session *FakeSession
	loc     Locator
	el      *FakeElement
}

func (h *fakeHandle) record(op string) {
	h.session.Calls = append(h.session.Calls, op+" "+h.loc.String())
}

func (h *fakeHandle) Click(ctx context.Context) error {
	h.record("click")
	if h.el.OnClick != nil {
		h.el.OnClick(h.session)
	}
	return nil
}

func (h *fakeHandle) ContextClick(ctx context.Context) error {
	h.record("context-click")
	if h.el.OnContextClick != nil {
		h.el.OnContextClick(h.session)
	}
	return nil
}

func (h *fakeHandle) Hover(ctx context.Context) error {
	h.record("hover")
	if h.el.OnHover != nil {
		h.el.OnHover(h.session)
	}
	return nil
}

func (h *fakeHandle) SendKeys(ctx context.Context, text string) error {
	h.record("type")
	h.el.Value += text
	return nil
}

func (h *fakeHandle) Clear(ctx context.Context) error {
	h.record("clear")
	h.el.Value = ""
	return nil
}

func (h *fakeHandle) Text(ctx context.Context) (string, error) {
	return h.el.Text, nil
}

func (h *fakeHandle) Attribute(ctx context.Context, name string) (string, error) {
	return h.el.Attrs[name], nil
}

func (h *fakeHandle) Clickable(ctx context.Context) (bool, error) {
	return !h.el.Hidden && !h.el.Disabled, nil
}
