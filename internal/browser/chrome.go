package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// DefaultActionTimeout bounds a single driver primitive when
// [ChromeOptions.ActionTimeout] is zero.
const DefaultActionTimeout = 10 * time.Second

// ChromeOptions controls how [NewChromeSession] obtains a browser.
type ChromeOptions struct {
	// Headless starts Chrome without a window. Ignored with RemoteURL.
	Headless bool

	// RemoteURL attaches to an already running Chrome over its DevTools
	// websocket (e.g. "ws://127.0.0.1:9222") instead of launching one.
	RemoteURL string

	// ExecPath overrides the Chrome binary. Empty uses chromedp's lookup.
	ExecPath string

	WindowWidth  int
	WindowHeight int

	// ActionTimeout bounds each primitive (navigate, find, click...).
	ActionTimeout time.Duration
}

// ChromeSession implements [Session] on top of chromedp.
//
// Lookups use AtLeast(0) node queries so a missing element is reported
// immediately as [ErrElementNotFound] instead of blocking until the action
// timeout.
type ChromeSession struct {
	ctx           context.Context
	cancelTab     context.CancelFunc
	cancelAlloc   context.CancelFunc
	actionTimeout time.Duration
	closed        bool
}

// NewChromeSession starts (or attaches to) Chrome and opens one tab.
//
// The browser lives until [ChromeSession.Close] is called or parent is
// cancelled.
func NewChromeSession(parent context.Context, opts ChromeOptions) (*ChromeSession, error) {
	var allocCtx context.Context
	var cancelAlloc context.CancelFunc

	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(parent, opts.RemoteURL)
	} else {
		allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		allocOpts = append(allocOpts, chromedp.Flag("headless", opts.Headless))
		if opts.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
		}
		if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
			allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(parent, allocOpts...)
	}

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run allocates the browser so launch failures surface here
	// rather than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	timeout := opts.ActionTimeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	return &ChromeSession{
		ctx:           tabCtx,
		cancelTab:     cancelTab,
		cancelAlloc:   cancelAlloc,
		actionTimeout: timeout,
	}, nil
}

// run executes actions on the tab under the action timeout. Cancelling ctx
// aborts the actions but leaves the tab open.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed {
		return ErrSessionClosed
	}
	runCtx, cancel := context.WithTimeout(s.ctx, s.actionTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate implements [Session].
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Find implements [Session].
func (s *ChromeSession) Find(ctx context.Context, loc Locator) (Element, error) {
	if !loc.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocator, loc)
	}

	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(loc.Value, &nodes, queryBy(loc.By), chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if len(nodes) == 0 {
		return nil, NotFoundError(loc)
	}
	return &chromeElement{session: s, loc: loc, node: nodes[0]}, nil
}

// Close implements [Session]. It is safe to call more than once.
func (s *ChromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

func queryBy(by By) chromedp.QueryOption {
	switch by {
	case ByID:
		return chromedp.ByID
	case ByCSS:
		return chromedp.ByQuery
	default:
		// DOM.performSearch understands XPath expressions.
		return chromedp.BySearch
	}
}

type chromeElement struct {
	session *ChromeSession
	loc     Locator
	node    *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromeElement) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, e.loc, err)
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.wrap("click", e.session.run(ctx, chromedp.MouseClickNode(e.node)))
}

func (e *chromeElement) ContextClick(ctx context.Context) error {
	return e.wrap("context-click", e.session.run(ctx,
		chromedp.MouseClickNode(e.node, chromedp.ButtonType(input.Right)),
	))
}

func (e *chromeElement) SendKeys(ctx context.Context, text string) error {
	return e.wrap("send-keys", e.session.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID)))
}

func (e *chromeElement) Clear(ctx context.Context) error {
	return e.wrap("clear", e.session.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID)))
}

func (e *chromeElement) Hover(ctx context.Context) error {
	return e.wrap("hover", e.session.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.ScrollIntoViewIfNeeded().WithNodeID(e.node.NodeID).Do(ctx); err != nil {
			return err
		}
		x, y, err := nodeCenter(ctx, e.node)
		if err != nil {
			return err
		}
		return chromedp.MouseEvent(input.MouseMoved, x, y).Do(ctx)
	})))
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.session.run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", e.wrap("text", err)
	}
	return text, nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	var ok bool
	if err := e.session.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID)); err != nil {
		return "", e.wrap("attribute", err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (e *chromeElement) Clickable(ctx context.Context) (bool, error) {
	clickable := false
	err := e.session.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		// No box model means the element is not rendered.
		if _, err := dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(ctx); err != nil {
			return nil
		}
		attrs, err := dom.GetAttributes(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		for i := 0; i+1 < len(attrs); i += 2 {
			if attrs[i] == "disabled" {
				return nil
			}
		}
		clickable = true
		return nil
	}))
	if err != nil {
		return false, e.wrap("clickable", err)
	}
	return clickable, nil
}

// nodeCenter returns the viewport coordinates of the centre of the node's
// first content quad.
func nodeCenter(ctx context.Context, node *cdp.Node) (float64, float64, error) {
	quads, err := dom.GetContentQuads().WithNodeID(node.NodeID).Do(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(quads) == 0 || len(quads[0]) < 8 {
		return 0, 0, fmt.Errorf("node %d has no layout", node.NodeID)
	}
	q := quads[0]
	x := (q[0] + q[2] + q[4] + q[6]) / 4
	y := (q[1] + q[3] + q[5] + q[7]) / 4
	return x, y, nil
}
