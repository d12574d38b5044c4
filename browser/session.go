// Package browser provides browser automation functionality
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// Locator is one element-location strategy. Strategies are tried in order;
// the first that resolves an element within its per-try timeout wins.
type Locator struct {
	Desc string
	Sel  string
	By   chromedp.QueryOption
}

func (l Locator) opts() []chromedp.QueryOption {
	if l.By != nil {
		return []chromedp.QueryOption{l.By}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

// Session owns one headless browser with a single authenticated tab. All
// lookup queries run sequentially against it; detail pages open transient
// child tabs that never outlive the row being extracted.
type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New launches the browser. With headless false the browser window stays
// visible, which is the debug mode of the CLI.
func New(headless bool) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-site-isolation-trials", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"),
	)

	s := &Session{}
	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	s.ctx, s.cancel = chromedp.NewContext(s.allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch ev.(type) {
		case *page.EventFrameStartedNavigating:
			// Silent handling
		}
	})

	if err := chromedp.Run(s.ctx, chromedp.Navigate("about:blank")); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize browser: %v", err)
	}
	return s, nil
}

// Context exposes the tab context for callers that need raw chromedp access
// (new child tabs, target waits).
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close shuts the browser down.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// Navigate loads a URL in the main tab and waits for the body to be ready.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to navigate to %s: %v", url, err)
	}
	return nil
}

// NavigateBack returns the main tab to the previous page.
func (s *Session) NavigateBack(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.NavigateBack())
}

// Location returns the main tab's current URL.
func (s *Session) Location() (string, error) {
	var url string
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// HTML returns the full HTML of the main tab.
func (s *Session) HTML(timeout time.Duration) (string, error) {
	return HTMLOf(s.ctx, timeout)
}

// HTMLOf returns the full HTML of the tab behind ctx.
func HTMLOf(ctx context.Context, timeout time.Duration) (string, error) {
	var html string
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %v", err)
	}
	return html, nil
}

// WaitVisible waits for a single selector to become visible.
func (s *Session) WaitVisible(loc Locator, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.WaitVisible(loc.Sel, loc.opts()...)); err != nil {
		return fmt.Errorf("%s did not become visible: %v", loc.Desc, err)
	}
	return nil
}

// WaitAny waits until any one of the locators becomes visible. It returns
// the winning locator's description, or an error once the shared deadline
// passes with nothing visible.
func (s *Session) WaitAny(timeout time.Duration, locs ...Locator) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	won := make(chan string, len(locs))
	for _, loc := range locs {
		go func(loc Locator) {
			if err := chromedp.Run(ctx, chromedp.WaitVisible(loc.Sel, loc.opts()...)); err == nil {
				won <- loc.Desc
			}
		}(loc)
	}

	select {
	case desc := <-won:
		return desc, nil
	case <-ctx.Done():
		return "", fmt.Errorf("none of %d expected elements became visible within %s", len(locs), timeout)
	}
}

// FillFirst clears and fills the first locatable input among the given
// strategies. It returns the description of the strategy that succeeded.
func (s *Session) FillFirst(value string, perTry time.Duration, locs ...Locator) (string, error) {
	for _, loc := range locs {
		ctx, cancel := context.WithTimeout(s.ctx, perTry)
		err := chromedp.Run(ctx,
			chromedp.Clear(loc.Sel, loc.opts()...),
			chromedp.SendKeys(loc.Sel, value, loc.opts()...),
		)
		cancel()
		if err == nil {
			return loc.Desc, nil
		}
	}
	return "", fmt.Errorf("no input field matched any of %d strategies", len(locs))
}

// ClickFirst clicks the first locatable element among the given strategies.
func (s *Session) ClickFirst(perTry time.Duration, locs ...Locator) (string, error) {
	for _, loc := range locs {
		ctx, cancel := context.WithTimeout(s.ctx, perTry)
		err := chromedp.Run(ctx, chromedp.Click(loc.Sel, loc.opts()...))
		cancel()
		if err == nil {
			return loc.Desc, nil
		}
	}
	return "", fmt.Errorf("no clickable element matched any of %d strategies", len(locs))
}

// Sleep pauses the driver loop. Settle pauses are part of the scraping
// protocol: the portal updates the grid with JavaScript after load.
func (s *Session) Sleep(d time.Duration) {
	_ = chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// Cookies exports the session's cookies so the direct HTTP fetcher can reuse
// the authenticated state.
func (s *Session) Cookies() ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to export cookies: %v", err)
	}
	return cookies, nil
}
