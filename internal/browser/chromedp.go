// Package browser provides headless Chrome sessions for the rule engine.
package browser

import (
	"context"
	"fmt"
	"time"

	cdruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/pagewatch/a11ymon/internal/contract"
)

// SessionTimeout bounds the lifetime of a single browser session. A page
// that cannot be audited inside this window is treated as a failed attempt.
const SessionTimeout = 90 * time.Second

// userAgent masks the headless marker; the storefronts serve a degraded
// shell to obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ChromeBrowser launches headless Chrome sessions via the DevTools
// protocol. One allocator is shared; each session gets its own tab context.
type ChromeBrowser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var _ contract.Browser = &ChromeBrowser{}

// NewChromeBrowser builds the shared allocator. The options mirror a
// plain desktop profile.
func NewChromeBrowser(ctx context.Context) *ChromeBrowser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &ChromeBrowser{allocCtx: allocCtx, allocCancel: cancel}
}

// NewSession opens a fresh tab context.
func (b *ChromeBrowser) NewSession(ctx context.Context) (contract.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, SessionTimeout)

	// Start the browser process eagerly so session failures surface here
	// rather than on the first navigation.
	if err := chromedp.Run(timeoutCtx); err != nil {
		timeoutCancel()
		tabCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &chromeSession{
		ctx:    timeoutCtx,
		cancel: func() { timeoutCancel(); tabCancel() },
	}, nil
}

// Close tears down the shared allocator and every remaining session.
func (b *ChromeBrowser) Close() error {
	b.allocCancel()
	return nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

var _ contract.BrowserSession = &chromeSession{}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) EvaluateScript(ctx context.Context, code string, out any) error {
	// A nil out discards the expression value; injection scripts have no
	// meaningful result.
	return s.run(ctx, chromedp.Evaluate(code, out))
}

func (s *chromeSession) EvaluateAsyncScript(ctx context.Context, code string, out any) error {
	// Wrap the callback-style script into a promise the protocol can await.
	wrapped := fmt.Sprintf(`new Promise((resolve) => {
		(function() { %s })(resolve);
	})`, rewriteCallbackScript(code))
	return s.run(ctx, chromedp.Evaluate(wrapped, out, func(p *cdruntime.EvaluateParams) *cdruntime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
}

func (s *chromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}

// run executes actions on the session tab while honoring the caller's
// context as well as the session deadline.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(s.ctx, actions...)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// rewriteCallbackScript adapts WebDriver-style async scripts, which read
// their completion callback from the trailing argument, to a single
// injected resolve function.
func rewriteCallbackScript(code string) string {
	return "const arguments = [resolve];\n" + code
}
