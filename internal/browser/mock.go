package browser

import (
	"context"
	"encoding/json"

	"github.com/pagewatch/a11ymon/internal/contract"
)

// FakeBrowser is a scripted browser implementation for testing. Each
// NewSession call pops the next configured session; when the script runs
// out, the last session is reused.
type FakeBrowser struct {
	Sessions []*FakeSession

	// SessionErr fails NewSession outright when set.
	SessionErr error

	// Opened counts NewSession calls, letting tests assert fresh-session
	// semantics per attempt.
	Opened int
}

var _ contract.Browser = &FakeBrowser{}

// NewSession implements the Browser interface.
func (b *FakeBrowser) NewSession(ctx context.Context) (contract.BrowserSession, error) {
	if b.SessionErr != nil {
		return nil, b.SessionErr
	}
	if len(b.Sessions) == 0 {
		return &FakeSession{}, nil
	}
	idx := b.Opened
	if idx >= len(b.Sessions) {
		idx = len(b.Sessions) - 1
	}
	b.Opened++
	return b.Sessions[idx], nil
}

// FakeSession is one scripted browser session. Zero-value fields mean the
// corresponding operation succeeds and returns nothing.
type FakeSession struct {
	NavigateErr error
	InjectErr   error
	AsyncErr    error

	// AsyncResult is JSON-unmarshalled into the async script's out value.
	AsyncResult string

	ScreenshotData []byte
	ScreenshotErr  error

	Closed bool
}

var _ contract.BrowserSession = &FakeSession{}

// Navigate implements the BrowserSession interface.
func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	return s.NavigateErr
}

// EvaluateScript implements the BrowserSession interface.
func (s *FakeSession) EvaluateScript(ctx context.Context, code string, out any) error {
	return s.InjectErr
}

// EvaluateAsyncScript implements the BrowserSession interface.
func (s *FakeSession) EvaluateAsyncScript(ctx context.Context, code string, out any) error {
	if s.AsyncErr != nil {
		return s.AsyncErr
	}
	if s.AsyncResult == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.AsyncResult), out)
}

// Screenshot implements the BrowserSession interface.
func (s *FakeSession) Screenshot(ctx context.Context) ([]byte, error) {
	return s.ScreenshotData, s.ScreenshotErr
}

// Close implements the BrowserSession interface.
func (s *FakeSession) Close() error {
	s.Closed = true
	return nil
}
