// Package browsertest provides an in-memory page fetcher for tests
package browsertest

import (
	"context"
	"fmt"
	"time"

	"divcalendar/browser"
)

// Fetcher serves canned markup by URL. A page that fails the readiness
// check behaves like a page that timed out.
type Fetcher struct {
	Pages  map[string]string
	Errors map[string]error
	Calls  []string
}

// Fetch implements browser.Fetcher
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration, ready browser.ReadyFunc) (string, error) {
	f.Calls = append(f.Calls, url)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.Errors[url]; ok {
		return "", err
	}
	html, ok := f.Pages[url]
	if !ok {
		return "", fmt.Errorf("%s: %w", url, browser.ErrNotReady)
	}
	if ready != nil && !ready(html) {
		return "", fmt.Errorf("%s: %w", url, browser.ErrNotReady)
	}
	return html, nil
}
