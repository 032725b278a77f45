// Package browser renders calendar pages with headless Chrome
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrNotReady is returned when a page never satisfied its readiness check
// within the fetch timeout
var ErrNotReady = errors.New("page not ready before timeout")

// ReadyFunc reports whether the rendered markup holds the content we wait for
type ReadyFunc func(html string) bool

// Fetcher returns the rendered markup of a URL once ready holds
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration, ready ReadyFunc) (string, error)
}

// Options configures the Chrome instance
type Options struct {
	Headless     bool
	UserAgent    string
	PollInterval time.Duration
}

// Browser drives a single Chrome tab. Fetches are sequential.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	interval    time.Duration
	log         *zap.Logger
}

// New starts Chrome and opens a blank tab. An error here means the browser
// engine is unavailable.
func New(opts Options, log *zap.Logger) (*Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("enable-javascript", true),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	b := &Browser{
		interval: opts.PollInterval,
		log:      log,
	}
	if b.interval <= 0 {
		b.interval = 500 * time.Millisecond
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	b.tabCtx, b.tabCancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Sugar().Debugf(format, args...)
	}))

	if err := chromedp.Run(b.tabCtx, chromedp.Navigate("about:blank")); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Info("browser started", zap.Bool("headless", opts.Headless))
	return b, nil
}

// Fetch navigates to url and polls the rendered markup until ready holds
// or timeout elapses. A nil ready accepts the first snapshot.
func (b *Browser) Fetch(ctx context.Context, url string, timeout time.Duration, ready ReadyFunc) (string, error) {
	fetchCtx, cancel := context.WithTimeout(b.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	defer b.reset()

	if err := chromedp.Run(fetchCtx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s: %w", url, ErrNotReady)
		}
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	html, err := pollUntil(fetchCtx, b.interval, func(ctx context.Context) (string, error) {
		var html string
		err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
		return html, err
	}, ready)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s: %w", url, err)
	}
	return html, nil
}

// reset clears cookies between pages so one page cannot affect the next
func (b *Browser) reset() {
	resetCtx, cancel := context.WithTimeout(b.tabCtx, 3*time.Second)
	defer cancel()
	if err := chromedp.Run(resetCtx, network.ClearBrowserCookies()); err != nil {
		b.log.Debug("failed to clear cookies", zap.Error(err))
	}
}

// Close shuts the tab and the Chrome process down
func (b *Browser) Close() {
	if b.tabCancel != nil {
		b.tabCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// pollUntil takes snapshots every interval until ready accepts one. It
// returns ErrNotReady once ctx expires. Snapshot errors are retried until
// then, since a page mid-navigation may briefly have no document.
func pollUntil(ctx context.Context, interval time.Duration, snapshot func(context.Context) (string, error), ready ReadyFunc) (string, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		html, err := snapshot(ctx)
		if err == nil && (ready == nil || ready(html)) {
			return html, nil
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil && !errors.Is(lastErr, context.DeadlineExceeded) && !errors.Is(lastErr, context.Canceled) {
				return "", fmt.Errorf("%w: %v", ErrNotReady, lastErr)
			}
			return "", ErrNotReady
		case <-ticker.C:
		}
	}
}
