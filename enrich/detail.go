package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"divcalendar/browser"
	"divcalendar/dividend"
	"divcalendar/scraper"

	"github.com/antchfx/htmlquery"
)

// DetailLookup reads ISIN and ticker from a company detail page. The page
// shows both as marker buttons sharing one class signature: the first is
// the ISIN, the second the ticker.
type DetailLookup struct {
	fetcher browser.Fetcher
	xpath   string
	timeout time.Duration
}

// NewDetailLookup creates a lookup that finds the marker buttons with xpath
func NewDetailLookup(fetcher browser.Fetcher, xpath string, timeout time.Duration) *DetailLookup {
	return &DetailLookup{
		fetcher: fetcher,
		xpath:   xpath,
		timeout: timeout,
	}
}

// Lookup fetches link and returns its ISIN and ticker. Missing buttons
// yield N/A, including when the page never renders them.
func (d *DetailLookup) Lookup(ctx context.Context, link string) (isin, ticker string, err error) {
	html, err := d.fetcher.Fetch(ctx, link, d.timeout, d.ready)
	if errors.Is(err, browser.ErrNotReady) {
		return dividend.NotAvailable, dividend.NotAvailable, nil
	}
	if err != nil {
		return "", "", err
	}
	return ParseDetailButtons(html, d.xpath)
}

func (d *DetailLookup) ready(html string) bool {
	buttons, err := markerButtons(html, d.xpath)
	return err == nil && len(buttons) > 0
}

// ParseDetailButtons returns the text of the first two marker buttons
func ParseDetailButtons(html, xpath string) (isin, ticker string, err error) {
	buttons, err := markerButtons(html, xpath)
	if err != nil {
		return "", "", err
	}

	isin, ticker = dividend.NotAvailable, dividend.NotAvailable
	if len(buttons) > 0 && buttons[0] != "" {
		isin = buttons[0]
	}
	if len(buttons) > 1 && buttons[1] != "" {
		ticker = buttons[1]
	}
	return isin, ticker, nil
}

func markerButtons(html, xpath string) ([]string, error) {
	doc, err := htmlquery.Parse(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}
	nodes, err := htmlquery.QueryAll(doc, xpath)
	if err != nil {
		return nil, fmt.Errorf("invalid marker xpath %q: %w", xpath, err)
	}

	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, scraper.CleanText(htmlquery.InnerText(n)))
	}
	return texts, nil
}
