// Package crawler runs the scraping pipeline over calendar pages: fetch,
// extract, enrich and normalize. Records are returned to the caller; no
// state is kept between calls.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"divcalendar/browser"
	"divcalendar/dividend"
	"divcalendar/enrich"
	"divcalendar/metrics"
	"divcalendar/scraper"

	"go.uber.org/zap"
)

// Options configures a crawler
type Options struct {
	CalendarURL string
	// MonthURL builds the calendar page of one month
	MonthURL    func(year int, month time.Month) string
	PageTimeout time.Duration
}

// Crawler runs the pipeline one page at a time
type Crawler struct {
	fetcher  browser.Fetcher
	service  *scraper.Service
	enricher *enrich.Enricher
	opts     Options
	log      *zap.Logger
}

// New creates a crawler. enricher may be nil to skip symbol lookups.
func New(fetcher browser.Fetcher, service *scraper.Service, enricher *enrich.Enricher, opts Options, log *zap.Logger) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		service:  service,
		enricher: enricher,
		opts:     opts,
		log:      log,
	}
}

// CrawlPage fetches and extracts one page. A page that fails to load is
// logged and yields an empty result; only cancellation of ctx is returned
// as an error.
func (c *Crawler) CrawlPage(ctx context.Context, url string) (*scraper.Page, error) {
	html, err := c.fetcher.Fetch(ctx, url, c.opts.PageTimeout, scraper.PageReady)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		outcome := "error"
		if errors.Is(err, browser.ErrNotReady) {
			outcome = "timeout"
		}
		metrics.PagesFetched.WithLabelValues(outcome).Inc()
		c.log.Warn("skipping page", zap.String("url", url), zap.String("outcome", outcome), zap.Error(err))
		return &scraper.Page{}, nil
	}
	metrics.PagesFetched.WithLabelValues("ok").Inc()

	page, err := c.service.ExtractHTML(html)
	if err != nil {
		c.log.Warn("skipping unparseable page", zap.String("url", url), zap.Error(err))
		return &scraper.Page{}, nil
	}
	c.log.Info("page extracted",
		zap.String("url", url),
		zap.String("strategy", page.Strategy),
		zap.Int("records", len(page.Records)),
		zap.Int("links", len(page.Links)),
	)
	return page, nil
}

// crawlLinks extracts every linked "Show all" page
func (c *Crawler) crawlLinks(ctx context.Context, links []string) ([]dividend.Record, error) {
	var records []dividend.Record
	for _, link := range links {
		page, err := c.CrawlPage(ctx, link)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
	}
	return records, nil
}

// CrawlMonth returns the normalized records of one month: the month page
// itself plus every "Show all" page it links to
func (c *Crawler) CrawlMonth(ctx context.Context, year int, month time.Month) ([]dividend.Record, error) {
	url := c.opts.MonthURL(year, month)
	c.log.Info("processing month", zap.String("month", month.String()), zap.String("url", url))

	page, err := c.CrawlPage(ctx, url)
	if err != nil {
		return nil, err
	}
	linked, err := c.crawlLinks(ctx, page.Links)
	if err != nil {
		return nil, err
	}

	records := dividend.Normalize(append(page.Records, linked...))
	return dividend.Dedup(c.enrich(ctx, records)), nil
}

// CrawlYear crawls the given months (all twelve when empty) and returns one
// period per month with data, labelled by month name
func (c *Crawler) CrawlYear(ctx context.Context, year int, months []time.Month) (dividend.Periods, error) {
	if len(months) == 0 {
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
	}

	var periods dividend.Periods
	for _, m := range months {
		records, err := c.CrawlMonth(ctx, year, m)
		if err != nil {
			return periods, fmt.Errorf("crawl %s %d: %w", m, year, err)
		}
		if len(records) == 0 {
			c.log.Info("no dividends for month", zap.String("month", m.String()))
			continue
		}
		periods = append(periods, dividend.Period{Label: m.String(), Records: records})
	}
	return periods, nil
}

// CrawlCalendar follows every "Show all" link of the calendar landing page
// and returns their rows in scrape order. The landing page's own rows are
// previews of the same days and are not collected.
func (c *Crawler) CrawlCalendar(ctx context.Context) ([]dividend.Record, error) {
	page, err := c.CrawlPage(ctx, c.opts.CalendarURL)
	if err != nil {
		return nil, err
	}
	c.log.Info("show-all links found", zap.Int("links", len(page.Links)))

	records, err := c.crawlLinks(ctx, page.Links)
	if err != nil {
		return nil, err
	}
	return c.enrich(ctx, records), nil
}

func (c *Crawler) enrich(ctx context.Context, records []dividend.Record) []dividend.Record {
	if c.enricher == nil || len(records) == 0 {
		return records
	}
	return c.enricher.Enrich(ctx, records)
}
