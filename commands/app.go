package commands

import (
	"fmt"

	"divcalendar/browser"
	"divcalendar/config"
	"divcalendar/crawler"
	"divcalendar/enrich"
	"divcalendar/logging"
	"divcalendar/scraper"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is what every command starts from
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	log = log.With(
		zap.String("command", cmd.Name()),
		zap.String("run_id", uuid.NewString()),
	)
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) searchClient() *enrich.SearchClient {
	return enrich.NewSearchClient(a.cfg.Search.URL, a.cfg.Search.Timeout)
}

// startBrowser launches Chrome. Failure here is fatal to the run.
func (a *app) startBrowser() (*browser.Browser, error) {
	b, err := browser.New(browser.Options{
		Headless:     a.cfg.Browser.Headless,
		UserAgent:    a.cfg.Browser.UserAgent,
		PollInterval: a.cfg.Browser.PollInterval,
	}, a.log.Named("browser"))
	if err != nil {
		return nil, fmt.Errorf("browser engine unavailable: %w", err)
	}
	return b, nil
}

// newCrawler wires the pipeline over b. With withSymbols the records are
// enriched from their detail pages and by name search.
func (a *app) newCrawler(b *browser.Browser, withSymbols bool) *crawler.Crawler {
	var enricher *enrich.Enricher
	if withSymbols {
		detail := enrich.NewDetailLookup(b, a.cfg.Site.DetailButtonXPath, a.cfg.Browser.DetailTimeout)
		enricher = enrich.New(a.searchClient(), detail, a.log.Named("enrich"))
	}

	service := scraper.NewService(scraper.NewDefaultRegistry(a.cfg.Site.Origin), a.cfg.Site.Origin)
	return crawler.New(b, service, enricher, crawler.Options{
		CalendarURL: a.cfg.Site.CalendarURL,
		MonthURL:    a.cfg.Site.MonthURL,
		PageTimeout: a.cfg.Browser.PageTimeout,
	}, a.log.Named("crawler"))
}
