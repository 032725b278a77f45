package scraper

import (
	"fmt"
	"strings"

	"divcalendar/dividend"
	"divcalendar/metrics"

	"github.com/PuerkitoBio/goquery"
)

// Page is what one calendar page yields
type Page struct {
	Strategy string
	Records  []dividend.Record
	// Links are the "Show all" pages reachable from this one
	Links []string
}

// Service turns rendered markup into records
type Service struct {
	registry *Registry
	origin   string
}

// NewService creates a service resolving links against origin
func NewService(registry *Registry, origin string) *Service {
	return &Service{
		registry: registry,
		origin:   origin,
	}
}

// ExtractHTML parses the markup and runs the matching strategy over it
func (s *Service) ExtractHTML(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	strategy := s.registry.FindStrategy(doc)
	if strategy == nil {
		return nil, fmt.Errorf("no extraction strategy available")
	}

	records := strategy.Extract(doc)
	metrics.RecordsExtracted.WithLabelValues(strategy.Name()).Add(float64(len(records)))

	return &Page{
		Strategy: strategy.Name(),
		Records:  records,
		Links:    ShowAllLinks(doc, s.origin),
	}, nil
}
