package enrich

import (
	"context"
	"strings"

	"divcalendar/dividend"
	"divcalendar/metrics"

	"github.com/antzucaro/matchr"
	"go.uber.org/zap"
)

// Searcher finds quote candidates for a company name
type Searcher interface {
	Search(ctx context.Context, name string) ([]Quote, error)
}

// Enricher fills in missing ISIN and ticker fields
type Enricher struct {
	search Searcher
	detail *DetailLookup
	log    *zap.Logger
}

// New creates an enricher. detail may be nil to skip detail pages.
func New(search Searcher, detail *DetailLookup, log *zap.Logger) *Enricher {
	return &Enricher{
		search: search,
		detail: detail,
		log:    log,
	}
}

// LookupByName searches for the company and returns the first candidate
// that carries a symbol, as both ISIN and ticker. No further
// disambiguation is done, so an ambiguous name can map to the wrong
// security. Errors are logged and reported as no match.
func (e *Enricher) LookupByName(ctx context.Context, name string) (isin, ticker string) {
	name = strings.TrimSpace(name)
	if name == "" || e.search == nil {
		return "", ""
	}

	quotes, err := e.search.Search(ctx, name)
	if err != nil {
		metrics.EnrichLookups.WithLabelValues("search", "error").Inc()
		e.log.Warn("symbol search failed", zap.String("company", name), zap.Error(err))
		return "", ""
	}

	for _, q := range quotes {
		if q.Symbol == nil {
			continue
		}
		symbol := strings.TrimSpace(*q.Symbol)
		if symbol == "" {
			break
		}
		metrics.EnrichLookups.WithLabelValues("search", "hit").Inc()
		e.log.Debug("symbol found",
			zap.String("company", name),
			zap.String("symbol", symbol),
			zap.String("shortname", q.ShortName),
			zap.Float64("similarity", matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(q.ShortName), false)),
		)
		return symbol, symbol
	}

	metrics.EnrichLookups.WithLabelValues("search", "miss").Inc()
	e.log.Debug("no symbol found", zap.String("company", name))
	return "", ""
}

// Enrich returns a copy of records with missing symbols backfilled: first
// from the detail page when the record links to one, then by name search.
// Only missing fields are written.
func (e *Enricher) Enrich(ctx context.Context, records []dividend.Record) []dividend.Record {
	out := make([]dividend.Record, len(records))
	copy(out, records)

	for i := range out {
		if ctx.Err() != nil {
			e.log.Warn("enrichment interrupted", zap.Int("remaining", len(out)-i))
			break
		}
		r := &out[i]
		if !r.MissingSymbols() {
			continue
		}

		if e.detail != nil && r.SourceLink != "" {
			isin, ticker, err := e.detail.Lookup(ctx, r.SourceLink)
			if err != nil {
				metrics.EnrichLookups.WithLabelValues("detail", "error").Inc()
				e.log.Warn("detail lookup failed", zap.String("link", r.SourceLink), zap.Error(err))
			} else {
				metrics.EnrichLookups.WithLabelValues("detail", outcome(isin, ticker)).Inc()
				fill(r, isin, ticker)
			}
		}

		if r.MissingSymbols() {
			isin, ticker := e.LookupByName(ctx, r.Company)
			fill(r, isin, ticker)
		}
	}
	return out
}

func fill(r *dividend.Record, isin, ticker string) {
	if isin != "" && dividend.IsMissing(r.ISIN) {
		r.ISIN = isin
	}
	if ticker != "" && dividend.IsMissing(r.Ticker) {
		r.Ticker = ticker
	}
}

func outcome(isin, ticker string) string {
	if isin == dividend.NotAvailable && ticker == dividend.NotAvailable {
		return "miss"
	}
	return "hit"
}
