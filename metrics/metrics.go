// Package metrics exposes Prometheus counters for the scraping pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched counts page fetches by outcome: ok, timeout or error
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "divcalendar",
		Name:      "pages_fetched_total",
		Help:      "Calendar and detail pages fetched, by outcome.",
	}, []string{"outcome"})

	// RecordsExtracted counts raw records by extraction strategy
	RecordsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "divcalendar",
		Name:      "records_extracted_total",
		Help:      "Dividend records extracted from pages, by strategy.",
	}, []string{"strategy"})

	// EnrichLookups counts symbol lookups by path (detail, search) and outcome (hit, miss, error)
	EnrichLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "divcalendar",
		Name:      "enrich_lookups_total",
		Help:      "ISIN/ticker lookups, by path and outcome.",
	}, []string{"path", "outcome"})
)
