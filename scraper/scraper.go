// Package scraper extracts dividend rows from rendered calendar pages
package scraper

import (
	"strings"
	"sync"

	"divcalendar/dividend"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Strategy extracts dividend records from one kind of page layout
type Strategy interface {
	// Name identifies the strategy in logs and metrics
	Name() string

	// CanHandle reports whether the document has the markup this strategy reads
	CanHandle(doc *goquery.Document) bool

	// Extract returns the candidate records found in the document
	Extract(doc *goquery.Document) []dividend.Record
}

// Registry holds the available strategies
type Registry struct {
	strategies []Strategy
	fallback   Strategy
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		strategies: make([]Strategy, 0),
	}
}

// NewDefaultRegistry registers the table strategy with the text strategy as
// fallback. origin resolves relative company links.
func NewDefaultRegistry(origin string) *Registry {
	r := NewRegistry()
	r.Register(&TableStrategy{Origin: origin})
	r.SetFallback(&TextStrategy{})
	return r
}

// Register adds a strategy. Strategies are tried in registration order.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
}

// SetFallback sets the strategy used when no other one matches
func (r *Registry) SetFallback(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = s
}

// FindStrategy returns the first strategy that can handle doc, or the fallback
func (r *Registry) FindStrategy(doc *goquery.Document) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.CanHandle(doc) {
			return s
		}
	}
	return r.fallback
}

// CleanText collapses runs of whitespace into single spaces
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// JoinedText returns every non-blank text node under the selection, trimmed
// and joined with single spaces
func JoinedText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := CleanText(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
