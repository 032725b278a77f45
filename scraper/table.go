package scraper

import (
	"divcalendar/dividend"

	"github.com/PuerkitoBio/goquery"
)

const (
	tableRowSelector    = `tr[class*="group"]`
	companyLinkSelector = `a[class*="truncate"]`
	minTableCells       = 5
)

// TableStrategy reads the structured calendar table: one tr per dividend
// with company, ex-date, pay date, percent and amount cells
type TableStrategy struct {
	Origin string
}

// Name returns "table"
func (s *TableStrategy) Name() string { return "table" }

// CanHandle reports whether the document has calendar table rows
func (s *TableStrategy) CanHandle(doc *goquery.Document) bool {
	return doc.Find(tableRowSelector).Length() > 0
}

// Extract returns one record per row with at least five cells
func (s *TableStrategy) Extract(doc *goquery.Document) []dividend.Record {
	var records []dividend.Record
	doc.Find(tableRowSelector).Each(func(i int, row *goquery.Selection) {
		if r, ok := s.parseRow(row); ok {
			records = append(records, r)
		}
	})
	return records
}

func (s *TableStrategy) parseRow(row *goquery.Selection) (dividend.Record, bool) {
	cells := row.Find("td")
	if cells.Length() < minTableCells {
		return dividend.Record{}, false
	}

	first := cells.Eq(0)
	company := JoinedText(first)
	if link := first.Find(companyLinkSelector).First(); link.Length() > 0 {
		company = CleanText(link.Text())
	}

	r := dividend.Record{
		Company:    company,
		ExDate:     CleanText(cells.Eq(1).Text()),
		PayDate:    CleanText(cells.Eq(2).Text()),
		DivPercent: CleanText(cells.Eq(3).Text()),
		Amount:     CleanText(cells.Eq(4).Text()),
	}
	if href, ok := first.Find("a[href]").First().Attr("href"); ok {
		r.SourceLink = ResolveURL(s.Origin, href)
	}
	return r, true
}
