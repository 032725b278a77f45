package scraper

import (
	"regexp"
	"strings"

	"divcalendar/dividend"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	dayHeadingPattern = regexp.MustCompile(`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\s+\d{1,2}\s+\w+\s+\d{4}$`)
	datePattern       = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	percentPattern    = regexp.MustCompile(`\d+\.\d+%`)
)

// TextStrategy reads calendars rendered without table markup. Rows are
// grouped under day headings such as "Sunday 2 March 2025" and every
// sibling after a heading, up to the next heading, is parsed as one row.
type TextStrategy struct{}

// Name returns "text"
func (s *TextStrategy) Name() string { return "text" }

// CanHandle always returns true since this is the fallback strategy
func (s *TextStrategy) CanHandle(doc *goquery.Document) bool { return true }

// Extract walks every day heading and parses the rows of its group
func (s *TextStrategy) Extract(doc *goquery.Document) []dividend.Record {
	var records []dividend.Record
	for _, heading := range DayHeadings(doc) {
		heading.NextAll().EachWithBreak(func(i int, sib *goquery.Selection) bool {
			text := JoinedText(sib)
			if IsDayHeading(text) {
				return false
			}
			if r, ok := ParseRow(text); ok {
				records = append(records, r)
			}
			return true
		})
	}
	return records
}

// IsDayHeading reports whether text is a day heading like "Sunday 2 March 2025"
func IsDayHeading(text string) bool {
	return dayHeadingPattern.MatchString(CleanText(text))
}

// DayHeadings returns one element per day heading: the element whose
// following siblings hold that day's rows. Starting from the innermost
// element carrying the heading text, it climbs through wrappers that hold
// nothing but the heading until it finds an element with siblings after it.
func DayHeadings(doc *goquery.Document) []*goquery.Selection {
	var headings []*goquery.Selection
	seen := make(map[*html.Node]bool)
	doc.Find("body *").Each(func(i int, s *goquery.Selection) {
		if !IsDayHeading(s.Text()) {
			return
		}
		nested := false
		s.Children().EachWithBreak(func(i int, c *goquery.Selection) bool {
			nested = IsDayHeading(c.Text())
			return !nested
		})
		if nested {
			return
		}
		anchor := groupAnchor(s)
		if node := anchor.Get(0); !seen[node] {
			seen[node] = true
			headings = append(headings, anchor)
		}
	})
	return headings
}

// groupAnchor walks up from a heading element through wrappers whose text
// is still only the heading, stopping at the first one with a next sibling
func groupAnchor(s *goquery.Selection) *goquery.Selection {
	cur := s
	for cur.Next().Length() == 0 {
		parent := cur.Parent()
		if parent.Length() == 0 || goquery.NodeName(parent) == "body" || !IsDayHeading(parent.Text()) {
			break
		}
		cur = parent
	}
	return cur
}

// ParseRow extracts one record from the text of a calendar row. The first
// two dates are the ex-date and the pay date. With a single date both are
// reported as N/A; with no date the text is not a row.
func ParseRow(text string) (dividend.Record, bool) {
	text = CleanText(text)
	dates := datePattern.FindAllString(text, -1)
	if len(dates) == 0 {
		return dividend.Record{}, false
	}

	company := CompanyBeforeFirstDate(text)
	if company == "" {
		return dividend.Record{}, false
	}

	r := dividend.Record{
		Company:    company,
		ExDate:     dividend.NotAvailable,
		PayDate:    dividend.NotAvailable,
		DivPercent: dividend.NotAvailable,
		Amount:     dividend.NotAvailable,
	}
	if len(dates) >= 2 {
		r.ExDate, r.PayDate = dates[0], dates[1]
	}
	if m := percentPattern.FindString(text); m != "" {
		r.DivPercent = m
	}
	if m := dividend.AmountPattern.FindString(text); m != "" {
		r.Amount = m
	}
	return r, true
}

// CompanyBeforeFirstDate returns the text preceding the first DD/MM/YYYY
// match, trimmed. Company names that themselves contain such a date are
// cut short; callers get "" when the text starts with a date or has none.
func CompanyBeforeFirstDate(text string) string {
	loc := datePattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(text[:loc[0]])
}
