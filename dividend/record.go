// Package dividend holds the dividend record model and the transformations
// applied to a period's records before export
package dividend

import "strings"

// NotAvailable marks a field the source page did not provide
const NotAvailable = "N/A"

// Record is one dividend row scraped from the calendar
type Record struct {
	Company    string `json:"company"`
	ExDate     string `json:"exDate"`
	PayDate    string `json:"payDate"`
	DivPercent string `json:"divPercent"`
	Amount     string `json:"amount"`
	ISIN       string `json:"isin,omitempty"`
	Ticker     string `json:"ticker,omitempty"`
	SourceLink string `json:"sourceLink,omitempty"`
}

// Key is the tuple two records must share to count as duplicates
type Key struct {
	Company, ExDate, PayDate, DivPercent, Amount, ISIN, Ticker string
}

// Key returns the dedup key of the record. SourceLink is not part of it.
func (r Record) Key() Key {
	return Key{r.Company, r.ExDate, r.PayDate, r.DivPercent, r.Amount, r.ISIN, r.Ticker}
}

// MissingSymbols reports whether the ISIN or the ticker still needs a lookup
func (r Record) MissingSymbols() bool {
	return IsMissing(r.ISIN) || IsMissing(r.Ticker)
}

// IsMissing reports whether a symbol field is blank or N/A
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == NotAvailable
}

// Period is the ordered set of records exported as one sheet or file
type Period struct {
	Label   string
	Records []Record
}

// Periods keeps periods in the order they were crawled
type Periods []Period

// Total returns the number of records across all periods
func (p Periods) Total() int {
	total := 0
	for _, period := range p {
		total += len(period.Records)
	}
	return total
}

// NonEmpty drops periods without records
func (p Periods) NonEmpty() Periods {
	var out Periods
	for _, period := range p {
		if len(period.Records) > 0 {
			out = append(out, period)
		}
	}
	return out
}

// Find returns the period with the given label
func (p Periods) Find(label string) (Period, bool) {
	for _, period := range p {
		if period.Label == label {
			return period, true
		}
	}
	return Period{}, false
}
