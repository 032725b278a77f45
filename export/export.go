// Package export writes dividend periods to workbooks and CSV files
package export

import (
	"errors"

	"divcalendar/dividend"
)

// ErrNoSheets is returned when a workbook holds no readable sheet
var ErrNoSheets = errors.New("workbook has no sheets")

// Columns is the fixed column order of every output unit
var Columns = []string{"Company", "Ex-Date", "Pay Date", "Div.%", "Amount"}

// SymbolColumns are appended when Options.WithSymbols is set
var SymbolColumns = []string{"ISIN", "Symbol"}

// Options controls the optional columns
type Options struct {
	WithSymbols bool
}

func (o Options) header() []string {
	if o.WithSymbols {
		return append(append([]string{}, Columns...), SymbolColumns...)
	}
	return Columns
}

func (o Options) row(r dividend.Record) []string {
	row := []string{r.Company, r.ExDate, r.PayDate, r.DivPercent, r.Amount}
	if o.WithSymbols {
		row = append(row, r.ISIN, r.Ticker)
	}
	return row
}
