package export

import (
	"fmt"
	"strings"

	"divcalendar/dividend"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const maxSheetName = 31

// WriteWorkbook writes one sheet per non-empty period. When every period
// is empty nothing is written and a "no data" warning is logged.
func WriteWorkbook(path string, periods dividend.Periods, opts Options, log *zap.Logger) error {
	periods = periods.NonEmpty()
	if len(periods) == 0 {
		log.Warn("no dividend data to save", zap.String("path", path))
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	names := make(sheetNames)
	for i, p := range periods {
		name := names.next(p.Label, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, p.Records, opts); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	log.Info("workbook saved",
		zap.String("path", path),
		zap.Int("sheets", len(periods)),
		zap.Int("records", periods.Total()),
	)
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []dividend.Record, opts Options) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", sheet, err)
	}

	if err := sw.SetRow("A1", cells(opts.header())); err != nil {
		return err
	}
	for i, r := range records {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(addr, cells(opts.row(r))); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// sheetName trims a label to a valid sheet name. Labels that end up empty
// get a positional name.
func sheetName(label string, index int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(label))
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	return name
}

// sheetNames hands out sheet names that are unique ignoring case. A repeat
// gets a numeric suffix, cutting the base so the result still fits.
type sheetNames map[string]bool

func (n sheetNames) next(label string, index int) string {
	base := sheetName(label, index)
	name := base
	for i := 2; n[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	n[strings.ToLower(name)] = true
	return name
}

// ReadWorkbook loads every sheet back as a period, mapping columns by their
// header name. Sheets without a Company column are skipped.
func ReadWorkbook(path string) (dividend.Periods, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	var periods dividend.Periods
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		period := dividend.Period{Label: sheet}
		if len(rows) > 0 {
			period.Records = recordsFromRows(rows[0], rows[1:])
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// LastSheet returns the last period of a workbook
func LastSheet(periods dividend.Periods) (dividend.Period, error) {
	if len(periods) == 0 {
		return dividend.Period{}, ErrNoSheets
	}
	return periods[len(periods)-1], nil
}

func recordsFromRows(header []string, rows [][]string) []dividend.Record {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	if _, ok := index["Company"]; !ok {
		return nil
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []dividend.Record
	for _, row := range rows {
		r := dividend.Record{
			Company:    cell(row, "Company"),
			ExDate:     cell(row, "Ex-Date"),
			PayDate:    cell(row, "Pay Date"),
			DivPercent: cell(row, "Div.%"),
			Amount:     cell(row, "Amount"),
			ISIN:       cell(row, "ISIN"),
			Ticker:     cell(row, "Symbol"),
		}
		if r.Company == "" {
			continue
		}
		records = append(records, r)
	}
	return records
}
