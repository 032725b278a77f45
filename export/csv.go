package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"divcalendar/dividend"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

type csvRow struct {
	Company    string `csv:"Company"`
	ExDate     string `csv:"Ex-Date"`
	PayDate    string `csv:"Pay Date"`
	DivPercent string `csv:"Div.%"`
	Amount     string `csv:"Amount"`
}

type csvSymbolRow struct {
	Company    string `csv:"Company"`
	ExDate     string `csv:"Ex-Date"`
	PayDate    string `csv:"Pay Date"`
	DivPercent string `csv:"Div.%"`
	Amount     string `csv:"Amount"`
	ISIN       string `csv:"ISIN"`
	Symbol     string `csv:"Symbol"`
}

// WriteCSV writes each non-empty period to its own file. A single period
// goes to path; several go to <stem>_<label><ext> next to it. When every
// period is empty nothing is written and a "no data" warning is logged.
// It returns the files written.
func WriteCSV(path string, periods dividend.Periods, opts Options, log *zap.Logger) ([]string, error) {
	periods = periods.NonEmpty()
	if len(periods) == 0 {
		log.Warn("no dividend data to save", zap.String("path", path))
		return nil, nil
	}

	var written []string
	names := make(sheetNames)
	for i, p := range periods {
		target := path
		if len(periods) > 1 {
			target = periodPath(path, names.next(p.Label, i))
		}
		if err := writeCSVFile(target, p.Records, opts); err != nil {
			return written, err
		}
		log.Info("csv saved", zap.String("path", target), zap.Int("records", len(p.Records)))
		written = append(written, target)
	}
	return written, nil
}

func writeCSVFile(path string, records []dividend.Record, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if opts.WithSymbols {
		rows := make([]*csvSymbolRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, &csvSymbolRow{r.Company, r.ExDate, r.PayDate, r.DivPercent, r.Amount, r.ISIN, r.Ticker})
		}
		err = gocsv.MarshalFile(&rows, f)
	} else {
		rows := make([]*csvRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, &csvRow{r.Company, r.ExDate, r.PayDate, r.DivPercent, r.Amount})
		}
		err = gocsv.MarshalFile(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func periodPath(path, label string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	label = strings.ReplaceAll(label, " ", "_")
	return stem + "_" + label + ext
}
