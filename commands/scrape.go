package commands

import (
	"fmt"
	"time"

	"divcalendar/dividend"
	"divcalendar/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scrapeYear   *int
	scrapeMonths *[]string
	scrapeOut    *string
	scrapeEnrich *bool
)

func init() {
	scrapeYear = scrapeCmd.Flags().Int("year", time.Now().Year(), "The calendar year to scrape.")
	scrapeMonths = scrapeCmd.Flags().StringSlice("months", nil, "Months to scrape, by number or name. Defaults to all twelve.")
	scrapeOut = scrapeCmd.Flags().String("out", "", "The workbook to write. Defaults to dividends_<year>.xlsx.")
	scrapeEnrich = scrapeCmd.Flags().Bool("enrich", false, "Look up ISIN and ticker for every record.")
	rootCmd.AddCommand(scrapeCmd)
}

func parseMonths(values []string) ([]time.Month, error) {
	var months []time.Month
	for _, v := range values {
		m, ok := dividend.ParseMonth(v)
		if !ok {
			return nil, fmt.Errorf("invalid month %q", v)
		}
		months = append(months, m)
	}
	return months, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--year <year>] [--months <m,...>] [--out <path/to/workbook.xlsx>] [--enrich]",
	Short: "Scrapes one year of the calendar into a workbook with one sheet per month.",
	RunE: func(cmd *cobra.Command, args []string) error {
		months, err := parseMonths(*scrapeMonths)
		if err != nil {
			return err
		}
		out := *scrapeOut
		if out == "" {
			out = fmt.Sprintf("dividends_%d.xlsx", *scrapeYear)
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		b, err := a.startBrowser()
		if err != nil {
			return err
		}
		defer b.Close()

		t1 := time.Now()
		periods, err := a.newCrawler(b, *scrapeEnrich).CrawlYear(cmd.Context(), *scrapeYear, months)
		if err != nil {
			return err
		}
		a.log.Info("scraping time", zap.Float64("seconds", time.Since(t1).Seconds()), zap.Int("records", periods.Total()))

		return export.WriteWorkbook(out, periods, export.Options{WithSymbols: *scrapeEnrich}, a.log)
	},
}
