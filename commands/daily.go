package commands

import (
	"divcalendar/dividend"
	"divcalendar/export"

	"github.com/spf13/cobra"
)

var (
	dailyOut    *string
	dailyEnrich *bool
)

func init() {
	dailyOut = dailyCmd.Flags().String("out", "dividends_full_calendar.csv", "The CSV file to write.")
	dailyEnrich = dailyCmd.Flags().Bool("enrich", false, "Look up ISIN and ticker for every record.")
	rootCmd.AddCommand(dailyCmd)
}

var dailyCmd = &cobra.Command{
	Use:   "daily [--out <path/to/output.csv>] [--enrich]",
	Short: "Follows every \"Show all\" link of the calendar page and writes the rows to CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		records, err := a.newCrawler(b, *dailyEnrich).CrawlCalendar(cmd.Context())
		if err != nil {
			return err
		}

		periods := dividend.Periods{{Label: "calendar", Records: records}}
		_, err = export.WriteCSV(*dailyOut, periods, export.Options{WithSymbols: *dailyEnrich}, a.log)
		return err
	},
}
