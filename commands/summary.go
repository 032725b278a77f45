package commands

import (
	"io"
	"os"

	"divcalendar/dividend"
	"divcalendar/enrich"
	"divcalendar/export"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	summaryIn      *string
	summaryTickers *bool
)

func init() {
	summaryIn = summaryCmd.Flags().String("in", "dividends_2025.xlsx", "The workbook to summarize.")
	summaryTickers = summaryCmd.Flags().Bool("tickers", false, "Search a ticker for the first company of each month.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--in <path/to/workbook.xlsx>] [--tickers]",
	Short: "Prints the first company and the record count of every month in a workbook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		periods, err := export.ReadWorkbook(*summaryIn)
		if err != nil {
			return err
		}

		var lookup func(name string) string
		if *summaryTickers {
			enricher := enrich.New(a.searchClient(), nil, a.log.Named("enrich"))
			lookup = func(name string) string {
				_, ticker := enricher.LookupByName(cmd.Context(), name)
				return ticker
			}
		}
		renderSummary(os.Stdout, periods, lookup)
		return nil
	},
}

// renderSummary prints the per-month tables. lookup, when set, resolves a
// ticker for the first company of each month.
func renderSummary(w io.Writer, periods dividend.Periods, lookup func(name string) string) {
	periods = periods.NonEmpty()
	first := dividend.FirstPerPeriod(periods)
	counts := dividend.Counts(periods)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("One company from each month")
	header := table.Row{"Month", "Company", "Ex-Date", "Pay Date", "Div.%", "Amount"}
	if lookup != nil {
		header = append(header, "Ticker")
	}
	t.AppendHeader(header)
	for _, p := range periods {
		r := first[p.Label]
		row := table.Row{p.Label, r.Company, r.ExDate, r.PayDate, r.DivPercent, r.Amount}
		if lookup != nil {
			ticker := lookup(r.Company)
			if ticker == "" {
				ticker = dividend.NotAvailable
			}
			row = append(row, ticker)
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	c := table.NewWriter()
	c.SetOutputMirror(w)
	c.SetTitle("Records per month")
	c.AppendHeader(table.Row{"Month", "Companies"})
	for _, p := range periods {
		c.AppendRow(table.Row{p.Label, counts[p.Label]})
	}
	c.AppendFooter(table.Row{"Total", periods.Total()})
	c.SetStyle(table.StyleRounded)
	c.Render()
}
