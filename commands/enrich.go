package commands

import (
	"divcalendar/dividend"
	"divcalendar/enrich"
	"divcalendar/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enrichIn  *string
	enrichOut *string
)

func init() {
	enrichIn = enrichCmd.Flags().String("in", "dividendos.xlsx", "The workbook to read. Only its last sheet is used.")
	enrichOut = enrichCmd.Flags().String("out", "dividendos_ultimo_mes.csv", "The CSV file to write.")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [--in <path/to/workbook.xlsx>] [--out <path/to/output.csv>]",
	Short: "Backfills ISIN and ticker on the last sheet of a workbook by name search.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		periods, err := export.ReadWorkbook(*enrichIn)
		if err != nil {
			return err
		}
		last, err := export.LastSheet(periods)
		if err != nil {
			return err
		}
		a.log.Info("last sheet loaded", zap.String("sheet", last.Label), zap.Int("records", len(last.Records)))

		enricher := enrich.New(a.searchClient(), nil, a.log.Named("enrich"))
		last.Records = dividend.Dedup(enricher.Enrich(cmd.Context(), last.Records))

		_, err = export.WriteCSV(*enrichOut, dividend.Periods{last}, export.Options{WithSymbols: true}, a.log)
		return err
	},
}
