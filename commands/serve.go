package commands

import (
	"divcalendar/server"

	"github.com/spf13/cobra"
)

var servePort *string

func init() {
	servePort = serveCmd.Flags().String("port", "", "The port to listen on. Defaults to $PORT.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Serves calendar months as JSON over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		port := *servePort
		if port == "" {
			port = a.cfg.Server.Port
		}

		b, err := a.startBrowser()
		if err != nil {
			return err
		}
		defer b.Close()

		srv := server.New(a.newCrawler(b, false), a.log.Named("server"))
		return srv.ListenAndServe(cmd.Context(), ":"+port)
	},
}
