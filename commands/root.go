// Package commands holds the divcalendar command line
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile *string

var rootCmd = &cobra.Command{
	Use:           "divcalendar",
	Short:         "divcalendar scrapes a public dividend calendar into spreadsheets.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	envFile = rootCmd.PersistentFlags().String("env", ".env", "Optional dotenv file read before the environment.")
}

// ExecuteContext runs the command tree and exits with status 1 on error
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
