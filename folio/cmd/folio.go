// Command-line interface for the folio portfolio backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"folio/folio/config"
	"folio/folio/sources/psql"
	"folio/folio/utils/color"
	"folio/folio/utils/logging"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Chat with the portfolio assistant and manage the folio backend",
	Long: `folio talks to a running folio server from the terminal and runs admin tasks
against its database and asset bucket.`,
	Example: `
	# Chat with the assistant on a local server
	folio chat --server http://localhost:8000

	# Create or reset an admin for the analytics reports
	folio admin create-user admin

	# Print analytics totals
	folio stats

	# Upload the résumé to the asset bucket
	folio upload-asset ./resume.pdf --name resume.pdf
  `,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.Disable()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.AddCommand(chatCmd, adminCmd, statsCmd, uploadAssetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}

// openDatabase loads config and connects, for commands that need the database.
func openDatabase(ctx context.Context) (*psql.Database, config.Config, error) {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	if !cfg.DatabaseConfigured() {
		return nil, cfg, fmt.Errorf("no database configured: set DATABASE_URL or DB_HOST and DB_NAME")
	}
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}
	return db, cfg, nil
}
