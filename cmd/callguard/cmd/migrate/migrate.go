package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app"
	"callguard/internal/app/repository/migrate"
	"callguard/internal/config"
)

var (
	from      config.DatabaseConfig
	to        config.DatabaseConfig
	batchSize int
)

func init() {
	Cmd.Flags().StringVar(&from.Driver, "from-driver", config.DriverSQLite, "source driver: sqlite3 or postgres")
	Cmd.Flags().StringVar(&from.DSN, "from", config.DefaultSQLitePath, "source DSN")
	Cmd.Flags().StringVar(&to.Driver, "to-driver", config.DriverPostgres, "destination driver: sqlite3 or postgres")
	Cmd.Flags().StringVar(&to.DSN, "to", "", "destination DSN")
	Cmd.Flags().IntVar(&batchSize, "batch-size", migrate.DefaultBatchSize, "records per page")

	Cmd.MarkFlagRequired("to")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy analysis feedback between stores",
	Long: `Copy analysis feedback between stores

- Typically from the local SQLite file to PostgreSQL
- Records already in the destination are skipped, so the command can be rerun`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cmdutil.Logger(nil)
		if err != nil {
			return err
		}
		defer logger.Sync()

		src, err := app.OpenFeedbackDAO(cmd.Context(), from)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer src.Close()

		dst, err := app.OpenFeedbackDAO(cmd.Context(), to)
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}
		defer dst.Close()

		stats, err := migrate.Feedback(cmd.Context(), src, dst, batchSize, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d, skipped %d, invalid %d\n", stats.Copied, stats.Skipped, stats.Invalid)
		return nil
	},
}
