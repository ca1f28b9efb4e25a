package worker

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app/storage"
	"callguard/internal/app/temporal/activities"
	"callguard/internal/app/temporal/pkg/common"
	"callguard/internal/app/temporal/worker"
)

var healthAddr string
var workerID string

func init() {
	Cmd.Flags().StringVar(&healthAddr, "health-addr", ":8081", "address for /health, /live and /ready; empty disables them")
	Cmd.Flags().StringVar(&workerID, "id", "", "worker id reported by /health, defaults to hostname")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal worker that trains and publishes models",
	Long: `Run the Temporal worker that trains and publishes models

- Polls the configured task queue for TrainModelWorkflow runs
- Publishes artifacts to the configured model store
- Use "callguard train --remote" to submit a run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		logger, err := cmdutil.Logger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := storage.New(cfg.Model)
		if err != nil {
			return err
		}

		c, err := common.NewTemporalClient(cfg.Temporal, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		id := workerID
		if id == "" {
			host, _ := os.Hostname()
			id = fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := worker.New(c, cfg.Temporal.TaskQueue, activities.NewTrainingActivities(store, logger), store.Location(), logger)
		if healthAddr != "" {
			w.ServeHealth(ctx, healthAddr, id)
		}
		return w.Run(ctx)
	},
}
