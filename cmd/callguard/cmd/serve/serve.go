package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app"
)

var port string
var allowMissingModel bool

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides server.port")
	Cmd.Flags().BoolVar(&allowMissingModel, "allow-missing-model", false,
		"start degraded when the model store is empty, overrides server.allow_missing_model")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fraud detection HTTP API",
	Long: `Start the fraud detection HTTP API

- POST /api/v1/analyze takes base64 audio, transcribes it and classifies the text
- Refuses to start when the stored model is missing, corrupt or mismatched
- With --allow-missing-model an empty store is tolerated; POST /api/v1/model/reload loads the model later
- Stops gracefully on SIGINT or SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		if port != "" {
			cfg.Server.Port = port
		}
		if cmd.Flags().Changed("allow-missing-model") {
			cfg.Server.AllowMissingModel = allowMissingModel
		}
		logger, err := cmdutil.Logger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := app.InitializeApplication(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := application.Server.Start(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
		case err := <-application.Server.Errors():
			logger.Error("server stopped unexpectedly", zap.Error(err))
			return err
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	},
}
