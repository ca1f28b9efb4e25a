package train

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app/classifier"
	"callguard/internal/app/storage"
	"callguard/internal/app/temporal/pkg/command"
	"callguard/internal/app/temporal/pkg/common"
	"callguard/internal/app/temporal/workflows"
	"callguard/internal/app/trainer"
	"callguard/internal/config"
)

var (
	corpusPath   string
	maxIter      int
	tolerance    float64
	regularizeC  float64
	showProgress bool
	remote       bool
	minAccuracy  float64
	reloadURL    string
)

func init() {
	defaults := classifier.DefaultTrainOptions()

	Cmd.Flags().StringVarP(&corpusPath, "corpus", "i", "data/transcripts.csv", "CSV corpus with Text and Label columns")
	Cmd.Flags().IntVar(&maxIter, "max-iter", defaults.MaxIter, "maximum optimizer iterations")
	Cmd.Flags().Float64Var(&tolerance, "tolerance", defaults.Tolerance, "gradient tolerance for convergence")
	Cmd.Flags().Float64Var(&regularizeC, "c", defaults.C, "inverse L2 regularization strength")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "force the progress bar even without a terminal")
	Cmd.Flags().BoolVar(&remote, "remote", false, "run training as a Temporal workflow on a callguard worker")
	Cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 0, "remote only: refuse to publish below this training accuracy")
	Cmd.Flags().StringVar(&reloadURL, "reload-url", "", "remote only: POST here after publishing, e.g. http://localhost:5000/api/v1/model/reload")
}

// Cmd represents the train command
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train the fraud model on the CSV corpus",
	Long: `Train the fraud model on the CSV corpus

- Fits the TF-IDF vectorizer and the logistic regression classifier
- Saves both parts to the configured model store
- With --remote, submits the run to the Temporal training worker instead`,
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

		if remote {
			return runRemote(cmd, cfg.Temporal, logger)
		}

		store, err := storage.New(cfg.Model)
		if err != nil {
			return err
		}

		opts := trainer.Options{
			Classifier: classifier.TrainOptions{
				C:         regularizeC,
				MaxIter:   maxIter,
				Tolerance: tolerance,
				Threshold: cfg.Model.Threshold,
			},
			Logger: logger,
		}

		pm := trainer.NewProgressManager(trainer.ProgressConfig{
			Enabled: trainer.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		opts.Progress = pm.CreateBar(maxIter, "training")

		report, err := trainer.TrainFile(cmd.Context(), corpusPath, store, opts)
		pm.Wait()
		if err != nil {
			return err
		}
		return printReport(cmd, report)
	},
}

func runRemote(cmd *cobra.Command, cfg config.TemporalConfig, logger *zap.Logger) error {
	c, err := common.NewTemporalClient(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	run, err := command.StartTraining(cmd.Context(), c, cfg.TaskQueue, workflows.TrainModelRequest{
		CorpusPath:  corpusPath,
		MaxIter:     maxIter,
		Tolerance:   tolerance,
		C:           regularizeC,
		MinAccuracy: minAccuracy,
		ReloadURL:   reloadURL,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "workflow %s started (run %s)\n", run.GetID(), run.GetRunID())

	result, err := command.WaitForTraining(cmd.Context(), run, 5*time.Second, func(elapsed time.Duration) {
		fmt.Fprintf(cmd.ErrOrStderr(), "still training after %s\n", elapsed.Round(time.Second))
	})
	if err != nil {
		return err
	}
	if result.ReloadError != "" {
		logger.Warn("model published but the server did not reload", zap.String("error", result.ReloadError))
	}
	return printReport(cmd, &result.Report)
}

func printReport(cmd *cobra.Command, report *trainer.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
