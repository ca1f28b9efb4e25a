package predict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app/detector"
	"callguard/internal/app/storage"
)

// Cmd represents the predict command
var Cmd = &cobra.Command{
	Use:   "predict [transcript...]",
	Short: "Classify a transcript with the trained model",
	Long: `Classify a transcript with the trained model

- Loads the vectorizer and classifier from the configured model store
- Joins the arguments into one transcript and prints label and confidence`,
	Args: cobra.MinimumNArgs(1),
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
		d := detector.New(detector.WithThreshold(cfg.Model.Threshold), detector.WithLogger(logger))
		if err := d.Init(cmd.Context(), store); err != nil {
			return err
		}
		defer d.Close()

		result, err := d.Infer(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(map[string]interface{}{
			"is_fraudulent": result.IsFraudulent(),
			"label":         result.Label,
			"confidence":    result.Confidence,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
