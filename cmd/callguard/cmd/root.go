package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/cmd/callguard/cmd/dataset"
	"callguard/cmd/callguard/cmd/export"
	"callguard/cmd/callguard/cmd/migrate"
	"callguard/cmd/callguard/cmd/predict"
	"callguard/cmd/callguard/cmd/serve"
	"callguard/cmd/callguard/cmd/train"
	"callguard/cmd/callguard/cmd/version"
	"callguard/cmd/callguard/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "callguard",
	Short: "Detect fraudulent phone calls from their transcripts",
	Long: `Detect fraudulent phone calls from their transcripts.
- Build a labeled CSV corpus from JSON transcript files
- Train the TF-IDF + logistic regression model on it
- Serve an HTTP endpoint that transcribes call audio and classifies the text`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dataset.Cmd)
	rootCmd.AddCommand(train.Cmd)
	rootCmd.AddCommand(predict.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&cmdutil.ConfigPath, "config", "c", "", "config file (YAML); defaults and CALLGUARD_* variables apply without one")
}
