package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"callguard/cmd/callguard/cmd/cmdutil"
	"callguard/internal/app"
	"callguard/internal/app/export"
)

var (
	outputFilePath string
	format         string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().StringVarP(&format, "format", "f", "excel", "excel, or corpus to append labeled rows to a training CSV")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 100000, "maximum number of records, newest first")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored analysis feedback",
	Long: `Export stored analysis feedback

- excel writes one row per analyzed call with transcript, label, confidence and user feedback
- corpus appends reviewed records (those with user feedback) to a training CSV, labeled as predicted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		dao, err := app.OpenFeedbackDAO(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer dao.Close()

		records, err := dao.List(cmd.Context(), limit, 0)
		if err != nil {
			return err
		}

		switch format {
		case "excel":
			if err := export.ToExcel(records, outputFilePath); err != nil {
				return err
			}
		case "corpus":
			n, err := export.ToCorpus(records, outputFilePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "appended %d records\n", n)
		default:
			return fmt.Errorf("unknown export format %q", format)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
