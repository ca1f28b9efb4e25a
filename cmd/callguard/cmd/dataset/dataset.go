package dataset

import (
	"fmt"

	"github.com/spf13/cobra"

	"callguard/internal/app/dataset"
)

var jsonPath string
var csvPath string

func init() {
	Cmd.Flags().StringVarP(&jsonPath, "input", "i", "", "JSON dataset with transcript and is_fraudulent fields")
	Cmd.Flags().StringVarP(&csvPath, "output", "o", "data/transcripts.csv", "CSV corpus to append to, created when missing")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the dataset command
var Cmd = &cobra.Command{
	Use:   "dataset",
	Short: "Append a JSON transcript dataset to the CSV training corpus",
	Long: `Append a JSON transcript dataset to the CSV training corpus

- Reads an array of {"transcript", "is_fraudulent"} objects
- Appends one transcript,is_fraudulent row per entry
- Writes the header only when the CSV is new or empty`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := dataset.AppendJSONToCSV(jsonPath, csvPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "appended %d records to %s\n", n, csvPath)
		return nil
	},
}
