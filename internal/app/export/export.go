package export

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"

	"callguard/internal/app/dataset"
	"callguard/internal/app/model"
)

// Header is the first row of the feedback sheet.
var Header = []string{"ID", "Created At", "Updated At", "Fraudulent", "Confidence", "Transcript", "User Feedback"}

func buildFile(records []model.Feedback) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Feedback")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range Header {
		headerRow.AddCell().Value = h
	}

	for _, f := range records {
		row := sheet.AddRow()
		row.AddCell().Value = f.ID
		row.AddCell().Value = f.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = f.UpdatedAt.Format(time.RFC3339)
		row.AddCell().SetBool(f.IsFraudulent)
		row.AddCell().SetFloatWithFormat(f.Confidence, "0.0000")
		row.AddCell().Value = f.Transcript
		row.AddCell().Value = f.UserFeedback
	}
	return file, nil
}

// ToExcel writes the feedback records to an .xlsx file.
func ToExcel(records []model.Feedback, outputFilePath string) error {
	file, err := buildFile(records)
	if err != nil {
		return fmt.Errorf("build sheet: %w", err)
	}
	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

// WriteExcel streams the workbook to w.
func WriteExcel(records []model.Feedback, w io.Writer) error {
	file, err := buildFile(records)
	if err != nil {
		return fmt.Errorf("build sheet: %w", err)
	}
	return file.Write(w)
}

// ToCorpus appends the reviewed records to a training corpus CSV. Only
// records carrying user feedback are exported; the predicted label is kept
// as the training label.
func ToCorpus(records []model.Feedback, csvPath string) (int, error) {
	reviewed := lo.Filter(records, func(f model.Feedback, _ int) bool { return f.UserFeedback != "" })
	rows := lo.Map(reviewed, func(f model.Feedback, _ int) model.TranscriptRecord {
		return model.TranscriptRecord{Text: f.Transcript, Label: lo.Ternary(f.IsFraudulent, 1, 0)}
	})
	if len(rows) == 0 {
		return 0, nil
	}
	return dataset.AppendCSV(csvPath, rows)
}
