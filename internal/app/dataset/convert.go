package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/samber/lo"

	"callguard/internal/app/model"
)

// jsonRecord mirrors one entry of the labeled dataset JSON file.
// is_fraudulent is accepted as 0/1 or as a boolean.
type jsonRecord struct {
	Transcript   string          `json:"transcript"`
	IsFraudulent json.RawMessage `json:"is_fraudulent"`
}

// ReadJSON decodes a JSON array of {transcript, is_fraudulent} objects.
func ReadJSON(path string) ([]model.TranscriptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	records := make([]model.TranscriptRecord, 0, len(raw))
	for i, r := range raw {
		if len(r.IsFraudulent) == 0 {
			return nil, fmt.Errorf("dataset entry %d: missing is_fraudulent", i)
		}
		label, err := ParseLabel(string(r.IsFraudulent))
		if err != nil {
			return nil, fmt.Errorf("dataset entry %d: %w", i, err)
		}
		records = append(records, model.TranscriptRecord{Text: r.Transcript, Label: label})
	}
	return records, nil
}

// AppendJSONToCSV appends every record of the JSON dataset at jsonPath to the
// CSV corpus at csvPath, creating it when needed. A header row is written
// only when the CSV starts out empty. It returns the number of rows appended.
func AppendJSONToCSV(jsonPath, csvPath string) (int, error) {
	records, err := ReadJSON(jsonPath)
	if err != nil {
		return 0, err
	}
	return AppendCSV(csvPath, records)
}

// AppendCSV appends records to the CSV corpus at path.
func AppendCSV(path string, records []model.TranscriptRecord) (int, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat corpus: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write([]string{ColumnTranscript, ColumnIsFraudulent}); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	rows := lo.Map(records, func(r model.TranscriptRecord, _ int) []string {
		return []string{r.Text, strconv.Itoa(r.Label)}
	})
	if err := w.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("write corpus rows: %w", err)
	}
	return len(rows), nil
}
