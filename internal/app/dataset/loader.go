package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"callguard/internal/app/model"
)

// Column names of the transcript CSV.
const (
	ColumnTranscript   = "transcript"
	ColumnIsFraudulent = "is_fraudulent"
)

// ErrInvalidLabel is returned when a row's label is not 0 or 1.
var ErrInvalidLabel = errors.New("is_fraudulent must be 0 or 1")

// LoadCSV reads labeled transcripts from the CSV file at path.
func LoadCSV(path string) ([]model.TranscriptRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses transcript,is_fraudulent rows. The header row is optional:
// files produced by appending rows to an empty file have none, so the first
// row is treated as a header only when its label column is not an integer.
// When a header is present the columns may appear in any order.
func ReadCSV(r io.Reader) ([]model.TranscriptRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	textCol, labelCol := 0, 1
	var records []model.TranscriptRecord
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row %d: %w", row, err)
		}

		if row == 1 && isHeader(fields) {
			textCol, labelCol, err = headerColumns(fields)
			if err != nil {
				return nil, err
			}
			continue
		}

		if len(fields) <= textCol || len(fields) <= labelCol {
			return nil, fmt.Errorf("corpus row %d: expected at least %d columns, got %d",
				row, max(textCol, labelCol)+1, len(fields))
		}
		label, err := ParseLabel(fields[labelCol])
		if err != nil {
			return nil, fmt.Errorf("corpus row %d: %w", row, err)
		}
		records = append(records, model.TranscriptRecord{Text: fields[textCol], Label: label})
	}
	return records, nil
}

// ParseLabel accepts 0/1 as well as the boolean spellings true/false.
func ParseLabel(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "1", "true":
		return 1, nil
	case "0", "false":
		return 0, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidLabel, s)
}

func isHeader(fields []string) bool {
	if len(fields) < 2 {
		return true
	}
	_, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	return err != nil && !strings.EqualFold(strings.TrimSpace(fields[1]), "true") &&
		!strings.EqualFold(strings.TrimSpace(fields[1]), "false")
}

func headerColumns(fields []string) (int, int, error) {
	textCol, labelCol := -1, -1
	for i, f := range fields {
		switch strings.TrimSpace(strings.ToLower(f)) {
		case ColumnTranscript:
			textCol = i
		case ColumnIsFraudulent:
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return 0, 0, fmt.Errorf("corpus header must contain %q and %q columns, got %v",
			ColumnTranscript, ColumnIsFraudulent, fields)
	}
	return textCol, labelCol, nil
}
