package testutil

import (
	"encoding/base64"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"callguard/internal/app/classifier"
	"callguard/internal/app/dataset"
	"callguard/internal/app/model"
)

// ScenarioRecords is a small labeled corpus whose trained model flags OTP and
// password requests.
var ScenarioRecords = []model.TranscriptRecord{
	{Text: "confirm your otp now", Label: 1},
	{Text: "doctor appointment reminder", Label: 0},
	{Text: "verify your bank password", Label: 1},
	{Text: "schedule a meeting", Label: 0},
}

// FraudTranscript and LegitTranscript classify as 1 and 0 with the scenario model.
const (
	FraudTranscript = "please confirm your otp"
	LegitTranscript = "reminder for your appointment"
)

// TrainedAt is the fixed training time stamped on fixture artifacts.
var TrainedAt = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

// ScenarioArtifact trains the scenario corpus with default options.
func ScenarioArtifact(t testing.TB) *classifier.Artifact {
	t.Helper()
	texts := make([]string, len(ScenarioRecords))
	labels := make([]int, len(ScenarioRecords))
	for i, r := range ScenarioRecords {
		texts[i], labels[i] = r.Text, r.Label
	}
	vocab, vecs, err := classifier.FitTransform(texts)
	require.NoError(t, err)
	params, err := classifier.FitLogistic(vecs, labels, vocab.Size(), classifier.DefaultTrainOptions())
	require.NoError(t, err)
	artifact, err := classifier.NewArtifact(vocab, params, TrainedAt)
	require.NoError(t, err)
	return artifact
}

// WriteCorpusCSV writes records to a fresh CSV under t.TempDir and returns its path.
func WriteCorpusCSV(t testing.TB, records []model.TranscriptRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	n, err := dataset.AppendCSV(path, records)
	require.NoError(t, err)
	require.Equal(t, len(records), n)
	return path
}

// SampleWAV is a minimal RIFF/WAVE header with no samples.
var SampleWAV = []byte{
	'R', 'I', 'F', 'F', 0x24, 0, 0, 0, 'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ', 0x10, 0, 0, 0, 1, 0, 1, 0, 0x40, 0x1f, 0, 0, 0x80, 0x3e, 0, 0, 2, 0, 0x10, 0,
	'd', 'a', 't', 'a', 0, 0, 0, 0,
}

// SampleWAVBase64 is SampleWAV in standard base64.
var SampleWAVBase64 = base64.StdEncoding.EncodeToString(SampleWAV)

// SampleFeedback returns n records created one minute apart, newest last.
func SampleFeedback(n int) []model.Feedback {
	out := make([]model.Feedback, n)
	for i := range out {
		ts := TrainedAt.Add(time.Duration(i) * time.Minute)
		out[i] = model.Feedback{
			ID:           sampleID(i),
			Transcript:   ScenarioRecords[i%len(ScenarioRecords)].Text,
			IsFraudulent: ScenarioRecords[i%len(ScenarioRecords)].Label == 1,
			Confidence:   0.5,
			CreatedAt:    ts,
			UpdatedAt:    ts,
		}
	}
	return out
}

func sampleID(i int) string {
	const prefix = "00000000-0000-4000-8000-"
	return prefix + padHex(i, 12)
}

func padHex(v, width int) string {
	const digits = "0123456789abcdef"
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
