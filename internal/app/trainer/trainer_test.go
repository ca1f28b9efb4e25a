package trainer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/app/classifier"
	"callguard/internal/app/model"
	"callguard/internal/app/storage"
	"callguard/internal/app/utils"
)

var corpus = []model.TranscriptRecord{
	{Text: "confirm your otp now", Label: 1},
	{Text: "doctor appointment reminder", Label: 0},
	{Text: "verify your bank password", Label: 1},
	{Text: "schedule a meeting", Label: 0},
}

func TestTrain(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	artifact, report, err := Train(context.Background(), corpus, Options{
		Classifier: classifier.TrainOptions{
			OnIteration: func(int, float64) { ticks++ },
		},
		Now: func() time.Time { return stamp },
	})
	require.NoError(t, err)

	assert.Equal(t, stamp, artifact.TrainedAt)
	assert.Equal(t, 4, report.Documents)
	assert.Equal(t, 2, report.Fraudulent)
	assert.Equal(t, 12, report.VocabularySize)
	assert.Equal(t, 1.0, report.Accuracy)
	assert.Equal(t, ticks, report.Iterations)
	assert.Positive(t, report.Iterations)

	label, _, err := artifact.Score("please confirm your otp")
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, _, err = artifact.Score("reminder for your appointment")
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestTrain_Errors(t *testing.T) {
	_, _, err := Train(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, classifier.ErrEmptyCorpus)

	_, _, err = Train(context.Background(), []model.TranscriptRecord{{Text: "a !", Label: 1}}, Options{})
	assert.ErrorIs(t, err, classifier.ErrEmptyVocabulary)

	_, _, err = Train(context.Background(), []model.TranscriptRecord{{Text: "hello there", Label: 3}}, Options{})
	assert.ErrorIs(t, err, classifier.ErrInvalidLabel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Train(ctx, corpus, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTrain_WithProgress(t *testing.T) {
	var out bytes.Buffer
	pm := NewProgressManager(ProgressConfig{Enabled: true, Writer: &out})
	bar := pm.CreateBar(classifier.DefaultTrainOptions().MaxIter, "training")

	_, report, err := Train(context.Background(), corpus, Options{Progress: bar})
	require.NoError(t, err)
	pm.Wait()
	assert.Positive(t, report.Iterations)
}

func TestProgress_Disabled(t *testing.T) {
	pm := NewProgressManager(ProgressConfig{Enabled: false})
	bar := pm.CreateBar(10, "noop")
	bar.Increment()
	bar.Complete()
	pm.Wait()

	var nilBar *ProgressBar
	nilBar.Increment()
	nilBar.Complete()

	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.True(t, ShouldShowProgress(true))
}

func TestTrainFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	content := "transcript,is_fraudulent\n" +
		"confirm your otp now,1\n" +
		"doctor appointment reminder,0\n" +
		"verify your bank password,1\n" +
		"schedule a meeting,0\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	store := storage.NewFileStore(filepath.Join(dir, "model"))
	report, err := TrainFile(context.Background(), csvPath, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, store.Location(), report.Location)
	assert.Equal(t, utils.HashBytes([]byte(content)), report.CorpusSHA256)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Vocabulary.Size())

	_, err = TrainFile(context.Background(), filepath.Join(dir, "missing.csv"), store, Options{})
	assert.Error(t, err)
}

func TestAccuracy(t *testing.T) {
	artifact, _, err := Train(context.Background(), corpus, Options{})
	require.NoError(t, err)

	acc, err := Accuracy(artifact, []model.TranscriptRecord{
		{Text: "confirm your otp now", Label: 0},
		{Text: "schedule a meeting", Label: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, acc)

	acc, err = Accuracy(artifact, nil)
	require.NoError(t, err)
	assert.Zero(t, acc)
}
