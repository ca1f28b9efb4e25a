package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"callguard/internal/app/classifier"
	"callguard/internal/app/dataset"
	"callguard/internal/app/model"
	"callguard/internal/app/storage"
	"callguard/internal/app/utils"
)

// Options control a training run.
type Options struct {
	Classifier classifier.TrainOptions
	// Progress receives one tick per optimizer iteration. Nil disables it.
	Progress *ProgressBar
	Logger   *zap.Logger
	// Now stamps the artifact. Defaults to time.Now.
	Now func() time.Time
}

// Report summarizes a finished training run.
type Report struct {
	Documents      int           `json:"documents"`
	Fraudulent     int           `json:"fraudulent"`
	VocabularySize int           `json:"vocabulary_size"`
	Iterations     int           `json:"iterations"`
	Accuracy       float64       `json:"training_accuracy"`
	Duration       time.Duration `json:"duration"`
	Location       string        `json:"location,omitempty"`
	// CorpusSHA256 identifies the corpus file for TrainFile runs.
	CorpusSHA256   string        `json:"corpus_sha256,omitempty"`
}

// Train fits a vectorizer and a classifier on records and returns the
// resulting artifact.
func Train(ctx context.Context, records []model.TranscriptRecord, opts Options) (*classifier.Artifact, *Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if len(records) == 0 {
		return nil, nil, classifier.ErrEmptyCorpus
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	texts := lo.Map(records, func(r model.TranscriptRecord, _ int) string { return r.Text })
	labels := lo.Map(records, func(r model.TranscriptRecord, _ int) int { return r.Label })

	vocab, features, err := classifier.FitTransform(texts)
	if err != nil {
		return nil, nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	logger.Debug("vectorizer fitted",
		zap.Int("documents", vocab.Documents()),
		zap.Int("vocabulary_size", vocab.Size()))

	clfOpts := opts.Classifier
	iterations := 0
	userHook := clfOpts.OnIteration
	clfOpts.OnIteration = func(iter int, gradNorm float64) {
		iterations = iter
		opts.Progress.Increment()
		if userHook != nil {
			userHook(iter, gradNorm)
		}
	}

	params, err := classifier.FitLogistic(features, labels, vocab.Size(), clfOpts)
	opts.Progress.Complete()
	if err != nil {
		return nil, nil, fmt.Errorf("fit classifier: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	artifact, err := classifier.NewArtifact(vocab, params, now())
	if err != nil {
		return nil, nil, err
	}

	accuracy, err := Accuracy(artifact, records)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{
		Documents:      len(records),
		Fraudulent:     lo.CountBy(records, func(r model.TranscriptRecord) bool { return r.Label == 1 }),
		VocabularySize: vocab.Size(),
		Iterations:     iterations,
		Accuracy:       accuracy,
		Duration:       time.Since(start),
	}
	logger.Info("model trained",
		zap.Int("documents", report.Documents),
		zap.Int("fraudulent", report.Fraudulent),
		zap.Int("vocabulary_size", report.VocabularySize),
		zap.Int("iterations", report.Iterations),
		zap.Float64("training_accuracy", report.Accuracy),
		zap.Duration("duration", report.Duration))

	return artifact, report, nil
}

// Accuracy is the share of records whose label the artifact predicts.
func Accuracy(artifact *classifier.Artifact, records []model.TranscriptRecord) (float64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	correct := 0
	for _, r := range records {
		label, _, err := artifact.Score(r.Text)
		if err != nil {
			return 0, err
		}
		if label == r.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(records)), nil
}

// TrainFile loads the CSV corpus at corpusPath, trains on it and saves the
// artifact to store.
func TrainFile(ctx context.Context, corpusPath string, store storage.ArtifactStore, opts Options) (*Report, error) {
	records, err := dataset.LoadCSV(corpusPath)
	if err != nil {
		return nil, err
	}
	artifact, report, err := Train(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("save artifact to %s: %w", store.Location(), err)
	}
	report.Location = store.Location()
	if sum, err := utils.CalculateFileHash(corpusPath); err == nil {
		report.CorpusSHA256 = sum
	}
	return report, nil
}
