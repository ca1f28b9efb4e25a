package activities

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/lo"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"callguard/internal/app/classifier"
	"callguard/internal/app/dataset"
	"callguard/internal/app/model"
	"callguard/internal/app/storage"
	"callguard/internal/app/trainer"
)

// Non-retryable failure types.
const (
	ErrTypeInvalidCorpus = "InvalidCorpus"
	ErrTypeLowAccuracy   = "LowAccuracy"
)

// LoadCorpusRequest names the corpus to check.
type LoadCorpusRequest struct {
	CorpusPath string `json:"corpus_path"`
}

// CorpusSummary describes a validated corpus.
type CorpusSummary struct {
	CorpusPath string `json:"corpus_path"`
	Documents  int    `json:"documents"`
	Fraudulent int    `json:"fraudulent"`
}

// TrainRequest configures one training run.
type TrainRequest struct {
	CorpusPath string  `json:"corpus_path"`
	MaxIter    int     `json:"max_iter,omitempty"`
	Tolerance  float64 `json:"tolerance,omitempty"`
	C          float64 `json:"c,omitempty"`
	// MinAccuracy rejects the run without publishing when training accuracy is lower.
	MinAccuracy float64 `json:"min_accuracy,omitempty"`
}

// ReloadRequest asks a running API server to pick up the new artifact.
type ReloadRequest struct {
	URL string `json:"url"`
}

// TrainingActivities trains the classifier and publishes it to an artifact store.
type TrainingActivities struct {
	store      storage.ArtifactStore
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTrainingActivities creates a new instance of training activities
func NewTrainingActivities(store storage.ArtifactStore, logger *zap.Logger) *TrainingActivities {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingActivities{
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// LoadCorpus parses the corpus and fails permanently on malformed input.
func (a *TrainingActivities) LoadCorpus(ctx context.Context, req LoadCorpusRequest) (CorpusSummary, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Loading corpus", "path", req.CorpusPath)

	records, err := dataset.LoadCSV(req.CorpusPath)
	if err != nil {
		return CorpusSummary{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("load corpus %s", req.CorpusPath), ErrTypeInvalidCorpus, err)
	}
	if len(records) == 0 {
		return CorpusSummary{}, temporal.NewNonRetryableApplicationError(
			"corpus is empty", ErrTypeInvalidCorpus, classifier.ErrEmptyCorpus)
	}

	return CorpusSummary{
		CorpusPath: req.CorpusPath,
		Documents:  len(records),
		Fraudulent: lo.CountBy(records, func(r model.TranscriptRecord) bool { return r.Label == 1 }),
	}, nil
}

// TrainAndPublish trains on the corpus and saves the artifact to the store.
func (a *TrainingActivities) TrainAndPublish(ctx context.Context, req TrainRequest) (trainer.Report, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting training", "path", req.CorpusPath)

	records, err := dataset.LoadCSV(req.CorpusPath)
	if err != nil {
		return trainer.Report{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("load corpus %s", req.CorpusPath), ErrTypeInvalidCorpus, err)
	}

	opts := classifier.DefaultTrainOptions()
	if req.MaxIter > 0 {
		opts.MaxIter = req.MaxIter
	}
	if req.Tolerance > 0 {
		opts.Tolerance = req.Tolerance
	}
	if req.C > 0 {
		opts.C = req.C
	}
	opts.OnIteration = func(iter int, gradNorm float64) {
		if iter%100 == 0 {
			activity.RecordHeartbeat(ctx, iter)
		}
	}

	artifact, report, err := trainer.Train(ctx, records, trainer.Options{Classifier: opts, Logger: a.logger})
	if err != nil {
		return trainer.Report{}, trainFailure(err)
	}
	if req.MinAccuracy > 0 && report.Accuracy < req.MinAccuracy {
		return *report, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("training accuracy %.4f below %.4f", report.Accuracy, req.MinAccuracy),
			ErrTypeLowAccuracy, nil)
	}

	if err := a.store.Save(ctx, artifact); err != nil {
		// Storage errors are retried by the workflow's retry policy.
		return trainer.Report{}, fmt.Errorf("save artifact to %s: %w", a.store.Location(), err)
	}
	report.Location = a.store.Location()

	logger.Info("Model published",
		"location", report.Location,
		"documents", report.Documents,
		"vocabulary", report.VocabularySize,
		"accuracy", report.Accuracy)
	return *report, nil
}

// ReloadServing posts to the server's model reload endpoint.
func (a *TrainingActivities) ReloadServing(ctx context.Context, req ReloadRequest) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, http.NoBody)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("invalid reload URL", "InvalidURL", err)
	}
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("reload %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reload %s: status %d", req.URL, resp.StatusCode)
	}
	return nil
}

// trainFailure classifies a trainer error. Cancellation and deadline errors
// pass through so the workflow's retry policy and cancellation apply; anything
// else means the corpus cannot be trained on.
func trainFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return temporal.NewNonRetryableApplicationError("training failed", ErrTypeInvalidCorpus, err)
}
