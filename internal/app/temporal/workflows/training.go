package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"callguard/internal/app/temporal/activities"
	"callguard/internal/app/trainer"
)

// Activity names as registered by the worker.
const (
	LoadCorpusActivity      = "LoadCorpus"
	TrainAndPublishActivity = "TrainAndPublish"
	ReloadServingActivity   = "ReloadServing"
)

// TrainModelRequest configures a retraining run.
type TrainModelRequest struct {
	CorpusPath  string  `json:"corpus_path"`
	MaxIter     int     `json:"max_iter,omitempty"`
	Tolerance   float64 `json:"tolerance,omitempty"`
	C           float64 `json:"c,omitempty"`
	MinAccuracy float64 `json:"min_accuracy,omitempty"`
	// ReloadURL, when set, is the API server's model reload endpoint.
	ReloadURL string `json:"reload_url,omitempty"`
}

// TrainModelResult summarizes a finished run.
type TrainModelResult struct {
	Corpus         activities.CorpusSummary `json:"corpus"`
	Report         trainer.Report           `json:"report"`
	Reloaded       bool                     `json:"reloaded"`
	ProcessingTime time.Duration            `json:"processing_time"`
	ReloadError    string                   `json:"reload_error,omitempty"`
}

// TrainModelWorkflow validates the corpus, trains and publishes a new model,
// then optionally tells the API server to reload it.
func TrainModelWorkflow(ctx workflow.Context, req TrainModelRequest) (TrainModelResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting model training workflow", "corpus", req.CorpusPath)

	startTime := workflow.Now(ctx)
	result := TrainModelResult{}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    100 * time.Second,
			MaximumAttempts:    3,
		},
	})

	err := workflow.ExecuteActivity(ctx, LoadCorpusActivity, activities.LoadCorpusRequest{
		CorpusPath: req.CorpusPath,
	}).Get(ctx, &result.Corpus)
	if err != nil {
		logger.Error("Corpus validation failed", "error", err)
		return result, err
	}

	err = workflow.ExecuteActivity(ctx, TrainAndPublishActivity, activities.TrainRequest{
		CorpusPath:  req.CorpusPath,
		MaxIter:     req.MaxIter,
		Tolerance:   req.Tolerance,
		C:           req.C,
		MinAccuracy: req.MinAccuracy,
	}).Get(ctx, &result.Report)
	if err != nil {
		logger.Error("Training failed", "error", err)
		return result, err
	}

	if req.ReloadURL != "" {
		reloadCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: time.Minute,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval: 2 * time.Second,
				MaximumAttempts: 5,
			},
		})
		// The model is already published; a server that missed the reload
		// picks it up on restart.
		if err := workflow.ExecuteActivity(reloadCtx, ReloadServingActivity, activities.ReloadRequest{
			URL: req.ReloadURL,
		}).Get(reloadCtx, nil); err != nil {
			logger.Warn("Serving reload failed", "error", err)
			result.ReloadError = err.Error()
		} else {
			result.Reloaded = true
		}
	}

	result.ProcessingTime = workflow.Now(ctx).Sub(startTime)
	logger.Info("Model training workflow completed",
		"documents", result.Report.Documents,
		"accuracy", result.Report.Accuracy,
		"reloaded", result.Reloaded)
	return result, nil
}
