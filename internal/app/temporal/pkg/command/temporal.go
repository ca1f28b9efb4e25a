package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"callguard/internal/app/temporal/workflows"
)

// StartTraining submits a TrainModelWorkflow run on queue.
func StartTraining(ctx context.Context, c client.Client, queue string, req workflows.TrainModelRequest) (client.WorkflowRun, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       "train-model-" + uuid.NewString(),
		TaskQueue:                queue,
		WorkflowExecutionTimeout: 2 * time.Hour,
	}, workflows.TrainModelWorkflow, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start training workflow: %w", err)
	}
	return run, nil
}

// WaitForTraining blocks until run finishes, calling progressFunc every
// interval while waiting.
func WaitForTraining(ctx context.Context, run client.WorkflowRun, interval time.Duration, progressFunc func(elapsed time.Duration)) (workflows.TrainModelResult, error) {
	var result workflows.TrainModelResult
	done := make(chan error, 1)
	go func() { done <- run.Get(ctx, &result) }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case err := <-done:
			if err != nil {
				return result, fmt.Errorf("training workflow %s failed: %w", run.GetID(), err)
			}
			return result, nil
		case <-ticker.C:
			if progressFunc != nil {
				progressFunc(time.Since(start))
			}
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}
}
