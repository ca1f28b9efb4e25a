// Package worker runs the Temporal worker that executes scheduled retraining.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"callguard/internal/app/temporal/activities"
	"callguard/internal/app/temporal/workflows"
)

// HealthStatus represents the worker health status
type HealthStatus struct {
	WorkerID  string        `json:"worker_id"`
	TaskQueue string        `json:"task_queue"`
	Status    string        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	StartedAt time.Time     `json:"started_at"`
	Store     string        `json:"store"`
}

// Worker polls one task queue for training workflows.
type Worker struct {
	w         worker.Worker
	queue     string
	store     string
	startedAt time.Time
	running   atomic.Bool
	logger    *zap.Logger
}

// New registers the training workflow and activities on queue.
func New(c client.Client, queue string, acts *activities.TrainingActivities, store string, logger *zap.Logger) *Worker {
	w := worker.New(c, queue, worker.Options{MaxConcurrentActivityExecutionSize: 2})
	Register(w, acts)
	return &Worker{w: w, queue: queue, store: store, logger: logger}
}

// Registry is satisfied by worker.Worker and the test workflow environment.
type Registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

// Register adds TrainModelWorkflow and its activities to r under the names
// the workflow calls.
func Register(r Registry, acts *activities.TrainingActivities) {
	r.RegisterWorkflowWithOptions(workflows.TrainModelWorkflow, workflow.RegisterOptions{Name: "TrainModelWorkflow"})
	r.RegisterActivityWithOptions(acts.LoadCorpus, activity.RegisterOptions{Name: workflows.LoadCorpusActivity})
	r.RegisterActivityWithOptions(acts.TrainAndPublish, activity.RegisterOptions{Name: workflows.TrainAndPublishActivity})
	r.RegisterActivityWithOptions(acts.ReloadServing, activity.RegisterOptions{Name: workflows.ReloadServingActivity})
}

// Run polls until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.w.Start(); err != nil {
		return err
	}
	w.startedAt = time.Now()
	w.running.Store(true)
	w.logger.Info("Temporal worker started", zap.String("task_queue", w.queue))

	<-ctx.Done()
	w.running.Store(false)
	w.w.Stop()
	w.logger.Info("Temporal worker stopped")
	return nil
}

// HealthHandler serves /health, /live and /ready.
func (w *Worker) HealthHandler(workerID string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			WorkerID:  workerID,
			TaskQueue: w.queue,
			Status:    "stopped",
			Store:     w.store,
			StartedAt: w.startedAt,
		}
		if w.running.Load() {
			status.Status = "running"
			status.Uptime = time.Since(w.startedAt)
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(status)
	})
	mux.HandleFunc("/live", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(rw http.ResponseWriter, r *http.Request) {
		if w.running.Load() {
			rw.WriteHeader(http.StatusOK)
			_, _ = rw.Write([]byte("READY"))
			return
		}
		rw.WriteHeader(http.StatusServiceUnavailable)
		_, _ = rw.Write([]byte("NOT READY"))
	})
	return mux
}

// ServeHealth runs the health endpoints on addr until ctx is done. Failures
// are logged and do not stop the worker.
func (w *Worker) ServeHealth(ctx context.Context, addr, workerID string) {
	srv := &http.Server{Addr: addr, Handler: w.HealthHandler(workerID), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.logger.Warn("Health server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
}
