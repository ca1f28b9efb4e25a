// Package detector serves fraud predictions from a process-wide model
// artifact that is loaded once and can be swapped at runtime.
package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"callguard/internal/app/classifier"
	"callguard/internal/app/storage"
)

var (
	// ErrModelUnavailable is returned by Infer before Init succeeds or after Close.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrAlreadyInitialized is returned by every Init after the first.
	ErrAlreadyInitialized = errors.New("detector already initialized")
)

// Result is one prediction.
type Result struct {
	Label      int     `json:"label"`
	Confidence float64 `json:"confidence"`
}

// IsFraudulent reports whether the predicted label is the fraud class.
func (r Result) IsFraudulent() bool { return r.Label == 1 }

// Info describes the artifact currently being served.
type Info struct {
	Location       string    `json:"location"`
	VocabularySize int       `json:"vocabulary_size"`
	Documents      int       `json:"documents"`
	Threshold      float64   `json:"threshold"`
	TrainedAt      time.Time `json:"trained_at"`
	LoadedAt       time.Time `json:"loaded_at"`
}

type loaded struct {
	artifact *classifier.Artifact
	location string
	loadedAt time.Time
}

// Detector is safe for concurrent use. Predictions read the active artifact
// through an atomic pointer and never block on Reload.
type Detector struct {
	active atomic.Pointer[loaded]

	initOnce sync.Once
	reloadMu sync.Mutex
	store    storage.ArtifactStore

	threshold float64
	logger    *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold overrides the decision threshold stored in the artifact.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) { d.threshold = threshold }
}

// WithLogger sets the logger used for load events.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// New returns a Detector with no model loaded.
func New(opts ...Option) *Detector {
	d := &Detector{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init loads the artifact from store. It runs at most once; later calls
// return ErrAlreadyInitialized, even if the first one failed.
func (d *Detector) Init(ctx context.Context, store storage.ArtifactStore) error {
	err := ErrAlreadyInitialized
	d.initOnce.Do(func() {
		d.reloadMu.Lock()
		defer d.reloadMu.Unlock()
		d.store = store
		err = d.load(ctx)
	})
	return err
}

// Reload fetches the artifact again and swaps it in. On failure the
// previously active artifact keeps serving.
func (d *Detector) Reload(ctx context.Context) error {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	if d.store == nil {
		return ErrModelUnavailable
	}
	return d.load(ctx)
}

func (d *Detector) load(ctx context.Context) error {
	if d.store == nil {
		return fmt.Errorf("%w: no artifact store", ErrModelUnavailable)
	}
	artifact, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Error("failed to load model artifact",
			zap.String("location", d.store.Location()), zap.Error(err))
		return fmt.Errorf("load model from %s: %w", d.store.Location(), err)
	}
	if d.threshold > 0 {
		artifact.Params.Threshold = d.threshold
	}
	d.active.Store(&loaded{artifact: artifact, location: d.store.Location(), loadedAt: time.Now().UTC()})
	d.logger.Info("model artifact loaded",
		zap.String("location", d.store.Location()),
		zap.Int("vocabulary_size", artifact.Vocabulary.Size()),
		zap.Time("trained_at", artifact.TrainedAt))
	return nil
}

// Infer classifies one transcript.
func (d *Detector) Infer(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	cur := d.active.Load()
	if cur == nil {
		return Result{}, ErrModelUnavailable
	}
	label, proba, err := cur.artifact.Score(text)
	if err != nil {
		return Result{}, err
	}
	return Result{Label: label, Confidence: proba}, nil
}

// Ready reports whether a model is being served.
func (d *Detector) Ready() bool {
	return d.active.Load() != nil
}

// Info describes the active artifact.
func (d *Detector) Info() (Info, error) {
	cur := d.active.Load()
	if cur == nil {
		return Info{}, ErrModelUnavailable
	}
	return Info{
		Location:       cur.location,
		VocabularySize: cur.artifact.Vocabulary.Size(),
		Documents:      cur.artifact.Vocabulary.Documents(),
		Threshold:      cur.artifact.Params.Threshold,
		TrainedAt:      cur.artifact.TrainedAt,
		LoadedAt:       cur.loadedAt,
	}, nil
}

// Close releases the active artifact. Infer returns ErrModelUnavailable
// afterwards until a successful Reload.
func (d *Detector) Close() error {
	d.active.Store(nil)
	return nil
}
