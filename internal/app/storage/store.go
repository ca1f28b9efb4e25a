package storage

import (
	"context"
	"errors"
	"fmt"

	"callguard/internal/app/classifier"
	"callguard/internal/config"
)

// Object names of the two persisted artifact blobs.
const (
	VectorizerObject = "vectorizer.json"
	ClassifierObject = "classifier.json"
)

// ErrNoArtifact is wrapped by Load when the store holds neither blob.
var ErrNoArtifact = errors.New("no model artifact stored")

// ArtifactStore persists and loads a model artifact as a pair of blobs.
// Load returns *classifier.ArtifactLoadError when a blob is missing or
// corrupt and *classifier.ShapeError when the pair does not match. When
// both blobs are absent the load error wraps ErrNoArtifact.
type ArtifactStore interface {
	Save(ctx context.Context, artifact *classifier.Artifact) error
	Load(ctx context.Context) (*classifier.Artifact, error)
	Location() string
}

// New builds the artifact store selected by cfg.
func New(cfg config.ModelConfig) (ArtifactStore, error) {
	switch cfg.Store {
	case config.StoreFile, "":
		return NewFileStore(cfg.Dir), nil
	case config.StoreMinio:
		return NewMinioStore(cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown artifact store %q", cfg.Store)
	}
}
