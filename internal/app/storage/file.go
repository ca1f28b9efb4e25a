package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"callguard/internal/app/classifier"
)

// FileStore keeps the artifact pair as two JSON files in one directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Location returns the store directory.
func (s *FileStore) Location() string { return s.dir }

// Save writes both blobs. Each file is written to a temporary file in the
// same directory and renamed into place, so a reader never observes a
// partially written blob.
func (s *FileStore) Save(ctx context.Context, artifact *classifier.Artifact) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := s.writeAtomic(ctx, VectorizerObject, artifact.EncodeVectorizer); err != nil {
		return err
	}
	return s.writeAtomic(ctx, ClassifierObject, artifact.EncodeClassifier)
}

// Load reads and validates both blobs.
func (s *FileStore) Load(ctx context.Context) (*classifier.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec, err := s.read(VectorizerObject, classifier.PartVectorizer)
	if err != nil {
		if IsNotExist(err) && !s.exists(ClassifierObject) {
			return nil, &classifier.ArtifactLoadError{Part: classifier.PartVectorizer,
				Err: fmt.Errorf("%w in %s: %w", ErrNoArtifact, s.dir, errors.Unwrap(err))}
		}
		return nil, err
	}
	clf, err := s.read(ClassifierObject, classifier.PartClassifier)
	if err != nil {
		return nil, err
	}
	return classifier.DecodeArtifact(bytes.NewReader(vec), bytes.NewReader(clf))
}

func (s *FileStore) read(name, part string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, &classifier.ArtifactLoadError{Part: part, Err: err}
	}
	return data, nil
}

func (s *FileStore) exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return !errors.Is(err, os.ErrNotExist)
}

func (s *FileStore) writeAtomic(ctx context.Context, name string, encode func(io.Writer) error) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dest := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = encode(bw); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// IsNotExist reports whether err means that an artifact blob is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrNoArtifact)
}

// IsEmpty reports whether err means that neither blob is stored, as opposed
// to a partial, corrupt or mismatched pair.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrNoArtifact)
}
