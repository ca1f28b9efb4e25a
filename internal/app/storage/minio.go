package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"callguard/internal/app/classifier"
	"callguard/internal/config"
)

// MinioStore keeps the artifact pair as two objects under a common prefix
// in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	// bucketMu guards bucketReady. Only a successful check is remembered, so
	// a transient failure is retried by the next Save.
	bucketMu    sync.Mutex
	bucketReady bool
}

// NewMinioStore creates a MinIO client for cfg. No request is made until
// the first Save or Load.
func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio artifact store requires endpoint and bucket")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, region: cfg.Region}, nil
}

// Location returns bucket/prefix.
func (s *MinioStore) Location() string {
	return path.Join(s.bucket, s.prefix)
}

func (s *MinioStore) key(object string) string {
	return path.Join(s.prefix, object)
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.bucketMu.Lock()
	defer s.bucketMu.Unlock()
	if s.bucketReady {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	s.bucketReady = true
	return nil
}

// Save uploads the vectorizer first and the classifier second, so a
// concurrent Load that sees the new classifier also sees its vocabulary.
func (s *MinioStore) Save(ctx context.Context, artifact *classifier.Artifact) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if err := s.put(ctx, VectorizerObject, artifact.EncodeVectorizer); err != nil {
		return err
	}
	return s.put(ctx, ClassifierObject, artifact.EncodeClassifier)
}

func (s *MinioStore) put(ctx context.Context, object string, encode func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", object, err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(object), &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to MinIO: %w", object, err)
	}
	return nil
}

// Load downloads and validates both objects.
func (s *MinioStore) Load(ctx context.Context) (*classifier.Artifact, error) {
	vec, err := s.get(ctx, VectorizerObject, classifier.PartVectorizer)
	if err != nil {
		if isNoSuchKey(err) && s.missing(ctx, ClassifierObject) {
			return nil, &classifier.ArtifactLoadError{Part: classifier.PartVectorizer,
				Err: fmt.Errorf("%w in %s: %w", ErrNoArtifact, s.Location(), errors.Unwrap(err))}
		}
		return nil, err
	}
	clf, err := s.get(ctx, ClassifierObject, classifier.PartClassifier)
	if err != nil {
		return nil, err
	}
	return classifier.DecodeArtifact(bytes.NewReader(vec), bytes.NewReader(clf))
}

func (s *MinioStore) get(ctx context.Context, object, part string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(object), minio.GetObjectOptions{})
	if err != nil {
		return nil, &classifier.ArtifactLoadError{Part: part, Err: err}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			err = fmt.Errorf("object %s/%s not found: %w", s.bucket, s.key(object), err)
		}
		return nil, &classifier.ArtifactLoadError{Part: part, Err: err}
	}
	return data, nil
}

func (s *MinioStore) missing(ctx context.Context, object string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(object), minio.StatObjectOptions{})
	return isNoSuchKey(err)
}

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey"
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
