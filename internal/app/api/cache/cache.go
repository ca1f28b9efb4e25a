// Package cache memoizes transcripts by the SHA-256 of the audio bytes so
// repeated uploads of the same recording skip the speech-to-text call.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"callguard/internal/app/api"
	"callguard/internal/app/utils"
)

const keyPrefix = "callguard:transcript:"

// Store is the key/value subset the transcriber needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore implements Store on a go-redis client.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to addr and pings it.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Transcriber wraps another Transcriber with a cache. Cache failures are
// logged and never fail the request.
type Transcriber struct {
	next   api.Transcriber
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func New(next api.Transcriber, store Store, ttl time.Duration, logger *zap.Logger) *Transcriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{next: next, store: store, ttl: ttl, logger: logger}
}

// Key returns the cache key for audio.
func Key(audio []byte) string {
	return keyPrefix + utils.HashBytes(audio)
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", api.ErrEmptyAudio
	}
	key := Key(audio)

	if text, ok, err := t.store.Get(ctx, key); err != nil {
		t.logger.Warn("transcript cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		t.logger.Debug("transcript cache hit", zap.String("key", key))
		return text, nil
	}

	text, err := t.next.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	if err := t.store.Set(ctx, key, text, t.ttl); err != nil {
		t.logger.Warn("transcript cache write failed", zap.String("key", key), zap.Error(err))
	}
	return text, nil
}
