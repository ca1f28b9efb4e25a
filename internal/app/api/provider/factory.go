package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"callguard/internal/app/api"
	"callguard/internal/app/api/cache"
	"callguard/internal/app/api/gemini"
	"callguard/internal/app/api/mock"
	openaiclient "callguard/internal/app/api/openai"
	"callguard/internal/app/api/openai/whisper"
	"callguard/internal/config"
)

// Transcriber is the assembled speech-to-text chain plus the resources it holds.
type Transcriber struct {
	api.Transcriber
	Name   string
	closer func() error
}

// Close releases the cache connection, if any.
func (t *Transcriber) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer()
}

// New builds the configured provider, wrapped with the call timeout and, when
// a Redis address is configured, the transcript cache.
func New(ctx context.Context, cfg config.TranscriberConfig, keys *config.APIKeys, logger *zap.Logger) (*Transcriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keys == nil {
		keys = &config.APIKeys{}
	}

	base, err := newBase(ctx, cfg, keys)
	if err != nil {
		return nil, err
	}

	out := &Transcriber{Name: cfg.Provider, Transcriber: api.WithTimeout(base, cfg.Timeout)}

	if cfg.Cache.RedisAddr != "" {
		store, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			return nil, err
		}
		out.Transcriber = cache.New(out.Transcriber, store, cfg.Cache.TTL, logger)
		out.closer = store.Close
		logger.Info("transcript cache enabled", zap.String("redis_addr", cfg.Cache.RedisAddr), zap.Duration("ttl", cfg.Cache.TTL))
	}

	logger.Info("transcriber ready",
		zap.String("provider", cfg.Provider),
		zap.Duration("timeout", cfg.Timeout),
		zap.Strings("keys_available", keys.Available()))
	return out, nil
}

func newBase(ctx context.Context, cfg config.TranscriberConfig, keys *config.APIKeys) (api.Transcriber, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		key := firstNonEmpty(cfg.APIKey, keys.OpenAI)
		if key == "" {
			return nil, config.RequireAPIKey(keys, config.ProviderOpenAI)
		}
		client := openaiclient.NewClient(key, cfg.BaseURL, nil)
		return whisper.NewRemoteTranscriber(client, cfg.Model, cfg.Language), nil
	case config.ProviderGemini:
		key := firstNonEmpty(cfg.APIKey, keys.Gemini)
		if key == "" {
			return nil, config.RequireAPIKey(keys, config.ProviderGemini)
		}
		return gemini.New(ctx, gemini.Options{APIKey: key, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case config.ProviderMock:
		return mock.New(cfg.MockText), nil
	default:
		return nil, fmt.Errorf("unknown transcriber provider: %s", cfg.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
