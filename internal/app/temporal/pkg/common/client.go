package common

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"callguard/internal/config"
)

// NewTemporalClient dials the Temporal frontend described by cfg.
func NewTemporalClient(cfg config.TemporalConfig, logger *zap.Logger) (client.Client, error) {
	opts := client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	}
	if logger != nil {
		opts.Logger = NewTemporalLogger(logger)
	}
	c, err := client.Dial(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}
