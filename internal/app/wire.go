//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"callguard/internal/api/server"
	"callguard/internal/app/metrics"
	"callguard/internal/config"
)

var serverSet = wire.NewSet(
	metrics.New,
	provideServerConfig,
	provideArtifactStore,
	provideDetector,
	provideAPIKeys,
	provideTranscriber,
	provideInstrumentedTranscriber,
	provideFeedbackDAO,
	provideServiceContainer,
	provideReadiness,
	server.NewServer,
	newApplication,
)

// InitializeApplication assembles the API server from cfg. The returned
// cleanup closes the transcriber, the feedback store and the detector.
func InitializeApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, func(), error) {
	wire.Build(serverSet)
	return nil, nil, nil
}
