package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"callguard/internal/api/server"
	"callguard/internal/api/v1/routes"
	"callguard/internal/api/v1/services"
	"callguard/internal/app/api"
	"callguard/internal/app/api/provider"
	"callguard/internal/app/detector"
	"callguard/internal/app/metrics"
	"callguard/internal/app/repository"
	"callguard/internal/app/repository/pg"
	"callguard/internal/app/repository/sqlite"
	"callguard/internal/app/storage"
	"callguard/internal/config"
)

// Application is the assembled API server and the components behind it.
type Application struct {
	Server   *server.Server
	Detector *detector.Detector
	Feedback repository.FeedbackDAO
	Metrics  *metrics.Metrics
}

// OpenFeedbackDAO opens the feedback store selected by cfg.Driver and
// creates its schema.
func OpenFeedbackDAO(ctx context.Context, cfg config.DatabaseConfig) (repository.FeedbackDAO, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "sqlite", "":
		return sqlite.NewSQLiteDB(ctx, cfg.DSN)
	case config.DriverPostgres:
		db, err := pg.NewPostgresDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func provideServerConfig(cfg *config.Config) config.ServerConfig {
	return cfg.Server
}

func provideArtifactStore(cfg *config.Config) (storage.ArtifactStore, error) {
	return storage.New(cfg.Model)
}

// provideDetector loads the model once. A missing, corrupt or mismatched
// artifact fails startup. With server.allow_missing_model an empty store is
// logged instead and the server starts degraded until /model/reload succeeds.
func provideDetector(ctx context.Context, cfg *config.Config, store storage.ArtifactStore, m *metrics.Metrics, logger *zap.Logger) (*detector.Detector, func(), error) {
	d := detector.New(detector.WithThreshold(cfg.Model.Threshold), detector.WithLogger(logger))
	err := d.Init(ctx, store)
	m.ObserveReload(err)
	if err != nil {
		if !cfg.Server.AllowMissingModel || !storage.IsEmpty(err) {
			_ = d.Close()
			return nil, nil, fmt.Errorf("load fraud model: %w", err)
		}
		logger.Warn("starting without a fraud model", zap.String("location", store.Location()), zap.Error(err))
	}
	return d, func() { _ = d.Close() }, nil
}

func provideAPIKeys() (*config.APIKeys, error) {
	return config.GetAPIKeys()
}

func provideTranscriber(ctx context.Context, cfg *config.Config, keys *config.APIKeys, logger *zap.Logger) (*provider.Transcriber, func(), error) {
	t, err := provider.New(ctx, cfg.Transcriber, keys, logger)
	if err != nil {
		return nil, nil, err
	}
	return t, func() { _ = t.Close() }, nil
}

func provideInstrumentedTranscriber(t *provider.Transcriber, m *metrics.Metrics) api.Transcriber {
	return m.InstrumentTranscriber(t)
}

func provideFeedbackDAO(ctx context.Context, cfg *config.Config) (repository.FeedbackDAO, func(), error) {
	dao, err := OpenFeedbackDAO(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open feedback store: %w", err)
	}
	return dao, func() { _ = dao.Close() }, nil
}

func provideServiceContainer(
	cfg *config.Config,
	transcriber api.Transcriber,
	d *detector.Detector,
	dao repository.FeedbackDAO,
	m *metrics.Metrics,
	logger *zap.Logger,
) *routes.ServiceContainer {
	return &routes.ServiceContainer{
		AnalysisService: services.NewAnalysisService(transcriber, d, dao, m, cfg.Server.MaxAudioBytes, logger),
		FeedbackService: services.NewFeedbackService(dao),
		ModelService:    services.NewModelService(d, m, logger),
		ExportService:   services.NewExportService(dao),
		MaxAudioBytes:   cfg.Server.MaxAudioBytes,
	}
}

func provideReadiness(d *detector.Detector) server.Readiness {
	return d
}

func newApplication(s *server.Server, d *detector.Detector, dao repository.FeedbackDAO, m *metrics.Metrics) *Application {
	return &Application{Server: s, Detector: d, Feedback: dao, Metrics: m}
}
