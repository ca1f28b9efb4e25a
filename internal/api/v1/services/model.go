package services

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	"callguard/internal/app/classifier"
	"callguard/internal/app/detector"
	"callguard/internal/app/metrics"
)

// ModelServiceImpl implements ModelService
type ModelServiceImpl struct {
	manager ModelManager
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewModelService creates a new model service. m may be nil.
func NewModelService(manager ModelManager, m *metrics.Metrics, logger *zap.Logger) *ModelServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelServiceImpl{manager: manager, metrics: m, logger: logger}
}

// GetModelInfo describes the active artifact
func (s *ModelServiceImpl) GetModelInfo(ctx context.Context) (*dto.ModelInfoResponse, error) {
	info, err := s.manager.Info()
	if err != nil {
		if stderrors.Is(err, detector.ErrModelUnavailable) {
			return nil, errors.NewServiceUnavailableError("Fraud model is not loaded")
		}
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to describe model")
	}
	return toModelInfo(info), nil
}

// ReloadModel fetches the artifact again. On failure the previous model keeps serving.
func (s *ModelServiceImpl) ReloadModel(ctx context.Context) (*dto.ModelInfoResponse, error) {
	err := s.manager.Reload(ctx)
	if s.metrics != nil {
		s.metrics.ObserveReload(err)
	}
	if err != nil {
		s.logger.Error("model reload failed", zap.Error(err))
		if stderrors.Is(err, detector.ErrModelUnavailable) {
			return nil, errors.NewServiceUnavailableError("No model store configured")
		}
		var loadErr *classifier.ArtifactLoadError
		var shapeErr *classifier.ShapeError
		if stderrors.As(err, &loadErr) || stderrors.As(err, &shapeErr) {
			return nil, errors.NewServiceUnavailableError("No usable model artifact in the store")
		}
		return nil, errors.WrapError(err, errors.KindInternal, "Model reload failed")
	}
	return s.GetModelInfo(ctx)
}

func toModelInfo(info detector.Info) *dto.ModelInfoResponse {
	return &dto.ModelInfoResponse{
		Location:       info.Location,
		VocabularySize: info.VocabularySize,
		Documents:      info.Documents,
		Threshold:      info.Threshold,
		TrainedAt:      info.TrainedAt,
		LoadedAt:       info.LoadedAt,
	}
}
