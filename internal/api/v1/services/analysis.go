package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	"callguard/internal/app/api"
	"callguard/internal/app/audio"
	"callguard/internal/app/detector"
	"callguard/internal/app/metrics"
	"callguard/internal/app/model"
	"callguard/internal/app/repository"
)

// AnalysisServiceImpl decodes audio, transcribes it and classifies the transcript.
type AnalysisServiceImpl struct {
	transcriber api.Transcriber
	predictor   Predictor
	feedback    repository.FeedbackDAO
	metrics     *metrics.Metrics
	maxAudio    int64
	logger      *zap.Logger
	now         func() time.Time
}

// NewAnalysisService creates a new analysis service. feedback and m may be nil.
func NewAnalysisService(
	transcriber api.Transcriber,
	predictor Predictor,
	feedback repository.FeedbackDAO,
	m *metrics.Metrics,
	maxAudio int64,
	logger *zap.Logger,
) *AnalysisServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisServiceImpl{
		transcriber: transcriber,
		predictor:   predictor,
		feedback:    feedback,
		metrics:     m,
		maxAudio:    maxAudio,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Analyze handles one base64 recording end to end.
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	data, err := audio.DecodeBase64(req.Audio, s.maxAudio)
	switch {
	case stderrors.Is(err, audio.ErrMissingAudio):
		return nil, errors.NewBadRequestError("No audio data provided")
	case stderrors.Is(err, audio.ErrInvalidAudio):
		return nil, errors.NewBadRequestError("Audio must be base64 encoded")
	case stderrors.Is(err, audio.ErrAudioTooLarge):
		return nil, errors.NewPayloadTooLargeError(err.Error())
	case err != nil:
		return nil, errors.WrapError(err, errors.KindBadRequest, "Invalid audio payload")
	}

	if !s.predictor.Ready() {
		return nil, errors.NewServiceUnavailableError("Fraud model is not loaded")
	}

	transcript, err := s.transcriber.Transcribe(ctx, data)
	if err != nil {
		if stderrors.Is(err, api.ErrEmptyAudio) {
			return nil, errors.NewBadRequestError("No audio data provided")
		}
		s.logger.Warn("transcription failed", zap.Int("audio_bytes", len(data)), zap.Error(err))
		return nil, errors.NewBadGatewayError("Speech-to-text failed")
	}

	result, err := s.infer(ctx, transcript)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeResponse{
		Transcript:   transcript,
		IsFraudulent: result.IsFraudulent(),
		Label:        result.Label,
		Confidence:   result.Confidence,
	}
	resp.FeedbackID = s.record(ctx, transcript, result)
	return resp, nil
}

// Classify runs the text-only path.
func (s *AnalysisServiceImpl) Classify(ctx context.Context, req *dto.ClassifyRequest) (*dto.ClassifyResponse, error) {
	result, err := s.infer(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &dto.ClassifyResponse{
		IsFraudulent: result.IsFraudulent(),
		Label:        result.Label,
		Confidence:   result.Confidence,
	}, nil
}

func (s *AnalysisServiceImpl) infer(ctx context.Context, text string) (detector.Result, error) {
	result, err := s.predictor.Infer(ctx, text)
	if err != nil {
		if stderrors.Is(err, detector.ErrModelUnavailable) {
			return detector.Result{}, errors.NewServiceUnavailableError("Fraud model is not loaded")
		}
		return detector.Result{}, err
	}
	if s.metrics != nil {
		s.metrics.ObservePrediction(result.IsFraudulent(), result.Confidence)
	}
	return result, nil
}

// record stores the outcome for later user feedback. A storage failure is
// logged and yields an empty id; the verdict is still returned.
func (s *AnalysisServiceImpl) record(ctx context.Context, transcript string, result detector.Result) string {
	if s.feedback == nil {
		return ""
	}
	now := s.now()
	f := &model.Feedback{
		ID:           uuid.NewString(),
		Transcript:   transcript,
		IsFraudulent: result.IsFraudulent(),
		Confidence:   result.Confidence,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		s.logger.Error("failed to store feedback record", zap.Error(err))
		return ""
	}
	return f.ID
}
