package services

import (
	"context"
	"io"

	"callguard/internal/api/v1/dto"
	"callguard/internal/app/detector"
)

// AnalysisService defines the interface for fraud analysis operations
type AnalysisService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	Classify(ctx context.Context, req *dto.ClassifyRequest) (*dto.ClassifyResponse, error)
}

// FeedbackService defines the interface for feedback operations
type FeedbackService interface {
	GetFeedback(ctx context.Context, id string) (*dto.FeedbackResponse, error)
	ListFeedback(ctx context.Context, query dto.ListFeedbackQuery) (*dto.PaginatedFeedbackResponse, error)
	UpdateFeedback(ctx context.Context, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error)
}

// ModelService defines the interface for model management operations
type ModelService interface {
	GetModelInfo(ctx context.Context) (*dto.ModelInfoResponse, error)
	ReloadModel(ctx context.Context) (*dto.ModelInfoResponse, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	ExportFeedback(ctx context.Context, req dto.ExportRequest, writer io.Writer) error
}

// Predictor is the part of the detector the services depend on.
type Predictor interface {
	Infer(ctx context.Context, text string) (detector.Result, error)
	Ready() bool
}

// ModelManager inspects and reloads the served model.
type ModelManager interface {
	Info() (detector.Info, error)
	Reload(ctx context.Context) error
}
