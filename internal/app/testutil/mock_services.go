package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"callguard/internal/api/v1/dto"
)

// MockServices contains all mock services for testing
type MockServices struct {
	AnalysisService *MockAnalysisService
	FeedbackService *MockFeedbackService
	ModelService    *MockModelService
	ExportService   *MockExportService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		AnalysisService: NewMockAnalysisService(t),
		FeedbackService: NewMockFeedbackService(t),
		ModelService:    NewMockModelService(t),
		ExportService:   NewMockExportService(t),
	}
}

// AssertExpectations checks every mock.
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.AnalysisService.AssertExpectations(t)
	ms.FeedbackService.AssertExpectations(t)
	ms.ModelService.AssertExpectations(t)
	ms.ExportService.AssertExpectations(t)
}

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func NewMockAnalysisService(t *testing.T) *MockAnalysisService {
	m := &MockAnalysisService{}
	m.Test(t)
	return m
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyzeResponse), args.Error(1)
}

func (m *MockAnalysisService) Classify(ctx context.Context, req *dto.ClassifyRequest) (*dto.ClassifyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ClassifyResponse), args.Error(1)
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func NewMockFeedbackService(t *testing.T) *MockFeedbackService {
	m := &MockFeedbackService{}
	m.Test(t)
	return m
}

func (m *MockFeedbackService) GetFeedback(ctx context.Context, id string) (*dto.FeedbackResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackResponse), args.Error(1)
}

func (m *MockFeedbackService) ListFeedback(ctx context.Context, query dto.ListFeedbackQuery) (*dto.PaginatedFeedbackResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedFeedbackResponse), args.Error(1)
}

func (m *MockFeedbackService) UpdateFeedback(ctx context.Context, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackResponse), args.Error(1)
}

// MockModelService is a mock implementation of ModelService
type MockModelService struct {
	mock.Mock
}

func NewMockModelService(t *testing.T) *MockModelService {
	m := &MockModelService{}
	m.Test(t)
	return m
}

func (m *MockModelService) GetModelInfo(ctx context.Context) (*dto.ModelInfoResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ModelInfoResponse), args.Error(1)
}

func (m *MockModelService) ReloadModel(ctx context.Context) (*dto.ModelInfoResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ModelInfoResponse), args.Error(1)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	return m
}

func (m *MockExportService) ExportFeedback(ctx context.Context, req dto.ExportRequest, writer io.Writer) error {
	args := m.Called(ctx, req, writer)
	return args.Error(0)
}
