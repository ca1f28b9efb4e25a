package services

import (
	"context"
	stderrors "errors"

	"callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	"callguard/internal/app/model"
	"callguard/internal/app/repository"
)

// FeedbackServiceImpl implements FeedbackService
type FeedbackServiceImpl struct {
	dao repository.FeedbackDAO
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(dao repository.FeedbackDAO) *FeedbackServiceImpl {
	return &FeedbackServiceImpl{dao: dao}
}

// GetFeedback retrieves a feedback record by ID
func (s *FeedbackServiceImpl) GetFeedback(ctx context.Context, id string) (*dto.FeedbackResponse, error) {
	f, err := s.dao.Get(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return dto.FromFeedback(f), nil
}

// ListFeedback lists feedback records newest first
func (s *FeedbackServiceImpl) ListFeedback(ctx context.Context, query dto.ListFeedbackQuery) (*dto.PaginatedFeedbackResponse, error) {
	total, err := s.dao.Count(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to count feedback")
	}
	records, err := s.dao.List(ctx, query.Limit, query.Offset)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to list feedback")
	}

	data := make([]dto.FeedbackResponse, 0, len(records))
	for i := range records {
		data = append(data, *dto.FromFeedback(&records[i]))
	}
	return &dto.PaginatedFeedbackResponse{
		Data: data,
		Pagination: dto.PaginationResponse{
			Limit:   query.Limit,
			Offset:  query.Offset,
			Total:   total,
			HasNext: query.Offset+len(records) < total,
		},
	}, nil
}

// UpdateFeedback stores the caller's verdict on an analysis
func (s *FeedbackServiceImpl) UpdateFeedback(ctx context.Context, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	text, err := model.NormalizeUserFeedback(req.UserFeedback)
	if err != nil {
		return nil, errors.NewValidationError("Invalid user feedback", map[string]string{
			"user_feedback": err.Error(),
		})
	}
	f, err := s.dao.UpdateUserFeedback(ctx, id, text)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return dto.FromFeedback(f), nil
}

func mapRepositoryError(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("feedback")
	}
	return errors.WrapError(err, errors.KindInternal, "Feedback store error")
}
