package dto

import (
	"time"

	"callguard/internal/app/model"
)

// UpdateFeedbackRequest sets the caller's verdict on an analysis. The text
// is trimmed before the length limit is applied, so the limit is enforced by
// the feedback service rather than a binding tag.
type UpdateFeedbackRequest struct {
	UserFeedback string `json:"user_feedback" example:"This was my bank calling."`
}

// ListFeedbackQuery pages through feedback, newest first.
type ListFeedbackQuery struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// FeedbackResponse represents a feedback record in API responses
type FeedbackResponse struct {
	ID           string    `json:"id"`
	Transcript   string    `json:"transcript"`
	IsFraudulent bool      `json:"is_fraudulent"`
	Confidence   float64   `json:"confidence"`
	UserFeedback string    `json:"user_feedback"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PaginatedFeedbackResponse is one page of feedback.
type PaginatedFeedbackResponse struct {
	Data       []FeedbackResponse `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse describes the returned window.
type PaginationResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// FromFeedback converts a stored record.
func FromFeedback(f *model.Feedback) *FeedbackResponse {
	return &FeedbackResponse{
		ID:           f.ID,
		Transcript:   f.Transcript,
		IsFraudulent: f.IsFraudulent,
		Confidence:   f.Confidence,
		UserFeedback: f.UserFeedback,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
