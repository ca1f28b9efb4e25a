package repository

import (
	"context"
	"errors"

	"callguard/internal/app/model"
)

// ErrNotFound is returned when no feedback record has the requested id.
var ErrNotFound = errors.New("feedback not found")

// FeedbackDAO persists analysis outcomes and the user verdicts on them.
type FeedbackDAO interface {
	Close() error

	// Create stores f. ID and timestamps must already be set.
	Create(ctx context.Context, f *model.Feedback) error

	Get(ctx context.Context, id string) (*model.Feedback, error)

	// UpdateUserFeedback replaces the user verdict and returns the updated record.
	UpdateUserFeedback(ctx context.Context, id, userFeedback string) (*model.Feedback, error)

	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]model.Feedback, error)

	Count(ctx context.Context) (int, error)
}
