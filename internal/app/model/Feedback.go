package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUserFeedbackLength is the longest user feedback accepted, in characters.
const MaxUserFeedbackLength = 500

// Feedback records the outcome of one analyzed call and the caller's later
// verdict on it.
type Feedback struct {
	ID           string    `json:"id"`
	Transcript   string    `json:"transcript"`
	IsFraudulent bool      `json:"is_fraudulent"`
	Confidence   float64   `json:"confidence"`
	UserFeedback string    `json:"user_feedback"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrUserFeedbackTooLong is returned for feedback above MaxUserFeedbackLength characters.
var ErrUserFeedbackTooLong = errors.New("user feedback exceeds 500 characters")

// NormalizeUserFeedback trims text and enforces the length limit.
func NormalizeUserFeedback(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > MaxUserFeedbackLength {
		return "", ErrUserFeedbackTooLong
	}
	return text, nil
}
