package dto

import "time"

// ModelInfoResponse describes the artifact being served.
type ModelInfoResponse struct {
	Location       string    `json:"location" example:"models"`
	VocabularySize int       `json:"vocabulary_size" example:"12"`
	Documents      int       `json:"documents" example:"4"`
	Threshold      float64   `json:"threshold" example:"0.5"`
	TrainedAt      time.Time `json:"trained_at"`
	LoadedAt       time.Time `json:"loaded_at"`
}
