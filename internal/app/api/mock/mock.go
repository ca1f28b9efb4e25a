// Package mock provides a canned transcriber for development and tests.
package mock

import (
	"context"

	"callguard/internal/app/api"
)

// Transcriber returns Text for every non-empty payload.
type Transcriber struct {
	Text string
}

func New(text string) *Transcriber {
	return &Transcriber{Text: text}
}

func (m *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", api.ErrEmptyAudio
	}
	return m.Text, nil
}
