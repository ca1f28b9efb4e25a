package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Transcriber converts an in-memory audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ErrEmptyAudio is returned when Transcribe is called with no bytes.
var ErrEmptyAudio = errors.New("empty audio payload")

// TranscriptionError reports a failure of the upstream speech-to-text service.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s transcription failed: %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// TranscriberFunc adapts a function to Transcriber.
type TranscriberFunc func(ctx context.Context, audio []byte) (string, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

// WithTimeout bounds every call of next by d. A non-positive d returns next.
func WithTimeout(next Transcriber, d time.Duration) Transcriber {
	if d <= 0 {
		return next
	}
	return TranscriberFunc(func(ctx context.Context, audio []byte) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Transcribe(ctx, audio)
	})
}
