package whisper

import (
	"bytes"
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"callguard/internal/app/api"
	"callguard/internal/app/audio"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. An empty
// model selects whisper-1.
func NewRemoteTranscriber(client *openai.Client, model, language string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: model, language: language}
}

// Transcribe uploads the audio bytes and returns the recognized text.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", api.ErrEmptyAudio
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		Reader:   bytes.NewReader(data),
		FilePath: audio.FileName(data),
		Language: rt.language,
		Format:   openai.AudioResponseFormatJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", &api.TranscriptionError{Provider: "openai", Err: err}
	}

	return strings.TrimSpace(resp.Text), nil
}
