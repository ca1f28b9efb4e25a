package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"callguard/internal/app/api"
	"callguard/internal/app/audio"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

const prompt = "Transcribe this phone call audio verbatim. Respond with the transcript text only."

// Transcriber sends audio inline to a Gemini model and asks for a verbatim
// transcript.
type Transcriber struct {
	client *genai.Client
	model  string
}

// Options configures the Gemini client.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Gemini transcriber using the Gemini Developer API backend.
func New(ctx context.Context, opts Options) (*Transcriber, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini transcriber requires an API key")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Transcriber{client: client, model: model}, nil
}

// Transcribe implements api.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", api.ErrEmptyAudio
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mimeType(data)),
		}, genai.RoleUser),
	}
	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", &api.TranscriptionError{Provider: "gemini", Err: err}
	}
	return strings.TrimSpace(resp.Text()), nil
}

func mimeType(data []byte) string {
	switch audio.DetectFormat(data) {
	case audio.FormatMP3:
		return "audio/mp3"
	case audio.FormatOGG:
		return "audio/ogg"
	case audio.FormatFLAC:
		return "audio/flac"
	case audio.FormatM4A:
		return "audio/aac"
	case audio.FormatWebM:
		return "audio/webm"
	default:
		return "audio/wav"
	}
}
