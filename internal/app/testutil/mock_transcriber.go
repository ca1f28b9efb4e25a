package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber implements api.Transcriber. Without expectations it returns
// DefaultResponse; set expectations with On("Transcribe", ...) to script calls.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	DefaultResponse string
	DefaultError    error
	Latency         time.Duration
	UseExpectations bool

	calls []TranscriptionCall
}

// TranscriptionCall records one Transcribe invocation.
type TranscriptionCall struct {
	AudioBytes int
	Response   string
	Error      error
	Timestamp  time.Time
}

// NewMockTranscriber returns a transcriber that answers with response.
func NewMockTranscriber(response string) *MockTranscriber {
	return &MockTranscriber{DefaultResponse: response}
}

// WithError makes every call fail with err.
func (m *MockTranscriber) WithError(err error) *MockTranscriber {
	m.DefaultError = err
	return m
}

// WithLatency delays every call by d, or until ctx is done.
func (m *MockTranscriber) WithLatency(d time.Duration) *MockTranscriber {
	m.Latency = d
	return m
}

// Transcribe implements api.Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			m.track(len(audio), "", ctx.Err())
			return "", ctx.Err()
		}
	}

	text, err := m.DefaultResponse, m.DefaultError
	if m.UseExpectations {
		args := m.Called(ctx, audio)
		text, err = args.String(0), args.Error(1)
	}
	if err != nil {
		text = ""
	}
	m.track(len(audio), text, err)
	return text, err
}

func (m *MockTranscriber) track(n int, text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TranscriptionCall{AudioBytes: n, Response: text, Error: err, Timestamp: time.Now()})
}

// CallCount returns the number of Transcribe calls so far.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the call history.
func (m *MockTranscriber) Calls() []TranscriptionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriptionCall(nil), m.calls...)
}
