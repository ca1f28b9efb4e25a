package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/app/api"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func countingTranscriber(calls *int, text string, err error) api.Transcriber {
	return api.TranscriberFunc(func(context.Context, []byte) (string, error) {
		*calls++
		return text, err
	})
}

func TestTranscriber_CachesByContent(t *testing.T) {
	calls := 0
	store := newMemStore()
	tr := New(countingTranscriber(&calls, "verify your account", nil), store, time.Hour, nil)

	for i := 0; i < 3; i++ {
		text, err := tr.Transcribe(context.Background(), []byte("same audio"))
		require.NoError(t, err)
		assert.Equal(t, "verify your account", text)
	}
	assert.Equal(t, 1, calls)

	_, err := tr.Transcribe(context.Background(), []byte("other audio"))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, store.data, 2)
}

func TestTranscriber_ErrorsNotCached(t *testing.T) {
	calls := 0
	store := newMemStore()
	upstream := &api.TranscriptionError{Provider: "openai", Err: errors.New("boom")}
	tr := New(countingTranscriber(&calls, "", upstream), store, time.Hour, nil)

	_, err := tr.Transcribe(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, upstream.Err)
	_, err = tr.Transcribe(context.Background(), []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestTranscriber_CacheFailuresIgnored(t *testing.T) {
	calls := 0
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	tr := New(countingTranscriber(&calls, "hello", nil), store, time.Hour, nil)

	text, err := tr.Transcribe(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, calls)
}

func TestTranscriber_EmptyAudio(t *testing.T) {
	calls := 0
	tr := New(countingTranscriber(&calls, "", nil), newMemStore(), time.Hour, nil)
	_, err := tr.Transcribe(context.Background(), nil)
	assert.ErrorIs(t, err, api.ErrEmptyAudio)
	assert.Zero(t, calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "callguard:transcript:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Key([]byte("hello")))
}

// TestRedisStore_Integration runs against a real Redis when REDIS_TEST_ADDR is set.
func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	store, err := NewRedisStore(ctx, addr, "", 0)
	require.NoError(t, err)
	defer store.Close()

	key := Key([]byte(time.Now().String()))
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, "cached", time.Minute))
	val, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached", val)
}
