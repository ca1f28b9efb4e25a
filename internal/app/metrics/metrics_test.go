package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/app/api"
)

func TestObservePrediction(t *testing.T) {
	m := New()
	m.ObservePrediction(true, 0.9)
	m.ObservePrediction(true, 0.8)
	m.ObservePrediction(false, 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("fraudulent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("legitimate")))
}

func TestObserveReload(t *testing.T) {
	m := New()
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("missing"))
	m.ObserveReload(errors.New("missing"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelReloads.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ModelReloads.WithLabelValues("failure")))
}

func TestInstrumentTranscriber(t *testing.T) {
	m := New()
	fail := false
	tr := m.InstrumentTranscriber(api.TranscriberFunc(func(context.Context, []byte) (string, error) {
		if fail {
			return "", errors.New("upstream")
		}
		return "ok", nil
	}))

	text, err := tr.Transcribe(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	fail = true
	_, err = tr.Transcribe(context.Background(), []byte{1})
	assert.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transcriptions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transcriptions.WithLabelValues("failure")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObservePrediction(true, 0.7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `callguard_predictions_total{label="fraudulent"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
