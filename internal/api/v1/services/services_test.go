package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	"callguard/internal/app/api"
	"callguard/internal/app/detector"
	"callguard/internal/app/metrics"
	"callguard/internal/app/storage"
	"callguard/internal/app/testutil"
)

func readyDetector(t *testing.T) (*detector.Detector, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	require.NoError(t, store.Save(context.Background(), testutil.ScenarioArtifact(t)))
	d := detector.New()
	require.NoError(t, d.Init(context.Background(), store))
	return d, store
}

func assertKind(t *testing.T, err error, kind errors.ErrorKind) {
	t.Helper()
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, kind, apiErr.Kind)
}

func TestAnalyze_HappyPath(t *testing.T) {
	d, _ := readyDetector(t)
	dao := testutil.NewMockFeedbackDAO()
	stt := testutil.NewMockTranscriber(testutil.FraudTranscript)
	m := metrics.New()
	svc := NewAnalysisService(stt, d, dao, m, 0, nil)

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Audio: testutil.SampleWAVBase64})
	require.NoError(t, err)
	assert.Equal(t, testutil.FraudTranscript, resp.Transcript)
	assert.True(t, resp.IsFraudulent)
	assert.Equal(t, 1, resp.Label)
	assert.Greater(t, resp.Confidence, 0.5)
	require.NotEmpty(t, resp.FeedbackID)

	stored, err := dao.Get(context.Background(), resp.FeedbackID)
	require.NoError(t, err)
	assert.Equal(t, testutil.FraudTranscript, stored.Transcript)
	assert.True(t, stored.IsFraudulent)
	assert.Empty(t, stored.UserFeedback)

	calls := stt.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, len(testutil.SampleWAV), calls[0].AudioBytes)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name        string
		audio       string
		maxAudio    int64
		transcriber api.Transcriber
		ready       bool
		kind        errors.ErrorKind
	}{
		{name: "missing audio", audio: "", ready: true, kind: errors.KindBadRequest},
		{name: "not base64", audio: "%%%not-base64%%%", ready: true, kind: errors.KindBadRequest},
		{name: "too large", audio: testutil.SampleWAVBase64, maxAudio: 8, ready: true, kind: errors.KindPayloadTooLarge},
		{
			name:        "transcription failure",
			audio:       testutil.SampleWAVBase64,
			transcriber: testutil.NewMockTranscriber("").WithError(&api.TranscriptionError{Provider: "mock", Err: stderrors.New("boom")}),
			ready:       true,
			kind:        errors.KindBadGateway,
		},
		{name: "model unavailable", audio: testutil.SampleWAVBase64, ready: false, kind: errors.KindServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d *detector.Detector
			if tt.ready {
				d, _ = readyDetector(t)
			} else {
				d = detector.New()
			}
			stt := tt.transcriber
			if stt == nil {
				stt = testutil.NewMockTranscriber(testutil.FraudTranscript)
			}
			dao := testutil.NewMockFeedbackDAO()
			svc := NewAnalysisService(stt, d, dao, nil, tt.maxAudio, nil)

			_, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Audio: tt.audio})
			assertKind(t, err, tt.kind)
			assert.Zero(t, dao.Len())
		})
	}
}

func TestAnalyze_ModelCheckedBeforeTranscription(t *testing.T) {
	stt := testutil.NewMockTranscriber(testutil.FraudTranscript)
	svc := NewAnalysisService(stt, detector.New(), nil, nil, 0, nil)

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Audio: testutil.SampleWAVBase64})
	assertKind(t, err, errors.KindServiceUnavailable)
	assert.Zero(t, stt.CallCount())
}

func TestAnalyze_FeedbackStoreFailureIsNotFatal(t *testing.T) {
	d, _ := readyDetector(t)
	dao := testutil.NewMockFeedbackDAO()
	dao.ErrorMap["Create"] = stderrors.New("disk full")
	svc := NewAnalysisService(testutil.NewMockTranscriber(testutil.LegitTranscript), d, dao, nil, 0, nil)

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Audio: testutil.SampleWAVBase64})
	require.NoError(t, err)
	assert.False(t, resp.IsFraudulent)
	assert.Empty(t, resp.FeedbackID)
}

func TestClassify(t *testing.T) {
	d, _ := readyDetector(t)
	svc := NewAnalysisService(nil, d, nil, nil, 0, nil)

	resp, err := svc.Classify(context.Background(), &dto.ClassifyRequest{Text: testutil.LegitTranscript})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Label)
	assert.False(t, resp.IsFraudulent)

	svc = NewAnalysisService(nil, detector.New(), nil, nil, 0, nil)
	_, err = svc.Classify(context.Background(), &dto.ClassifyRequest{Text: testutil.LegitTranscript})
	assertKind(t, err, errors.KindServiceUnavailable)
}

func TestFeedbackService(t *testing.T) {
	seed := testutil.SampleFeedback(3)
	dao := testutil.NewMockFeedbackDAO(seed...)
	svc := NewFeedbackService(dao)
	ctx := context.Background()

	got, err := svc.GetFeedback(ctx, seed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seed[0].Transcript, got.Transcript)

	_, err = svc.GetFeedback(ctx, "00000000-0000-4000-8000-ffffffffffff")
	assertKind(t, err, errors.KindNotFound)

	updated, err := svc.UpdateFeedback(ctx, seed[1].ID, &dto.UpdateFeedbackRequest{UserFeedback: "  it was a scam  "})
	require.NoError(t, err)
	assert.Equal(t, "it was a scam", updated.UserFeedback)

	_, err = svc.UpdateFeedback(ctx, seed[1].ID, &dto.UpdateFeedbackRequest{UserFeedback: strings.Repeat("é", 501)})
	assertKind(t, err, errors.KindValidation)

	padded := "  " + strings.Repeat("é", 500) + " \n"
	updated, err = svc.UpdateFeedback(ctx, seed[1].ID, &dto.UpdateFeedbackRequest{UserFeedback: padded})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 500), updated.UserFeedback)

	_, err = svc.UpdateFeedback(ctx, "00000000-0000-4000-8000-ffffffffffff", &dto.UpdateFeedbackRequest{UserFeedback: "x"})
	assertKind(t, err, errors.KindNotFound)

	page, err := svc.ListFeedback(ctx, dto.ListFeedbackQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, seed[2].ID, page.Data[0].ID)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)

	dao.ErrorMap["Count"] = stderrors.New("db down")
	_, err = svc.ListFeedback(ctx, dto.ListFeedbackQuery{Limit: 2})
	assertKind(t, err, errors.KindInternal)
}

func TestModelService(t *testing.T) {
	d, _ := readyDetector(t)
	m := metrics.New()
	svc := NewModelService(d, m, nil)

	info, err := svc.GetModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, info.VocabularySize)
	assert.Equal(t, 4, info.Documents)
	assert.Equal(t, testutil.TrainedAt, info.TrainedAt)

	reloaded, err := svc.ReloadModel(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded.LoadedAt.Before(info.LoadedAt))

	_, err = NewModelService(detector.New(), m, nil).GetModelInfo(context.Background())
	assertKind(t, err, errors.KindServiceUnavailable)

	_, err = NewModelService(detector.New(), m, nil).ReloadModel(context.Background())
	assertKind(t, err, errors.KindServiceUnavailable)
}

func TestModelService_ReloadBrokenStore(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(t *testing.T, dir string)
	}{
		{"empty store", func(t *testing.T, dir string) {
			require.NoError(t, os.Remove(filepath.Join(dir, storage.VectorizerObject)))
			require.NoError(t, os.Remove(filepath.Join(dir, storage.ClassifierObject)))
		}},
		{"corrupt classifier", func(t *testing.T, dir string) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, storage.ClassifierObject), []byte("{"), 0o644))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, store := readyDetector(t)
			svc := NewModelService(d, metrics.New(), nil)
			tt.corrupt(t, store.Location())

			_, err := svc.ReloadModel(context.Background())
			assertKind(t, err, errors.KindServiceUnavailable)
			assert.True(t, d.Ready(), "previous model keeps serving")
		})
	}
}

func TestExportService(t *testing.T) {
	dao := testutil.NewMockFeedbackDAO(testutil.SampleFeedback(5)...)
	svc := NewExportService(dao)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportFeedback(context.Background(), dto.ExportRequest{Limit: 3}, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 4)
}
