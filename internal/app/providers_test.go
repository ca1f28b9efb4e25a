package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callguard/internal/app/classifier"
	"callguard/internal/app/storage"
	"callguard/internal/app/testutil"
	"callguard/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Model.Dir = filepath.Join(dir, "model")
	cfg.Database.DSN = filepath.Join(dir, "feedback.db")
	cfg.Transcriber.Provider = config.ProviderMock
	cfg.Transcriber.MockText = testutil.FraudTranscript
	cfg.Server.RateLimitRPS = 0
	return cfg
}

func TestOpenFeedbackDAO(t *testing.T) {
	dao, err := OpenFeedbackDAO(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "nested", "feedback.db"),
	})
	require.NoError(t, err)
	require.NoError(t, dao.Close())

	_, err = OpenFeedbackDAO(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestInitializeApplication_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	require.NoError(t, storage.NewFileStore(cfg.Model.Dir).Save(context.Background(), testutil.ScenarioArtifact(t)))

	application, cleanup, err := InitializeApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.True(t, application.Detector.Ready())

	body, _ := json.Marshal(map[string]string{"audio": testutil.SampleWAVBase64})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	application.Server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testutil.FraudTranscript, resp["transcript"])
	assert.Equal(t, true, resp["is_fraudulent"])
	id, _ := resp["feedback_id"].(string)
	require.NotEmpty(t, id)

	update, _ := json.Marshal(map[string]string{"user_feedback": "caller asked for my code"})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/feedback/"+id, bytes.NewReader(update))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	application.Server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := application.Feedback.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "caller asked for my code", stored.UserFeedback)
}

func TestInitializeApplication_WithoutModel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Server.AllowMissingModel = true

	application, cleanup, err := InitializeApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.False(t, application.Detector.Ready())

	body, _ := json.Marshal(map[string]string{"audio": testutil.SampleWAVBase64})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	application.Server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/model/reload", nil)
	rec = httptest.NewRecorder()
	application.Server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	assert.False(t, application.Detector.Ready())

	require.NoError(t, storage.NewFileStore(cfg.Model.Dir).Save(context.Background(), testutil.ScenarioArtifact(t)))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/model/reload", nil)
	rec = httptest.NewRecorder()
	application.Server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, application.Detector.Ready())
}

func TestInitializeApplication_ModelRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty store", func(t *testing.T) {
		cfg := testConfig(t)
		_, _, err := InitializeApplication(context.Background(), cfg, zap.NewNop())
		require.Error(t, err)
		assert.True(t, storage.IsEmpty(err))
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Server.AllowMissingModel = true
		require.NoError(t, storage.NewFileStore(cfg.Model.Dir).Save(context.Background(), testutil.ScenarioArtifact(t)))
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Model.Dir, storage.VectorizerObject), []byte("garbage"), 0o644))

		_, _, err := InitializeApplication(context.Background(), cfg, zap.NewNop())
		var loadErr *classifier.ArtifactLoadError
		require.True(t, errors.As(err, &loadErr), "got %v", err)
		assert.False(t, storage.IsEmpty(err))
	})

	t.Run("mismatched pair", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Server.AllowMissingModel = true
		require.NoError(t, storage.NewFileStore(cfg.Model.Dir).Save(context.Background(), testutil.ScenarioArtifact(t)))

		vocab, vecs, err := classifier.FitTransform([]string{"wire the money", "see you at lunch"})
		require.NoError(t, err)
		params, err := classifier.FitLogistic(vecs, []int{1, 0}, vocab.Size(), classifier.DefaultTrainOptions())
		require.NoError(t, err)
		other, err := classifier.NewArtifact(vocab, params, testutil.TrainedAt)
		require.NoError(t, err)
		otherDir := t.TempDir()
		require.NoError(t, storage.NewFileStore(otherDir).Save(context.Background(), other))
		clf, err := os.ReadFile(filepath.Join(otherDir, storage.ClassifierObject))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(cfg.Model.Dir, storage.ClassifierObject), clf, 0o644))

		_, _, err = InitializeApplication(context.Background(), cfg, zap.NewNop())
		var shapeErr *classifier.ShapeError
		assert.True(t, errors.As(err, &shapeErr), "got %v", err)
	})
}
