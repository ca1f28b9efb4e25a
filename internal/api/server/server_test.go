package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apierrors "callguard/internal/api/errors"
	"callguard/internal/api/v1/dto"
	v1routes "callguard/internal/api/v1/routes"
	"callguard/internal/app/metrics"
	"callguard/internal/app/testutil"
	"callguard/internal/config"
)

type readiness bool

func (r readiness) Ready() bool { return bool(r) }

func newTestServer(t *testing.T, ready bool, cfg config.ServerConfig) (*Server, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	ms := testutil.NewMockServices(t)
	container := &v1routes.ServiceContainer{
		AnalysisService: ms.AnalysisService,
		FeedbackService: ms.FeedbackService,
		ModelService:    ms.ModelService,
		ExportService:   ms.ExportService,
	}
	return NewServer(cfg, container, readiness(ready), metrics.New(), zap.NewNop()), ms
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	for _, tt := range []struct {
		ready  bool
		code   int
		status string
	}{
		{ready: true, code: http.StatusOK, status: "healthy"},
		{ready: false, code: http.StatusServiceUnavailable, status: "degraded"},
	} {
		s, _ := newTestServer(t, tt.ready, config.Default().Server)
		rec := get(t, s, "/health")
		assert.Equal(t, tt.code, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.status, body["status"])
		assert.Equal(t, tt.ready, body["model_loaded"])
	}
}

func TestInfoAndMetrics(t *testing.T) {
	s, ms := newTestServer(t, true, config.Default().Server)
	ms.ModelService.On("GetModelInfo", mock.Anything).Return(&dto.ModelInfoResponse{VocabularySize: 12}, nil)

	rec := get(t, s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/analyze")

	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/model").Code)

	rec = get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "callguard_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/model"`)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/nope").Code)
}

func TestRateLimitOnAnalyze(t *testing.T) {
	cfg := config.Default().Server
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	s, ms := newTestServer(t, true, cfg)
	ms.AnalysisService.On("Analyze", mock.Anything, &dto.AnalyzeRequest{}).
		Return(nil, apierrors.NewBadRequestError("No audio data provided")).Once()

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
	ms.AssertExpectations(t)
}

func TestStartShutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = "0"
	s, _ := newTestServer(t, true, cfg)

	require.NoError(t, s.Start())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err, ok := <-s.Errors():
		assert.False(t, ok && err != nil, "unexpected listener error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
