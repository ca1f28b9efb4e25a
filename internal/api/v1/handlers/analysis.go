package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callguard/internal/api/middleware"
	"callguard/internal/api/v1/dto"
	"callguard/internal/api/v1/services"
)

// AnalysisHandler handles the fraud analysis endpoints
type AnalysisHandler struct {
	service services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze handles POST /api/v1/analyze
//
// @Summary Analyze a call recording
// @Description Transcribes base64-encoded audio and classifies the transcript as fraudulent or not
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "Base64 audio"
// @Success 200 {object} dto.AnalyzeResponse "Transcript and verdict"
// @Failure 400 {object} errors.APIError "Missing or malformed audio"
// @Failure 413 {object} errors.APIError "Audio too large"
// @Failure 429 {object} errors.APIError "Rate limit exceeded"
// @Failure 502 {object} errors.APIError "Speech-to-text failed"
// @Failure 503 {object} errors.APIError "Model not loaded"
// @Router /analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Analyze(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Classify handles POST /api/v1/classify
//
// @Summary Classify a transcript
// @Description Classifies text directly, skipping speech-to-text
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.ClassifyRequest true "Transcript"
// @Success 200 {object} dto.ClassifyResponse "Verdict"
// @Failure 422 {object} errors.APIError "Validation error"
// @Failure 503 {object} errors.APIError "Model not loaded"
// @Router /classify [post]
func (h *AnalysisHandler) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Classify(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
