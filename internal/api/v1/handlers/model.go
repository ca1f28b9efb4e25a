package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callguard/internal/api/middleware"
	"callguard/internal/api/v1/services"
)

// ModelHandler exposes the served model
type ModelHandler struct {
	service services.ModelService
}

// NewModelHandler creates a new model handler
func NewModelHandler(service services.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// Info handles GET /api/v1/model
//
// @Summary Describe the served model
// @Tags model
// @Produce json
// @Success 200 {object} dto.ModelInfoResponse "Model metadata"
// @Failure 503 {object} errors.APIError "Model not loaded"
// @Router /model [get]
func (h *ModelHandler) Info(c *gin.Context) {
	response, err := h.service.GetModelInfo(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Reload handles POST /api/v1/model/reload
//
// @Summary Reload the model artifact
// @Description Fetches the artifact from its store and swaps it in; the previous model keeps serving on failure
// @Tags model
// @Produce json
// @Success 200 {object} dto.ModelInfoResponse "Reloaded model"
// @Failure 500 {object} errors.APIError "Reload failed"
// @Failure 503 {object} errors.APIError "No store configured"
// @Router /model/reload [post]
func (h *ModelHandler) Reload(c *gin.Context) {
	response, err := h.service.ReloadModel(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
