package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callguard/internal/api/middleware"
	"callguard/internal/api/v1/dto"
	"callguard/internal/api/v1/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export handles GET /api/v1/export
//
// @Summary Export feedback
// @Description Downloads the newest feedback records as an Excel workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param limit query int false "Maximum records" minimum(1) maximum(100000) default(10000)
// @Success 200 {file} file "Workbook"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Router /export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := middleware.ValidateQuery(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	// Buffer so a failure can still change the status code.
	var buf bytes.Buffer
	if err := h.service.ExportFeedback(c.Request.Context(), req, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("feedback-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
