package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"callguard/internal/api/errors"
	"callguard/internal/api/middleware"
	"callguard/internal/api/v1/dto"
	"callguard/internal/api/v1/services"
)

// FeedbackHandler handles feedback-related API endpoints
type FeedbackHandler struct {
	service services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func feedbackID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid feedback ID"))
		return "", false
	}
	return id, true
}

// Update handles PUT /api/v1/feedback/:id
//
// @Summary Submit user feedback
// @Description Stores the caller's own verdict on a previous analysis
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID" format(uuid)
// @Param request body dto.UpdateFeedbackRequest true "User feedback"
// @Success 200 {object} dto.FeedbackResponse "Updated record"
// @Failure 400 {object} errors.APIError "Invalid ID"
// @Failure 404 {object} errors.APIError "Feedback not found"
// @Failure 422 {object} errors.APIError "Feedback too long"
// @Router /feedback/{id} [put]
func (h *FeedbackHandler) Update(c *gin.Context) {
	id, ok := feedbackID(c)
	if !ok {
		return
	}

	var req dto.UpdateFeedbackRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.UpdateFeedback(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/feedback/:id
//
// @Summary Get feedback by ID
// @Tags feedback
// @Produce json
// @Param id path string true "Feedback ID" format(uuid)
// @Success 200 {object} dto.FeedbackResponse "Feedback record"
// @Failure 400 {object} errors.APIError "Invalid ID"
// @Failure 404 {object} errors.APIError "Feedback not found"
// @Router /feedback/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := feedbackID(c)
	if !ok {
		return
	}

	response, err := h.service.GetFeedback(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /api/v1/feedback
//
// @Summary List feedback
// @Description Lists feedback records newest first
// @Tags feedback
// @Produce json
// @Param limit query int false "Page size" minimum(1) maximum(100) default(20)
// @Param offset query int false "Records to skip" minimum(0) default(0)
// @Success 200 {object} dto.PaginatedFeedbackResponse "Feedback page"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Router /feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	var query dto.ListFeedbackQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListFeedback(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
