package routes

import (
	"github.com/gin-gonic/gin"

	"callguard/internal/api/middleware"
	"callguard/internal/api/v1/handlers"
	"callguard/internal/api/v1/services"
)

// base64 expands 3 bytes to 4; the extra headroom covers the JSON envelope.
const envelopeSlack = 64 << 10

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	analysisHandler := handlers.NewAnalysisHandler(container.AnalysisService)
	analyze := []gin.HandlerFunc{middleware.RateLimit(container.RateLimiter, container.OnRateLimited)}
	if container.MaxAudioBytes > 0 {
		analyze = append(analyze, middleware.LimitBody(container.MaxAudioBytes*4/3+envelopeSlack))
	}
	router.POST("/analyze", append(analyze, analysisHandler.Analyze)...)
	router.POST("/classify", analysisHandler.Classify)

	if container.FeedbackService != nil {
		feedbackHandler := handlers.NewFeedbackHandler(container.FeedbackService)
		feedback := router.Group("/feedback")
		{
			feedback.GET("", feedbackHandler.List)
			feedback.GET("/:id", feedbackHandler.Get)
			feedback.PUT("/:id", feedbackHandler.Update)
		}
	}

	if container.ModelService != nil {
		modelHandler := handlers.NewModelHandler(container.ModelService)
		router.GET("/model", modelHandler.Info)
		router.POST("/model/reload", modelHandler.Reload)
	}

	if container.ExportService != nil {
		exportHandler := handlers.NewExportHandler(container.ExportService)
		router.GET("/export", exportHandler.Export)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	AnalysisService services.AnalysisService
	FeedbackService services.FeedbackService
	ModelService    services.ModelService
	ExportService   services.ExportService

	RateLimiter   *middleware.RateLimiter
	OnRateLimited func()
	MaxAudioBytes int64
}
