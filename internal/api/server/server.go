package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "callguard/docs" // swagger docs
	"callguard/internal/api/middleware"
	v1routes "callguard/internal/api/v1/routes"
	"callguard/internal/app/metrics"
	"callguard/internal/config"
)

// Version is reported by the info endpoint.
var Version = "dev"

// Readiness reports whether a fraud model is being served.
type Readiness interface {
	Ready() bool
}

// Server represents the API server
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	errCh      chan error
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	container *v1routes.ServiceContainer,
	readiness Readiness,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins...)))
	if m != nil {
		router.Use(middleware.Metrics(m))
		router.GET("/metrics", gin.WrapH(m.Handler()))
		if container.OnRateLimited == nil {
			container.OnRateLimited = m.RateLimited.Inc
		}
	}
	if container.RateLimiter == nil {
		container.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if container.MaxAudioBytes == 0 {
		container.MaxAudioBytes = cfg.MaxAudioBytes
	}

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		modelLoaded := readiness != nil && readiness.Ready()
		if !modelLoaded {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"model_loaded": modelLoaded,
			"timestamp":    time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, container)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "callguard fraud detection API",
			"version":       Version,
			"documentation": "/swagger/index.html",
			"endpoints": gin.H{
				"health":   "/health",
				"metrics":  "/metrics",
				"analyze":  "/api/v1/analyze",
				"classify": "/api/v1/classify",
				"feedback": "/api/v1/feedback",
				"model":    "/api/v1/model",
			},
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
		errCh:      make(chan error, 1),
	}
}

// Start starts listening in the background. Listener failures are reported on Errors.
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Failed to start server", zap.Error(err))
			s.errCh <- err
		}
		close(s.errCh)
	}()

	s.logger.Info("API server started", zap.String("address", s.httpServer.Addr))
	return nil
}

// Errors yields a listener failure, if any, and is closed when the server stops.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
