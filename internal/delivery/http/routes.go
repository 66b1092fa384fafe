package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tomepromo/backend/config"
	"github.com/tomepromo/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router. m may be nil, in which
// case no /metrics endpoint is exposed.
func SetupRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware(m))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	limit := RateLimitMiddleware(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		services := v1.Group("/services", limit)
		{
			services.POST("/extractor", handler.ExtractMetadata)
		}
	}

	// unversioned path kept for existing clients
	router.POST("/services/extractor", limit, handler.ExtractMetadata)

	return router
}
