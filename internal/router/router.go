package router

import (
	"github.com/gin-gonic/gin"

	"insureport/internal/config"
	"insureport/internal/handler"
	"insureport/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	validateH *handler.ValidateHandler,
	documentH *handler.DocumentHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/validate", validateH.Validate)
	v1.POST("/documents/upload", documentH.Upload)
	v1.POST("/reports/export", reportH.Export)

	return r
}
