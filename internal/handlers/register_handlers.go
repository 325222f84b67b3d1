package handlers

import (
	"github.com/SscSPs/exchange_sync_app/cmd/docs"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/SscSPs/exchange_sync_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	syncLimiter, err := middleware.NewRateLimiter(cfg.SyncRateLimit)
	if err != nil {
		return err
	}

	registerHealthRoutes(r, services.RateReader, cfg.StorageBackend, cfg.Location)
	registerRateRoutes(r, services.RateSync, services.RateReader, middleware.RateLimit(syncLimiter))
	registerReservationRoutes(r, services.Reservation)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
