package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type healthHandler struct {
	readerService portssvc.RateReaderSvc
	backend       string
	location      *time.Location
}

func registerHealthRoutes(r gin.IRouter, readerSvc portssvc.RateReaderSvc, backend string, loc *time.Location) {
	h := &healthHandler{readerService: readerSvc, backend: backend, location: loc}
	r.GET("/health", h.getHealth)
}

// getHealth godoc
// @Summary Show the status of the service and its storage
// @Tags root
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Storage unreachable"
// @Failure 500 {object} map[string]string "Failed to check health"
// @Router /health [get]
func (h *healthHandler) getHealth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	health, err := h.readerService.GetRateHealth(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to check health")
		return
	}

	resp := dto.ToHealthResponse(health, h.backend, time.Now().In(h.location).Format(time.RFC3339))
	if !health.StorageReachable {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
