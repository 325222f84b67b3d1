package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests that sync and read exchange rates.
type rateHandler struct {
	syncService   portssvc.RateSyncSvc
	readerService portssvc.RateReaderSvc
}

// newRateHandler creates a new rateHandler.
func newRateHandler(syncSvc portssvc.RateSyncSvc, readerSvc portssvc.RateReaderSvc) *rateHandler {
	return &rateHandler{
		syncService:   syncSvc,
		readerService: readerSvc,
	}
}

// registerRateRoutes registers the sync and rates routes together with their legacy aliases.
// syncLimit guards the sync routes, which call the upstream API.
func registerRateRoutes(r gin.IRouter, syncSvc portssvc.RateSyncSvc, readerSvc portssvc.RateReaderSvc, syncLimit gin.HandlerFunc) {
	h := newRateHandler(syncSvc, readerSvc)

	r.GET("/sync", syncLimit, h.syncRates)
	r.GET("/api/exchange_api2db", syncLimit, h.syncRates)

	r.GET("/rates", h.getRates)
	r.GET("/api/exchange_db2api", h.getRates)
}

// syncRates godoc
// @Summary Sync exchange rates from the upstream API
// @Description Fetches every business day missing from storage, normalizes the rates and stores them. Returns a step-by-step report.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} dto.SyncResponse "Precondition failed or unexpected error"
// @Router /sync [get]
func (h *rateHandler) syncRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to sync exchange rates")

	result := h.syncService.Sync(c.Request.Context())
	resp := dto.ToSyncResponse(result)
	if !result.Success {
		logger.Error("Exchange rate sync failed", slog.String("error", result.Error))
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	logger.Info("Exchange rate sync finished",
		slog.String("summary", result.Summary),
		slog.Int("failed_dates", len(result.FailedDates)),
	)
	c.JSON(http.StatusOK, resp)
}

// getRates godoc
// @Summary Get stored exchange rates
// @Description Returns the stored rates of the last N business days, either as a flat listing (web) or as a day-over-day comparison (chat).
// @Tags rates
// @Produce json
// @Param format query string true "Output format" Enums(web, chat)
// @Param days query int false "Business days to cover, 1-100 (default 14 for web, 2 for chat)"
// @Success 200 {object} dto.WebRatesResponse "format=web"
// @Success 200 {object} dto.ChatRatesResponse "format=chat"
// @Failure 400 {object} map[string]string "Invalid format or days"
// @Failure 404 {object} map[string]string "No stored data for the requested days"
// @Failure 502 {object} map[string]string "Storage or upstream API unavailable"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rates"
// @Router /rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GetRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	web, chat, err := h.readerService.GetRates(c.Request.Context(), params.Format, params.Days)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rates")
		return
	}

	if chat != nil {
		c.JSON(http.StatusOK, dto.ToChatRatesResponse(chat))
		return
	}
	c.JSON(http.StatusOK, dto.ToWebRatesResponse(web))
}
