package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reservationHandler handles HTTP requests related to reservations.
type reservationHandler struct {
	reservationService portssvc.ReservationSvcFacade
}

// newReservationHandler creates a new reservationHandler.
func newReservationHandler(rs portssvc.ReservationSvcFacade) *reservationHandler {
	return &reservationHandler{
		reservationService: rs,
	}
}

// registerReservationRoutes registers routes related to reservations.
func registerReservationRoutes(r gin.IRouter, reservationService portssvc.ReservationSvcFacade) {
	h := newReservationHandler(reservationService)

	reservations := r.Group("/api/reservations")
	{
		reservations.GET("", h.listReservations)
		reservations.POST("", h.createReservation)
		reservations.GET("/:reservationID", h.getReservation)
		reservations.PATCH("/:reservationID", h.updateReservation)
		reservations.DELETE("/:reservationID", h.deleteReservation)
	}
}

// listReservations godoc
// @Summary List reservations
// @Description Lists reservations with optional filters, sorting and pagination
// @Tags reservations
// @Produce json
// @Param type query string false "Exact reservation type"
// @Param target query string false "Exact reservation target"
// @Param email query string false "Case-insensitive email substring"
// @Param session query string false "Exact session"
// @Param date_from query string false "Earliest time, date (YYYY-MM-DD) or RFC 3339"
// @Param date_to query string false "Latest time; a plain date includes the whole day"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param sort_by query string false "Sort column" Enums(time, type, target, session, emailaddress, id)
// @Param sort_order query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} dto.ListReservationsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 502 {object} map[string]string "Storage unavailable"
// @Failure 500 {object} map[string]string "Failed to list reservations"
// @Router /api/reservations [get]
func (h *reservationHandler) listReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListReservationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReservations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.reservationService.ListReservations(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list reservations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListReservationsResponse(page, params.Page, params.Limit))
}

// createReservation godoc
// @Summary Create a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body dto.CreateReservationRequest true "Reservation details"
// @Success 201 {object} dto.ReservationEnvelope
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Reservation already exists"
// @Failure 500 {object} map[string]string "Failed to create reservation"
// @Router /api/reservations [post]
func (h *reservationHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.reservationService.CreateReservation(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create reservation")
		return
	}

	c.JSON(http.StatusCreated, dto.ReservationEnvelope{
		Success: true,
		Data:    dto.ToReservationResponse(created),
		Message: "Reservation created",
	})
}

// getReservation godoc
// @Summary Get a reservation
// @Tags reservations
// @Produce json
// @Param reservationID path int true "Reservation ID"
// @Success 200 {object} dto.ReservationEnvelope
// @Failure 400 {object} map[string]string "Invalid reservation ID"
// @Failure 404 {object} map[string]string "Reservation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve reservation"
// @Router /api/reservations/{reservationID} [get]
func (h *reservationHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := reservationIDParam(c)
	if !ok {
		return
	}

	res, err := h.reservationService.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve reservation")
		return
	}

	c.JSON(http.StatusOK, dto.ReservationEnvelope{Success: true, Data: dto.ToReservationResponse(res)})
}

// updateReservation godoc
// @Summary Update a reservation
// @Description Partially updates a reservation; only the fields present in the body change.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservationID path int true "Reservation ID"
// @Param reservation body dto.UpdateReservationRequest true "Fields to update"
// @Success 200 {object} dto.ReservationEnvelope
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Reservation not found"
// @Failure 500 {object} map[string]string "Failed to update reservation"
// @Router /api/reservations/{reservationID} [patch]
func (h *reservationHandler) updateReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := reservationIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.reservationService.UpdateReservation(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update reservation")
		return
	}

	c.JSON(http.StatusOK, dto.ReservationEnvelope{
		Success: true,
		Data:    dto.ToReservationResponse(updated),
		Message: "Reservation updated",
	})
}

// deleteReservation godoc
// @Summary Delete a reservation
// @Tags reservations
// @Produce json
// @Param reservationID path int true "Reservation ID"
// @Success 200 {object} dto.ReservationEnvelope "The deleted reservation"
// @Failure 400 {object} map[string]string "Invalid reservation ID"
// @Failure 404 {object} map[string]string "Reservation not found"
// @Failure 500 {object} map[string]string "Failed to delete reservation"
// @Router /api/reservations/{reservationID} [delete]
func (h *reservationHandler) deleteReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := reservationIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.reservationService.DeleteReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to delete reservation")
		return
	}

	c.JSON(http.StatusOK, dto.ReservationEnvelope{
		Success: true,
		Data:    dto.ToReservationResponse(deleted),
		Message: "Reservation deleted",
	})
}

func reservationIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("reservationID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return 0, false
	}
	return id, true
}
