package dto

import (
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
)

// ListReservationsParams defines the query parameters for listing reservations.
type ListReservationsParams struct {
	Type      string `form:"type"`
	Target    string `form:"target"`
	Email     string `form:"email"`
	Session   string `form:"session"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	SortBy    string `form:"sort_by,default=time" binding:"oneof=time type target session emailaddress id"`
	SortOrder string `form:"sort_order,default=desc" binding:"oneof=asc desc"`
}

// CreateReservationRequest defines the structure for creating a reservation.
// Time is optional; RFC 3339 or a zone-less local time interpreted in the configured zone.
type CreateReservationRequest struct {
	Type         string `json:"type" binding:"required"`
	Target       string `json:"target" binding:"required"`
	EmailAddress string `json:"emailaddress" binding:"required,email"`
	Session      string `json:"session" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	Time         string `json:"time"`
}

// UpdateReservationRequest defines the structure for a partial reservation update.
type UpdateReservationRequest struct {
	Type         *string `json:"type" binding:"omitempty,min=1"`
	Target       *string `json:"target" binding:"omitempty,min=1"`
	EmailAddress *string `json:"emailaddress" binding:"omitempty,email"`
	Session      *string `json:"session" binding:"omitempty,min=1"`
	Reason       *string `json:"reason" binding:"omitempty,min=1"`
	Time         *string `json:"time"`
}

// ReservationResponse defines the structure for API responses containing reservation details.
type ReservationResponse struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Target       string    `json:"target"`
	EmailAddress string    `json:"emailaddress"`
	Session      string    `json:"session"`
	Reason       string    `json:"reason"`
	Time         time.Time `json:"time"`
}

// ToReservationResponse converts a domain.Reservation to ReservationResponse DTO
func ToReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		Type:         r.Type,
		Target:       r.Target,
		EmailAddress: r.EmailAddress,
		Session:      r.Session,
		Reason:       r.Reason,
		Time:         r.Time,
	}
}

// ReservationEnvelope wraps a single reservation.
type ReservationEnvelope struct {
	Success bool                `json:"success"`
	Data    ReservationResponse `json:"data"`
	Message string              `json:"message,omitempty"`
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ListReservationsResponse is one page of reservations.
type ListReservationsResponse struct {
	Success    bool                  `json:"success"`
	Data       []ReservationResponse `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// ToListReservationsResponse converts a page of reservations to its response DTO.
func ToListReservationsResponse(page *domain.ReservationPage, pageNumber, limit int) ListReservationsResponse {
	data := make([]ReservationResponse, len(page.Reservations))
	for i := range page.Reservations {
		data[i] = ToReservationResponse(&page.Reservations[i])
	}
	offset := (pageNumber - 1) * limit
	pages := 0
	if limit > 0 {
		pages = (page.Total + limit - 1) / limit
	}
	return ListReservationsResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:   page.Total,
			Page:    pageNumber,
			Limit:   limit,
			Pages:   pages,
			HasNext: offset+limit < page.Total,
			HasPrev: pageNumber > 1,
		},
	}
}
