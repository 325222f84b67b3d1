package services

import (
	"context"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
)

// ReservationReaderSvc defines read operations for reservations
type ReservationReaderSvc interface {
	ListReservations(ctx context.Context, params dto.ListReservationsParams) (*domain.ReservationPage, error)
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
}

// ReservationWriterSvc defines write operations for reservations
type ReservationWriterSvc interface {
	CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, req dto.UpdateReservationRequest) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error)
}

// ReservationSvcFacade combines all reservation service interfaces
type ReservationSvcFacade interface {
	ReservationReaderSvc
	ReservationWriterSvc
}
