package repositories

import (
	"context"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
)

// ReservationReader defines read operations for reservations
type ReservationReader interface {
	ListReservations(ctx context.Context, query domain.ReservationQuery) (*domain.ReservationPage, error)
	FindReservationByID(ctx context.Context, id int64) (*domain.Reservation, error)
}

// ReservationWriter defines write operations for reservations
type ReservationWriter interface {
	CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error)
}

// ReservationRepositoryFacade combines all reservation repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}
