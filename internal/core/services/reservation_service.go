package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/dto"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
)

const (
	defaultReservationLimit = 20
	maxReservationLimit     = 100
)

// Layouts accepted for reservation times that carry no zone offset.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

var reservationSortColumns = map[string]struct{}{
	"id": {}, "time": {}, "type": {}, "target": {}, "session": {}, "emailaddress": {},
}

// ReservationService provides business logic for reservations.
type ReservationService struct {
	BaseService
	reservationRepo portsrepo.ReservationRepositoryFacade
	location        *time.Location
	now             func() time.Time
}

// NewReservationService creates a new ReservationService. Zone-less times are read in location.
func NewReservationService(reservationRepo portsrepo.ReservationRepositoryFacade, location *time.Location) *ReservationService {
	if location == nil {
		location = time.UTC
	}
	return &ReservationService{
		reservationRepo: reservationRepo,
		location:        location,
		now:             time.Now,
	}
}

var _ portssvc.ReservationSvcFacade = (*ReservationService)(nil)

// ListReservations returns one filtered, sorted page of reservations.
func (s *ReservationService) ListReservations(ctx context.Context, params dto.ListReservationsParams) (*domain.ReservationPage, error) {
	query, err := s.buildQuery(params)
	if err != nil {
		return nil, err
	}
	page, err := s.reservationRepo.ListReservations(ctx, query)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reservations")
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return page, nil
}

// GetReservation retrieves a reservation by its ID.
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("reservation id must be positive")
	}
	return s.reservationRepo.FindReservationByID(ctx, id)
}

// CreateReservation stores a new reservation. A missing time defaults to now.
func (s *ReservationService) CreateReservation(ctx context.Context, req dto.CreateReservationRequest) (*domain.Reservation, error) {
	reservation := domain.Reservation{
		Type:         strings.TrimSpace(req.Type),
		Target:       strings.TrimSpace(req.Target),
		EmailAddress: strings.TrimSpace(req.EmailAddress),
		Session:      strings.TrimSpace(req.Session),
		Reason:       strings.TrimSpace(req.Reason),
		Time:         s.now().In(s.location),
	}
	if reservation.Type == "" || reservation.Target == "" || reservation.EmailAddress == "" ||
		reservation.Session == "" || reservation.Reason == "" {
		return nil, apperrors.NewValidationError("type, target, emailaddress, session and reason are required")
	}
	if strings.TrimSpace(req.Time) != "" {
		t, err := s.parseTime(req.Time)
		if err != nil {
			return nil, err
		}
		reservation.Time = t
	}

	created, err := s.reservationRepo.CreateReservation(ctx, reservation)
	if err != nil {
		s.LogError(ctx, err, "Failed to create reservation", slog.String("target", reservation.Target))
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	s.LogInfo(ctx, "Reservation created", slog.Int64("reservation_id", created.ID))
	return created, nil
}

// UpdateReservation applies a partial update. At least one field must be set.
func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, req dto.UpdateReservationRequest) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("reservation id must be positive")
	}
	patch := domain.ReservationPatch{
		Type:         trimmedOrNil(req.Type),
		Target:       trimmedOrNil(req.Target),
		EmailAddress: trimmedOrNil(req.EmailAddress),
		Session:      trimmedOrNil(req.Session),
		Reason:       trimmedOrNil(req.Reason),
	}
	if req.Time != nil && strings.TrimSpace(*req.Time) != "" {
		t, err := s.parseTime(*req.Time)
		if err != nil {
			return nil, err
		}
		patch.Time = &t
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	updated, err := s.reservationRepo.UpdateReservation(ctx, id, patch)
	if err != nil {
		s.LogError(ctx, err, "Failed to update reservation", slog.Int64("reservation_id", id))
		return nil, fmt.Errorf("failed to update reservation %d: %w", id, err)
	}
	return updated, nil
}

// DeleteReservation removes a reservation and returns what was deleted.
func (s *ReservationService) DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("reservation id must be positive")
	}
	deleted, err := s.reservationRepo.DeleteReservation(ctx, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete reservation", slog.Int64("reservation_id", id))
		return nil, fmt.Errorf("failed to delete reservation %d: %w", id, err)
	}
	s.LogInfo(ctx, "Reservation deleted", slog.Int64("reservation_id", id))
	return deleted, nil
}

func (s *ReservationService) buildQuery(params dto.ListReservationsParams) (domain.ReservationQuery, error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	limit := params.Limit
	if limit == 0 {
		limit = defaultReservationLimit
	}
	if page < 1 || limit < 1 || limit > maxReservationLimit {
		return domain.ReservationQuery{}, apperrors.NewValidationError(
			fmt.Sprintf("page must be at least 1 and limit between 1 and %d", maxReservationLimit))
	}

	sortBy := strings.ToLower(params.SortBy)
	if sortBy == "" {
		sortBy = "time"
	}
	if _, ok := reservationSortColumns[sortBy]; !ok {
		return domain.ReservationQuery{}, apperrors.NewValidationError(fmt.Sprintf("cannot sort by %q", params.SortBy))
	}
	sortOrder := strings.ToLower(params.SortOrder)
	if sortOrder == "" {
		sortOrder = "desc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return domain.ReservationQuery{}, apperrors.NewValidationError("sort_order must be 'asc' or 'desc'")
	}

	query := domain.ReservationQuery{
		Filter: domain.ReservationFilter{
			Type:    strings.TrimSpace(params.Type),
			Target:  strings.TrimSpace(params.Target),
			Email:   strings.TrimSpace(params.Email),
			Session: strings.TrimSpace(params.Session),
		},
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	if params.DateFrom != "" {
		from, _, err := s.parseBound(params.DateFrom)
		if err != nil {
			return domain.ReservationQuery{}, err
		}
		query.Filter.From = &from
	}
	if params.DateTo != "" {
		to, dateOnly, err := s.parseBound(params.DateTo)
		if err != nil {
			return domain.ReservationQuery{}, err
		}
		// A plain date includes the whole day.
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		}
		query.Filter.Until = &to
	}
	if query.Filter.From != nil && query.Filter.Until != nil && !query.Filter.From.Before(*query.Filter.Until) {
		return domain.ReservationQuery{}, apperrors.NewValidationError("date_from must be before date_to")
	}
	return query, nil
}

// parseBound accepts a plain date or a full timestamp.
func (s *ReservationService) parseBound(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseInLocation(businessday.DateLayout, raw, s.location); err == nil {
		return d, true, nil
	}
	t, err := s.parseTime(raw)
	return t, false, err
}

// parseTime accepts RFC 3339 or a zone-less local time in the configured location.
func (s *ReservationService) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(s.location), nil
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, s.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid time %q, use RFC 3339 or YYYY-MM-DDTHH:MM:SS", raw))
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
