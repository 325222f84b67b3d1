package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
)

// reservationRow is the JSON shape of one row of the reservation table.
type reservationRow struct {
	ID           int64     `json:"id,omitempty"`
	Type         string    `json:"type"`
	Target       string    `json:"target"`
	EmailAddress string    `json:"emailaddress"`
	Session      string    `json:"session"`
	Reason       string    `json:"reason"`
	Time         time.Time `json:"time"`
}

func (r reservationRow) toDomain() domain.Reservation {
	return domain.Reservation(r)
}

// filterValueReplacer strips characters with a meaning in PostgREST filter syntax.
var filterValueReplacer = strings.NewReplacer("*", "", ",", "", "(", "", ")", "")

// ReservationRepository stores reservations in a PostgREST table.
type ReservationRepository struct {
	client *Client
	table  string
}

// NewReservationRepository creates a new reservation repository for table.
func NewReservationRepository(client *Client, table string) *ReservationRepository {
	return &ReservationRepository{client: client, table: table}
}

var _ portsrepo.ReservationRepositoryFacade = (*ReservationRepository)(nil)

// ListReservations returns one filtered page plus the exact total.
func (r *ReservationRepository) ListReservations(ctx context.Context, query domain.ReservationQuery) (*domain.ReservationPage, error) {
	q := url.Values{}
	f := query.Filter
	if f.Type != "" {
		q.Set("type", "eq."+f.Type)
	}
	if f.Target != "" {
		q.Set("target", "eq."+f.Target)
	}
	if f.Session != "" {
		q.Set("session", "eq."+f.Session)
	}
	if f.Email != "" {
		q.Set("emailaddress", "ilike.*"+filterValueReplacer.Replace(f.Email)+"*")
	}
	if f.From != nil {
		q.Add("time", "gte."+f.From.Format(time.RFC3339))
	}
	if f.Until != nil {
		q.Add("time", "lt."+f.Until.Format(time.RFC3339))
	}
	q.Set("order", query.SortBy+"."+query.SortOrder)
	q.Set("limit", strconv.Itoa(query.Limit))
	q.Set("offset", strconv.Itoa(query.Offset))

	var rows []reservationRow
	header, err := r.client.doJSON(ctx, request{
		method: http.MethodGet,
		table:  r.table,
		query:  q,
		prefer: []string{preferCountExact},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}

	total, err := totalFromContentRange(header)
	if err != nil {
		// Fall back to what was returned when the count is not reported.
		total = query.Offset + len(rows)
	}
	page := &domain.ReservationPage{
		Reservations: make([]domain.Reservation, len(rows)),
		Total:        total,
	}
	for i, row := range rows {
		page.Reservations[i] = row.toDomain()
	}
	return page, nil
}

// FindReservationByID retrieves a reservation by its id.
func (r *ReservationRepository) FindReservationByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var rows []reservationRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodGet,
		table:  r.table,
		query:  url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservation %d: %w", id, err)
	}
	return firstReservation(rows, id)
}

// CreateReservation inserts a reservation and returns the stored row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	row := reservationRow(reservation)
	row.ID = 0
	var created []reservationRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodPost,
		table:  r.table,
		body:   row,
		prefer: []string{preferReturnRepresentation},
	}, &created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: insert returned no reservation", apperrors.ErrUpstream)
	}
	res := created[0].toDomain()
	return &res, nil
}

// UpdateReservation patches the non-nil fields of patch.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error) {
	body := map[string]any{}
	setIfPresent(body, "type", patch.Type)
	setIfPresent(body, "target", patch.Target)
	setIfPresent(body, "emailaddress", patch.EmailAddress)
	setIfPresent(body, "session", patch.Session)
	setIfPresent(body, "reason", patch.Reason)
	if patch.Time != nil {
		body["time"] = patch.Time.Format(time.RFC3339)
	}

	var rows []reservationRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodPatch,
		table:  r.table,
		query:  url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}},
		body:   body,
		prefer: []string{preferReturnRepresentation},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation %d: %w", id, err)
	}
	return firstReservation(rows, id)
}

// DeleteReservation deletes a reservation and returns the deleted row.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	var rows []reservationRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodDelete,
		table:  r.table,
		query:  url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}},
		prefer: []string{preferReturnRepresentation},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to delete reservation %d: %w", id, err)
	}
	return firstReservation(rows, id)
}

func firstReservation(rows []reservationRow, id int64) (*domain.Reservation, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation %d", id))
	}
	res := rows[0].toDomain()
	return &res, nil
}

func setIfPresent(body map[string]any, key string, v *string) {
	if v != nil {
		body[key] = *v
	}
}
