package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `id, type, target, emailaddress, session, reason, time`

// reservationSortColumns whitelists the columns a listing can be ordered by.
var reservationSortColumns = map[string]string{
	"id":           "id",
	"time":         "time",
	"type":         "type",
	"target":       "target",
	"session":      "session",
	"emailaddress": "emailaddress",
}

// PgxReservationRepository implements the reservation repository ports using pgxpool.
type PgxReservationRepository struct {
	BaseRepository
	table string
}

// NewPgxReservationRepository creates a new PgxReservationRepository over table.
func NewPgxReservationRepository(db *pgxpool.Pool, table string) *PgxReservationRepository {
	return &PgxReservationRepository{
		BaseRepository: BaseRepository{Pool: db},
		table:          quoteTable(table),
	}
}

var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

// ListReservations returns one filtered page plus the total number of matches.
func (r *PgxReservationRepository) ListReservations(ctx context.Context, query domain.ReservationQuery) (*domain.ReservationPage, error) {
	where, args := reservationWhere(query.Filter)

	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table+where, args...).Scan(&total); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to count reservations", err)
	}

	column, ok := reservationSortColumns[query.SortBy]
	if !ok {
		column = "time"
	}
	direction := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		direction = "ASC"
	}
	args = append(args, query.Limit, query.Offset)
	sql := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		reservationColumns, r.table, where, column, direction, direction, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list reservations", err)
	}
	defer rows.Close()

	page := &domain.ReservationPage{Reservations: []domain.Reservation{}, Total: total}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		page.Reservations = append(page.Reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating reservation rows", err)
	}
	return page, nil
}

// FindReservationByID retrieves a reservation by its id.
func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+reservationColumns+` FROM `+r.table+` WHERE id = $1`, id)
	return reservationOrNotFound(row, id)
}

// CreateReservation inserts a reservation and returns the stored row.
func (r *PgxReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) (*domain.Reservation, error) {
	row := r.Pool.QueryRow(ctx,
		`INSERT INTO `+r.table+` (type, target, emailaddress, session, reason, time)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+reservationColumns,
		res.Type, res.Target, res.EmailAddress, res.Session, res.Reason, res.Time,
	)
	created, err := scanReservation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: reservation already exists", apperrors.ErrDuplicate)
		}
		return nil, err
	}
	return &created, nil
}

// UpdateReservation sets the non-nil fields of patch.
func (r *PgxReservationRepository) UpdateReservation(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Target != nil {
		add("target", *patch.Target)
	}
	if patch.EmailAddress != nil {
		add("emailaddress", *patch.EmailAddress)
	}
	if patch.Session != nil {
		add("session", *patch.Session)
	}
	if patch.Reason != nil {
		add("reason", *patch.Reason)
	}
	if patch.Time != nil {
		add("time", *patch.Time)
	}
	if len(sets) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	args = append(args, id)
	row := r.Pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`, r.table, strings.Join(sets, ", "), len(args), reservationColumns),
		args...,
	)
	return reservationOrNotFound(row, id)
}

// DeleteReservation deletes a reservation and returns the deleted row.
func (r *PgxReservationRepository) DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.Pool.QueryRow(ctx, `DELETE FROM `+r.table+` WHERE id = $1 RETURNING `+reservationColumns, id)
	return reservationOrNotFound(row, id)
}

func reservationWhere(f domain.ReservationFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Target != "" {
		add("target = $%d", f.Target)
	}
	if f.Session != "" {
		add("session = $%d", f.Session)
	}
	if f.Email != "" {
		add("emailaddress ILIKE '%%' || $%d || '%%'", f.Email)
	}
	if f.From != nil {
		add("time >= $%d", *f.From)
	}
	if f.Until != nil {
		add("time < $%d", *f.Until)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func reservationOrNotFound(row pgx.Row, id int64) (*domain.Reservation, error) {
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation %d", id))
		}
		return nil, err
	}
	return &res, nil
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(&res.ID, &res.Type, &res.Target, &res.EmailAddress, &res.Session, &res.Reason, &res.Time)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.Reservation{}, err
		}
		return domain.Reservation{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan reservation row", err)
	}
	return res, nil
}
