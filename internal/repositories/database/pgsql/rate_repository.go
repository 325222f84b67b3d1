package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxRateRepository implements the rate repository ports using pgxpool.
type PgxRateRepository struct {
	BaseRepository
	table string
}

// NewPgxRateRepository creates a new PgxRateRepository over table.
func NewPgxRateRepository(db *pgxpool.Pool, table string) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
		table:          quoteTable(table),
	}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// Numerics are selected as text so that no precision is lost on the way to decimal.
const rateColumns = `date, usd::text, eur::text, jpy100::text, cnh::text`

// FindLatestRateDate returns the most recent stored date.
func (r *PgxRateRepository) FindLatestRateDate(ctx context.Context) (time.Time, bool, error) {
	var latest *time.Time
	err := r.Pool.QueryRow(ctx, `SELECT MAX(date) FROM `+r.table).Scan(&latest)
	if err != nil {
		return time.Time{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to query latest rate date", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return businessday.DateOf(*latest), true, nil
}

// FindRatesByDates returns the stored records for dates, newest first.
func (r *PgxRateRepository) FindRatesByDates(ctx context.Context, dates []time.Time) ([]domain.RateRecord, error) {
	if len(dates) == 0 {
		return []domain.RateRecord{}, nil
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT `+rateColumns+` FROM `+r.table+` WHERE date = ANY($1::date[]) ORDER BY date DESC`,
		businessday.FormatAll(dates),
	)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query rates by date", err)
	}
	defer rows.Close()

	records := []domain.RateRecord{}
	for rows.Next() {
		rec, err := scanRateRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating rate rows", err)
	}
	return records, nil
}

// CountRates returns the number of stored records.
func (r *PgxRateRepository) CountRates(ctx context.Context) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count rates", err)
	}
	return count, nil
}

// InsertRates inserts all records in one transaction; either all are stored or none.
func (r *PgxRateRepository) InsertRates(ctx context.Context, records []domain.RateRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `INSERT INTO ` + r.table + ` (date, usd, eur, jpy100, cnh) VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5::numeric)`
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, businessday.Format(rec.Date),
			numericArg(rec.USD), numericArg(rec.EUR), numericArg(rec.JPY100), numericArg(rec.CNH))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: rate record already stored: %w", apperrors.ErrDuplicate, err)
		}
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to insert rate records", err)
	}
	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return len(records), nil
}

// UpdateRate overwrites the rates stored for record.Date.
func (r *PgxRateRepository) UpdateRate(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	row := r.Pool.QueryRow(ctx,
		`UPDATE `+r.table+` SET usd = $2::numeric, eur = $3::numeric, jpy100 = $4::numeric, cnh = $5::numeric
		WHERE date = $1::date RETURNING `+rateColumns,
		businessday.Format(record.Date),
		numericArg(record.USD), numericArg(record.EUR), numericArg(record.JPY100), numericArg(record.CNH),
	)
	updated, err := scanRateRecord(row)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate record for %s", businessday.Format(record.Date)))
		}
		return nil, err
	}
	return &updated, nil
}

func scanRateRecord(row pgx.Row) (domain.RateRecord, error) {
	var (
		d                  time.Time
		usd, eur, jpy, cnh *string
	)
	if err := row.Scan(&d, &usd, &eur, &jpy, &cnh); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateRecord{}, apperrors.ErrNotFound
		}
		return domain.RateRecord{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan rate row", err)
	}
	rec := domain.RateRecord{Date: businessday.DateOf(d)}
	for c, raw := range map[domain.Currency]*string{
		domain.CurrencyUSD: usd, domain.CurrencyEUR: eur, domain.CurrencyJPY100: jpy, domain.CurrencyCNH: cnh,
	} {
		v, err := nullDecimalFromText(raw)
		if err != nil {
			return domain.RateRecord{}, apperrors.NewAppError(http.StatusInternalServerError, "stored rate is not a number", err)
		}
		rec.SetRate(c, v)
	}
	return rec, nil
}

func nullDecimalFromText(raw *string) (decimal.NullDecimal, error) {
	if raw == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// numericArg renders a nullable rate as a text query argument.
func numericArg(v decimal.NullDecimal) *string {
	if !v.Valid {
		return nil
	}
	s := v.Decimal.String()
	return &s
}
