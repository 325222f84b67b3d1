package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/shopspring/decimal"
)

// rateRow is the JSON shape of one row of the exchange rates table.
type rateRow struct {
	Date   string              `json:"date"`
	USD    decimal.NullDecimal `json:"usd"`
	EUR    decimal.NullDecimal `json:"eur"`
	JPY100 decimal.NullDecimal `json:"jpy100"`
	CNH    decimal.NullDecimal `json:"cnh"`
}

func toRateRow(r domain.RateRecord) rateRow {
	return rateRow{
		Date:   businessday.Format(r.Date),
		USD:    r.USD,
		EUR:    r.EUR,
		JPY100: r.JPY100,
		CNH:    r.CNH,
	}
}

func (r rateRow) toDomain() (domain.RateRecord, error) {
	d, err := businessday.Parse(r.Date)
	if err != nil {
		return domain.RateRecord{}, fmt.Errorf("%w: stored rate row has invalid date %q", apperrors.ErrUpstream, r.Date)
	}
	return domain.RateRecord{Date: d, USD: r.USD, EUR: r.EUR, JPY100: r.JPY100, CNH: r.CNH}, nil
}

func rowsToDomain(rows []rateRow) ([]domain.RateRecord, error) {
	records := make([]domain.RateRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// RateRepository stores exchange rates in a PostgREST table.
type RateRepository struct {
	client *Client
	table  string
}

// NewRateRepository creates a new rate repository for table.
func NewRateRepository(client *Client, table string) *RateRepository {
	return &RateRepository{client: client, table: table}
}

var _ portsrepo.RateRepositoryFacade = (*RateRepository)(nil)

// Ping checks that PostgREST is reachable.
func (r *RateRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// FindLatestRateDate returns the most recent stored date.
func (r *RateRepository) FindLatestRateDate(ctx context.Context) (time.Time, bool, error) {
	var rows []rateRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodGet,
		table:  r.table,
		query:  url.Values{"select": {"date"}, "order": {"date.desc"}, "limit": {"1"}},
	}, &rows)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest rate date: %w", err)
	}
	if len(rows) == 0 {
		return time.Time{}, false, nil
	}
	rec, err := rows[0].toDomain()
	if err != nil {
		return time.Time{}, false, err
	}
	return rec.Date, true, nil
}

// FindRatesByDates returns the stored records for dates, newest first, in one request.
func (r *RateRepository) FindRatesByDates(ctx context.Context, dates []time.Time) ([]domain.RateRecord, error) {
	if len(dates) == 0 {
		return []domain.RateRecord{}, nil
	}
	var rows []rateRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodGet,
		table:  r.table,
		query: url.Values{
			"date":  {inFilter(businessday.FormatAll(dates))},
			"order": {"date.desc"},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates by date: %w", err)
	}
	return rowsToDomain(rows)
}

// CountRates returns the number of stored records using an exact count.
func (r *RateRepository) CountRates(ctx context.Context) (int, error) {
	header, err := r.client.doJSON(ctx, request{
		method: http.MethodGet,
		table:  r.table,
		query:  url.Values{"select": {"date"}, "limit": {"1"}},
		prefer: []string{preferCountExact},
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count rates: %w", err)
	}
	return totalFromContentRange(header)
}

// InsertRates creates all records with a single POST.
func (r *RateRepository) InsertRates(ctx context.Context, records []domain.RateRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	rows := make([]rateRow, len(records))
	for i, rec := range records {
		rows[i] = toRateRow(rec)
	}
	var created []rateRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodPost,
		table:  r.table,
		body:   rows,
		prefer: []string{preferReturnRepresentation},
	}, &created)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %d rate records: %w", len(records), err)
	}
	return len(created), nil
}

// UpdateRate overwrites the rates stored for record.Date.
func (r *RateRepository) UpdateRate(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	row := toRateRow(record)
	var updated []rateRow
	_, err := r.client.doJSON(ctx, request{
		method: http.MethodPatch,
		table:  r.table,
		query:  url.Values{"date": {"eq." + row.Date}},
		body:   row,
		prefer: []string{preferReturnRepresentation},
	}, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update rates for %s: %w", row.Date, err)
	}
	if len(updated) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no rate record for %s", row.Date))
	}
	rec, err := updated[0].toDomain()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
