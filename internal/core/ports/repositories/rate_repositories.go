package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
)

// RateReader defines read operations for stored exchange rates
type RateReader interface {
	// FindLatestRateDate returns the most recent stored date. found is false when storage is empty.
	FindLatestRateDate(ctx context.Context) (latest time.Time, found bool, err error)

	// FindRatesByDates returns the stored records whose date is in dates, newest first.
	FindRatesByDates(ctx context.Context, dates []time.Time) ([]domain.RateRecord, error)

	// CountRates returns the number of stored records.
	CountRates(ctx context.Context) (int, error)

	// Ping checks that the storage backend is reachable.
	Ping(ctx context.Context) error
}

// RateWriter defines write operations for stored exchange rates
type RateWriter interface {
	// InsertRates creates all records in a single batch and returns how many were created.
	InsertRates(ctx context.Context, records []domain.RateRecord) (int, error)

	// UpdateRate overwrites the rates of the record keyed by record.Date.
	// It returns apperrors.ErrNotFound when no record has that date.
	UpdateRate(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error)
}

// RateRepositoryFacade combines all rate repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
