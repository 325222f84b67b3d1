package services_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// kst avoids depending on the tzdata of the machine running the tests.
var kst = time.FixedZone("KST", 9*60*60)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func rate(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func usdPayload(usd string) []domain.SourceRate {
	return []domain.SourceRate{
		{CurrencyUnit: "USD", Rate: usd},
		{CurrencyUnit: "EUR", Rate: "1,500.25"},
		{CurrencyUnit: "JPY(100)", Rate: "905.1"},
		{CurrencyUnit: "CNH", Rate: "190.3"},
	}
}

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindLatestRateDate(ctx context.Context) (time.Time, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *MockRateRepository) FindRatesByDates(ctx context.Context, dates []time.Time) ([]domain.RateRecord, error) {
	args := m.Called(ctx, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) CountRates(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRateRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRateRepository) InsertRates(ctx context.Context, records []domain.RateRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockRateRepository) UpdateRate(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRateSource) FetchRates(ctx context.Context, d time.Time) ([]domain.SourceRate, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceRate), args.Error(1)
}

// --- Mock RateSyncSvc ---
type MockRateSyncService struct {
	mock.Mock
}

func (m *MockRateSyncService) Sync(ctx context.Context) *domain.SyncRunResult {
	args := m.Called(ctx)
	return args.Get(0).(*domain.SyncRunResult)
}

func (m *MockRateSyncService) Execute(ctx context.Context, plan domain.SyncPlan) *domain.SyncRunResult {
	args := m.Called(ctx, plan)
	return args.Get(0).(*domain.SyncRunResult)
}

// --- Mock ReservationRepository ---
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) ListReservations(ctx context.Context, query domain.ReservationQuery) (*domain.ReservationPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReservationPage), args.Error(1)
}

func (m *MockReservationRepository) FindReservationByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, reservation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateReservation(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) DeleteReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

// memoryRateRepository is an in-memory rate store keyed by date.
type memoryRateRepository struct {
	mu      sync.Mutex
	records map[string]domain.RateRecord
}

func newMemoryRateRepository() *memoryRateRepository {
	return &memoryRateRepository{records: map[string]domain.RateRecord{}}
}

func (r *memoryRateRepository) FindLatestRateDate(_ context.Context) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest time.Time
	for _, rec := range r.records {
		if rec.Date.After(latest) {
			latest = rec.Date
		}
	}
	return latest, len(r.records) > 0, nil
}

func (r *memoryRateRepository) FindRatesByDates(_ context.Context, dates []time.Time) ([]domain.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RateRecord
	for _, d := range dates {
		if rec, ok := r.records[businessday.Format(d)]; ok {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b domain.RateRecord) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (r *memoryRateRepository) CountRates(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *memoryRateRepository) Ping(_ context.Context) error { return nil }

func (r *memoryRateRepository) InsertRates(_ context.Context, records []domain.RateRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		if _, ok := r.records[businessday.Format(rec.Date)]; ok {
			return 0, apperrors.ErrDuplicate
		}
	}
	for _, rec := range records {
		r.records[businessday.Format(rec.Date)] = rec
	}
	return len(records), nil
}

func (r *memoryRateRepository) UpdateRate(_ context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := businessday.Format(record.Date)
	if _, ok := r.records[key]; !ok {
		return nil, apperrors.ErrNotFound
	}
	r.records[key] = record
	return &record, nil
}

// staticRateSource answers every date with the same payload.
type staticRateSource struct {
	payload []domain.SourceRate
	calls   int
}

func (s *staticRateSource) Validate() error { return nil }

func (s *staticRateSource) FetchRates(_ context.Context, _ time.Time) ([]domain.SourceRate, error) {
	s.calls++
	return s.payload, nil
}
