package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/apperrors"
	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/shopspring/decimal"
)

// Request window limits for GET /rates.
const (
	DefaultWebDays  = 14
	DefaultChatDays = 2
	MinRequestDays  = 1
	MaxRequestDays  = 100
)

const rateDecimalPlaces = 2

var hundred = decimal.NewFromInt(100)

// RatePresenter reads stored rates and shapes them for clients.
type RatePresenter struct {
	BaseService
	rateRepo portsrepo.RateReader
	syncer   portssvc.RateSyncSvc
	location *time.Location
	now      func() time.Time
}

// RatePresenterOption is a functional option for configuring RatePresenter
type RatePresenterOption func(*RatePresenter)

// WithSelfHealingSync makes reads trigger one sync run when the latest business day is missing.
func WithSelfHealingSync(syncer portssvc.RateSyncSvc) RatePresenterOption {
	return func(p *RatePresenter) {
		p.syncer = syncer
	}
}

// WithPresenterClock overrides the clock used to determine "today".
func WithPresenterClock(now func() time.Time) RatePresenterOption {
	return func(p *RatePresenter) {
		p.now = now
	}
}

// NewRatePresenter creates a new RatePresenter. "Today" is evaluated in location.
func NewRatePresenter(rateRepo portsrepo.RateReader, location *time.Location, opts ...RatePresenterOption) *RatePresenter {
	if location == nil {
		location = time.UTC
	}
	p := &RatePresenter{
		rateRepo: rateRepo,
		location: location,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ portssvc.RateReaderSvc = (*RatePresenter)(nil)

// GetRates validates the request before touching storage, then renders the requested format.
func (p *RatePresenter) GetRates(ctx context.Context, format string, days *int) (*domain.WebRatesView, *domain.ComparisonView, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var n int
	switch format {
	case "":
		return nil, nil, apperrors.NewValidationError("format parameter is required ('web' or 'chat')")
	case domain.RateFormatWeb:
		n = DefaultWebDays
	case domain.RateFormatChat:
		n = DefaultChatDays
	default:
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unsupported format %q, use 'web' or 'chat'", format))
	}
	if days != nil {
		n = *days
	}
	if err := validateDays(n); err != nil {
		return nil, nil, err
	}

	if format == domain.RateFormatWeb {
		view, err := p.GetWebRates(ctx, n)
		return view, nil, err
	}
	view, err := p.GetChatRates(ctx, n)
	return nil, view, err
}

// GetWebRates returns the stored records of the last days business days.
func (p *RatePresenter) GetWebRates(ctx context.Context, days int) (*domain.WebRatesView, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}
	records, err := p.loadRecords(ctx, days)
	if err != nil {
		return nil, err
	}
	view := FormatWeb(records, days)
	return &view, nil
}

// GetChatRates compares the two newest stored records of the last days business days.
func (p *RatePresenter) GetChatRates(ctx context.Context, days int) (*domain.ComparisonView, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}
	records, err := p.loadRecords(ctx, days)
	if err != nil {
		return nil, err
	}
	return FormatChat(records, days)
}

// GetRateHealth reports storage reachability, the latest date and the record count.
// Storage errors are reported in the result rather than returned.
func (p *RatePresenter) GetRateHealth(ctx context.Context) (*domain.RateHealth, error) {
	health := &domain.RateHealth{}
	if err := p.rateRepo.Ping(ctx); err != nil {
		p.LogWarn(ctx, "Rate storage health check failed", slog.String("error", err.Error()))
		health.StorageError = err.Error()
		return health, nil
	}
	health.StorageReachable = true

	latest, found, err := p.rateRepo.FindLatestRateDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest rate date: %w", err)
	}
	if found {
		health.LatestDate = &latest
	}
	total, err := p.rateRepo.CountRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rate records: %w", err)
	}
	health.TotalRecords = total
	return health, nil
}

// loadRecords reads the window of business days ending today, newest first.
func (p *RatePresenter) loadRecords(ctx context.Context, days int) ([]domain.RateRecord, error) {
	dates, err := businessday.Back(businessday.Today(p.now(), p.location), days)
	if err != nil {
		return nil, err
	}
	records, err := p.rateRepo.FindRatesByDates(ctx, dates)
	if err != nil {
		p.LogError(ctx, err, "Failed to read stored rates")
		return nil, fmt.Errorf("failed to read stored rates: %w", err)
	}

	if p.syncer != nil && !containsDate(records, dates[0]) {
		p.LogInfo(ctx, "Latest business day missing from storage, running sync",
			slog.String("date", businessday.Format(dates[0])))
		result := p.syncer.Sync(ctx)
		if !result.Success {
			return nil, apperrors.NewUpstreamError("rate sync before read failed", errors.New(result.Error))
		}
		records, err = p.rateRepo.FindRatesByDates(ctx, dates)
		if err != nil {
			p.LogError(ctx, err, "Failed to re-read stored rates after sync")
			return nil, fmt.Errorf("failed to read stored rates: %w", err)
		}
	}

	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError("no exchange rate data for the requested period")
	}
	sortNewestFirst(records)
	return records, nil
}

// FormatWeb renders records as a flat listing, newest first. Null rates become zero.
func FormatWeb(records []domain.RateRecord, requestedDays int) domain.WebRatesView {
	sorted := slices.Clone(records)
	sortNewestFirst(sorted)

	view := domain.WebRatesView{
		Rows:          make([]domain.WebRateRow, 0, len(sorted)),
		RequestedDays: requestedDays,
	}
	for _, r := range sorted {
		row := domain.WebRateRow{Date: r.Date, Rates: make(map[domain.Currency]decimal.Decimal, len(domain.SupportedCurrencies))}
		for _, c := range domain.SupportedCurrencies {
			row.Rates[c] = valueOrZero(r.Rate(c))
		}
		view.Rows = append(view.Rows, row)
	}
	if len(sorted) > 0 {
		view.LatestDate = sorted[0].Date
	}
	return view
}

// FormatChat compares the newest record against the one before it.
// It requires at least two records.
func FormatChat(records []domain.RateRecord, requestedDays int) (*domain.ComparisonView, error) {
	if len(records) < 2 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("need at least 2 days of data to compare rates, found %d; try a larger days value", len(records)))
	}
	sorted := slices.Clone(records)
	sortNewestFirst(sorted)
	today, yesterday := sorted[0], sorted[1]

	view := &domain.ComparisonView{
		Today:         today.Date,
		Yesterday:     yesterday.Date,
		Currencies:    make(map[domain.Currency]domain.CurrencyComparison, len(domain.SupportedCurrencies)),
		RequestedDays: requestedDays,
	}
	for _, c := range domain.SupportedCurrencies {
		view.Currencies[c] = CompareRates(today.Rate(c), yesterday.Rate(c))
	}
	return view, nil
}

// CompareRates returns today's rate and the percent change from yesterday, both rounded
// to two places. The trend is zero when either side is null or yesterday is zero.
func CompareRates(today, yesterday decimal.NullDecimal) domain.CurrencyComparison {
	if !today.Valid {
		return domain.CurrencyComparison{Rate: decimal.Zero, Trend: decimal.Zero}
	}
	cmp := domain.CurrencyComparison{Rate: today.Decimal.Round(rateDecimalPlaces), Trend: decimal.Zero}
	if !yesterday.Valid || yesterday.Decimal.IsZero() {
		return cmp
	}
	cmp.Trend = today.Decimal.Sub(yesterday.Decimal).
		Div(yesterday.Decimal).
		Mul(hundred).
		Round(rateDecimalPlaces)
	return cmp
}

func validateDays(days int) error {
	if days < MinRequestDays || days > MaxRequestDays {
		return apperrors.NewValidationError(
			fmt.Sprintf("days must be between %d and %d, got %d", MinRequestDays, MaxRequestDays, days))
	}
	return nil
}

func valueOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

func containsDate(records []domain.RateRecord, date time.Time) bool {
	want := businessday.DateOf(date)
	for _, r := range records {
		if businessday.DateOf(r.Date).Equal(want) {
			return true
		}
	}
	return false
}

func sortNewestFirst(records []domain.RateRecord) {
	slices.SortFunc(records, func(a, b domain.RateRecord) int { return b.Date.Compare(a.Date) })
}
