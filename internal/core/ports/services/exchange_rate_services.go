package services

import (
	"context"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
)

// RateSyncSvc runs the fetch/normalize/write cycle against the rate source.
type RateSyncSvc interface {
	// Sync plans the run from the latest stored date and executes it.
	Sync(ctx context.Context) *domain.SyncRunResult

	// Execute runs an already computed plan.
	Execute(ctx context.Context, plan domain.SyncPlan) *domain.SyncRunResult
}

// RateReaderSvc renders stored rates for clients.
type RateReaderSvc interface {
	// GetRates validates format/days and dispatches to the matching view.
	// Exactly one of the returned views is non-nil on success.
	GetRates(ctx context.Context, format string, days *int) (*domain.WebRatesView, *domain.ComparisonView, error)

	// GetWebRates returns the flat listing of the last days business days.
	GetWebRates(ctx context.Context, days int) (*domain.WebRatesView, error)

	// GetChatRates compares the two most recent stored business days among the last days.
	GetChatRates(ctx context.Context, days int) (*domain.ComparisonView, error)

	// GetRateHealth reports on the state of rate storage.
	GetRateHealth(ctx context.Context) (*domain.RateHealth, error)
}
