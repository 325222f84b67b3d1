package providers

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
)

// RateSource fetches published daily exchange rates from an external API.
type RateSource interface {
	// Validate checks that the source is configured well enough to be called.
	Validate() error

	// FetchRates returns the rates published for date. An empty slice means
	// nothing was published (non-trading day).
	FetchRates(ctx context.Context, date time.Time) ([]domain.SourceRate, error)
}
