package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentation formats for stored rates.
const (
	RateFormatWeb  = "web"
	RateFormatChat = "chat"
)

// WebRateRow is one date of the flat web listing. Null rates are rendered as zero.
type WebRateRow struct {
	Date  time.Time
	Rates map[Currency]decimal.Decimal
}

// WebRatesView is the flat listing of stored rates, newest first.
type WebRatesView struct {
	Rows          []WebRateRow
	RequestedDays int
	LatestDate    time.Time
}

// CurrencyComparison is the rounded rate and percent change of one currency.
type CurrencyComparison struct {
	Rate  decimal.Decimal
	Trend decimal.Decimal
}

// ComparisonView compares the most recent business day against the one before it.
type ComparisonView struct {
	Today         time.Time
	Yesterday     time.Time
	Currencies    map[Currency]CurrencyComparison
	RequestedDays int
}

// RateHealth describes rate storage for the health endpoint.
type RateHealth struct {
	StorageReachable bool
	StorageError     string
	LatestDate       *time.Time
	TotalRecords     int
}
