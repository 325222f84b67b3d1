package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a quote currency tracked against KRW.
type Currency string

// Supported currencies. JPY100 is the yen rate per 100 units.
const (
	CurrencyUSD    Currency = "USD"
	CurrencyEUR    Currency = "EUR"
	CurrencyJPY100 Currency = "JPY100"
	CurrencyCNH    Currency = "CNH"
)

// SupportedCurrencies lists the fixed set of currencies in output order.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyJPY100, CurrencyCNH}

// RateRecord holds one calendar date's rates. A null rate means the rate was
// not published for that date.
type RateRecord struct {
	Date   time.Time           `json:"date"` // Unique key, midnight UTC
	USD    decimal.NullDecimal `json:"usd"`
	EUR    decimal.NullDecimal `json:"eur"`
	JPY100 decimal.NullDecimal `json:"jpy100"`
	CNH    decimal.NullDecimal `json:"cnh"`
}

// Rate returns the rate for c, or a null decimal for an unknown currency.
func (r RateRecord) Rate(c Currency) decimal.NullDecimal {
	switch c {
	case CurrencyUSD:
		return r.USD
	case CurrencyEUR:
		return r.EUR
	case CurrencyJPY100:
		return r.JPY100
	case CurrencyCNH:
		return r.CNH
	}
	return decimal.NullDecimal{}
}

// SetRate stores v for c. Unknown currencies are ignored.
func (r *RateRecord) SetRate(c Currency, v decimal.NullDecimal) {
	switch c {
	case CurrencyUSD:
		r.USD = v
	case CurrencyEUR:
		r.EUR = v
	case CurrencyJPY100:
		r.JPY100 = v
	case CurrencyCNH:
		r.CNH = v
	}
}

// SourceRate is a single currency row exactly as the upstream rate API returned it.
type SourceRate struct {
	CurrencyUnit string // e.g. "USD", "JPY(100)"
	Rate         string // e.g. "1,385.5"
}
