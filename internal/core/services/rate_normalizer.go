package services

import (
	"strings"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/shopspring/decimal"
)

// sourceUnitAliases maps upstream currency units that differ from our codes.
var sourceUnitAliases = map[string]domain.Currency{
	"JPY(100)": domain.CurrencyJPY100,
}

// NormalizeRates converts an upstream payload into a fixed-shape record for
// date. Currencies that are absent, unsupported or unparseable stay null.
func NormalizeRates(date time.Time, payload []domain.SourceRate) domain.RateRecord {
	record := domain.RateRecord{Date: businessday.DateOf(date)}
	for _, item := range payload {
		currency, ok := currencyForUnit(item.CurrencyUnit)
		if !ok {
			continue
		}
		rate, err := parseSourceRate(item.Rate)
		if err != nil {
			continue
		}
		record.SetRate(currency, decimal.NewNullDecimal(rate))
	}
	return record
}

func currencyForUnit(unit string) (domain.Currency, bool) {
	unit = strings.TrimSpace(unit)
	if c, ok := sourceUnitAliases[unit]; ok {
		return c, true
	}
	for _, c := range domain.SupportedCurrencies {
		if string(c) == unit {
			return c, true
		}
	}
	return "", false
}

// parseSourceRate parses thousands-separated decimal strings such as "1,385.50".
func parseSourceRate(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return decimal.NewFromString(cleaned)
}
