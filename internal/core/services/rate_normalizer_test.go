package services_test

import (
	"testing"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRates(t *testing.T) {
	d := date(2024, 3, 15)
	payload := []domain.SourceRate{
		{CurrencyUnit: "USD", Rate: "1,385.5"},
		{CurrencyUnit: "EUR", Rate: "1,500.25"},
		{CurrencyUnit: "JPY(100)", Rate: "905.1"},
		{CurrencyUnit: " CNH ", Rate: "190.3"},
		{CurrencyUnit: "GBP", Rate: "1,750.00"},
	}

	record := services.NormalizeRates(d, payload)

	assert.Equal(t, d, record.Date)
	assert.True(t, record.USD.Valid)
	assert.Equal(t, "1385.5", record.USD.Decimal.String())
	assert.Equal(t, "1500.25", record.EUR.Decimal.String())
	assert.Equal(t, "905.1", record.JPY100.Decimal.String())
	assert.Equal(t, "190.3", record.CNH.Decimal.String())
}

func TestNormalizeRates_MissingAndMalformed(t *testing.T) {
	payload := []domain.SourceRate{
		{CurrencyUnit: "USD", Rate: "n/a"},
		{CurrencyUnit: "EUR", Rate: "1,500"},
	}

	record := services.NormalizeRates(date(2024, 3, 15), payload)

	assert.False(t, record.USD.Valid, "unparseable rate stays null")
	assert.True(t, record.EUR.Valid)
	assert.False(t, record.JPY100.Valid, "absent currency stays null")
	assert.False(t, record.CNH.Valid)
}

func TestNormalizeRates_EmptyPayload(t *testing.T) {
	record := services.NormalizeRates(date(2024, 3, 15), nil)

	for _, c := range domain.SupportedCurrencies {
		assert.False(t, record.Rate(c).Valid, c)
	}
}
