package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/services"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSync(t *testing.T) {
	monday := date(2024, 3, 18)
	thursday := date(2024, 3, 14)

	tests := []struct {
		name   string
		latest *time.Time
		today  time.Time
		want   []string
	}{
		{"latest is today", &monday, monday, nil},
		{"latest after today", ptrTime(monday.AddDate(0, 0, 1)), monday, nil},
		{"gap over a weekend", &thursday, monday, []string{"2024-03-15", "2024-03-18"}},
		{"weekend only gap", ptrTime(date(2024, 3, 15)), date(2024, 3, 17), nil},
		{"one business day", ptrTime(date(2024, 3, 15)), monday, []string{"2024-03-18"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := services.PlanSync(tt.latest, tt.today)
			if diff := cmp.Diff(tt.want, nilIfEmpty(businessday.FormatAll(plan.MissingDates))); diff != "" {
				t.Errorf("missing dates mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, plan.HasStored)
			assert.Equal(t, tt.today, plan.Today)
		})
	}
}

func TestPlanSync_EmptyStorageBackfills(t *testing.T) {
	today := date(2024, 3, 18)

	plan := services.PlanSync(nil, today)

	assert.False(t, plan.HasStored)
	assert.Equal(t, today.AddDate(0, 0, -100), plan.LatestStored)
	require.NotEmpty(t, plan.MissingDates)
	assert.Equal(t, today, plan.MissingDates[len(plan.MissingDates)-1])
	assert.True(t, plan.MissingDates[0].After(plan.LatestStored))
	// 100 calendar days span roughly 71 weekdays.
	assert.InDelta(t, 71, len(plan.MissingDates), 2)
}

func TestPlanSync_Properties(t *testing.T) {
	today := date(2024, 3, 20) // Wednesday
	for offset := -10; offset <= 40; offset++ {
		latest := today.AddDate(0, 0, -offset)
		plan := services.PlanSync(&latest, today)

		if !latest.Before(today) {
			assert.Empty(t, plan.MissingDates, "latest %s", businessday.Format(latest))
			continue
		}
		assert.NotEmpty(t, plan.MissingDates, "weekday today must be planned after %s", businessday.Format(latest))
		for i, d := range plan.MissingDates {
			assert.True(t, businessday.IsBusinessDay(d))
			assert.True(t, d.After(latest) && !d.After(today))
			if i > 0 {
				assert.True(t, d.After(plan.MissingDates[i-1]), "dates must be strictly ascending")
			}
		}
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
