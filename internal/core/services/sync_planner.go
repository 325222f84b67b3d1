package services

import (
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
)

// initialBackfillDays bounds the first sync against empty storage.
const initialBackfillDays = 100

// PlanSync computes the business days after latest up to and including today.
// A nil latest means storage is empty; the plan then starts initialBackfillDays
// before today. The plan is empty when latest is today or later.
func PlanSync(latest *time.Time, today time.Time) domain.SyncPlan {
	today = businessday.DateOf(today)
	plan := domain.SyncPlan{Today: today}
	if latest != nil {
		plan.LatestStored = businessday.DateOf(*latest)
		plan.HasStored = true
	} else {
		plan.LatestStored = today.AddDate(0, 0, -initialBackfillDays)
	}
	if !plan.LatestStored.Before(today) {
		return plan
	}
	plan.MissingDates = businessday.Between(plan.LatestStored, today)
	return plan
}
