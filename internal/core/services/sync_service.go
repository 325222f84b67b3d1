package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/core/domain"
	"github.com/SscSPs/exchange_sync_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
)

// Step names reported in the sync progress log.
const (
	stepCheckPreconditions = "Check rate source configuration and storage connection"
	stepPlan               = "Determine missing business days"
	stepCheckExisting      = "Check existing records"
	stepFetchAndStore      = "Fetch rates and store records"
)

const noNewDataSummary = "No new data to update"

// SyncService runs the rate synchronization workflow.
type SyncService struct {
	BaseService
	rateRepo portsrepo.RateRepositoryFacade
	source   providers.RateSource
	location *time.Location
	now      func() time.Time
}

// SyncServiceOption is a functional option for configuring SyncService
type SyncServiceOption func(*SyncService)

// WithSyncClock overrides the clock used to determine "today".
func WithSyncClock(now func() time.Time) SyncServiceOption {
	return func(s *SyncService) {
		s.now = now
	}
}

// NewSyncService creates a new SyncService. "Today" is evaluated in location.
func NewSyncService(rateRepo portsrepo.RateRepositoryFacade, source providers.RateSource, location *time.Location, opts ...SyncServiceOption) *SyncService {
	if location == nil {
		location = time.UTC
	}
	s := &SyncService{
		rateRepo: rateRepo,
		source:   source,
		location: location,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RateSyncSvc = (*SyncService)(nil)

// Sync reads the latest stored date, plans the missing business days and executes the plan.
func (s *SyncService) Sync(ctx context.Context) (result *domain.SyncRunResult) {
	run := newSyncRun()
	defer run.recoverInto(&result)

	if !s.checkPreconditions(ctx, run) {
		return run.result
	}
	plan, ok := s.planFromStorage(ctx, run)
	if !ok {
		return run.result
	}
	s.apply(ctx, run, plan)
	return run.result
}

// Execute runs an already computed plan.
func (s *SyncService) Execute(ctx context.Context, plan domain.SyncPlan) (result *domain.SyncRunResult) {
	run := newSyncRun()
	defer run.recoverInto(&result)

	if !s.checkPreconditions(ctx, run) {
		return run.result
	}
	s.apply(ctx, run, plan)
	return run.result
}

func (s *SyncService) checkPreconditions(ctx context.Context, run *syncRun) bool {
	run.begin(stepCheckPreconditions)
	if err := s.source.Validate(); err != nil {
		s.LogError(ctx, err, "Rate source is not configured")
		run.abort(err)
		return false
	}
	if err := s.rateRepo.Ping(ctx); err != nil {
		s.LogError(ctx, err, "Rate storage is unreachable")
		run.abort(fmt.Errorf("storage connection failed: %w", err))
		return false
	}
	run.done("rate source configured and storage reachable")
	return true
}

func (s *SyncService) planFromStorage(ctx context.Context, run *syncRun) (domain.SyncPlan, bool) {
	run.begin(stepPlan)
	latest, found, err := s.rateRepo.FindLatestRateDate(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to read latest stored rate date")
		run.abort(fmt.Errorf("failed to read latest stored date: %w", err))
		return domain.SyncPlan{}, false
	}
	var latestPtr *time.Time
	if found {
		latestPtr = &latest
	}
	plan := PlanSync(latestPtr, businessday.Today(s.now(), s.location))

	latestLabel := "none"
	if plan.HasStored {
		latestLabel = businessday.Format(plan.LatestStored)
	}
	run.done(fmt.Sprintf("latest stored date: %s, business days to update: %d", latestLabel, len(plan.MissingDates)))
	return plan, true
}

// apply performs the existence check, the per-date fetch loop and the writes.
func (s *SyncService) apply(ctx context.Context, run *syncRun, plan domain.SyncPlan) {
	res := run.result
	res.Planned = len(plan.MissingDates)
	if plan.IsEmpty() {
		res.Success = true
		res.Summary = noNewDataSummary
		return
	}

	run.begin(stepCheckExisting)
	existingRecords, err := s.rateRepo.FindRatesByDates(ctx, plan.MissingDates)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing rate records")
		run.abort(fmt.Errorf("failed to check existing records: %w", err))
		return
	}
	existing := make(map[string]struct{}, len(existingRecords))
	for _, r := range existingRecords {
		existing[businessday.Format(r.Date)] = struct{}{}
	}
	run.done(fmt.Sprintf("%d of %d dates already stored", len(existing), len(plan.MissingDates)))

	run.begin(stepFetchAndStore)
	var toInsert, toUpdate []domain.RateRecord
	for _, date := range plan.MissingDates {
		payload, err := s.source.FetchRates(ctx, date)
		if err != nil {
			s.LogWarn(ctx, "Failed to fetch rates for date",
				slog.String("date", businessday.Format(date)),
				slog.String("error", err.Error()))
			res.FailedDates = append(res.FailedDates, date)
			continue
		}
		if len(payload) == 0 {
			s.LogDebug(ctx, "No rates published for date", slog.String("date", businessday.Format(date)))
			res.Skipped++
			continue
		}
		record := NormalizeRates(date, payload)
		if _, ok := existing[businessday.Format(record.Date)]; ok {
			toUpdate = append(toUpdate, record)
		} else {
			toInsert = append(toInsert, record)
		}
	}

	if len(toInsert) > 0 {
		n, err := s.rateRepo.InsertRates(ctx, toInsert)
		if err != nil {
			// The whole batch is reported as failed; whether the backend kept part of it is backend-defined.
			s.LogError(ctx, err, "Batch insert of rate records failed", slog.Int("batch_size", len(toInsert)))
			for _, r := range toInsert {
				res.FailedDates = append(res.FailedDates, r.Date)
			}
		} else {
			res.Inserted = n
		}
	}

	for _, record := range toUpdate {
		if _, err := s.rateRepo.UpdateRate(ctx, record); err != nil {
			s.LogWarn(ctx, "Failed to update rate record",
				slog.String("date", businessday.Format(record.Date)),
				slog.String("error", err.Error()))
			res.FailedDates = append(res.FailedDates, record.Date)
			continue
		}
		res.Updated++
	}

	slices.SortFunc(res.FailedDates, func(a, b time.Time) int { return a.Compare(b) })
	run.done(fmt.Sprintf("inserted: %d, updated: %d, holidays skipped: %d, failed: %d",
		res.Inserted, res.Updated, res.Skipped, len(res.FailedDates)))

	res.Success = true
	res.Summary = fmt.Sprintf("%d of %d business days updated", res.Inserted+res.Updated, res.Planned)
	s.LogInfo(ctx, "Rate sync completed",
		slog.Int("planned", res.Planned),
		slog.Int("inserted", res.Inserted),
		slog.Int("updated", res.Updated),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", len(res.FailedDates)))
}

// syncRun accumulates the step log of one run.
type syncRun struct {
	result  *domain.SyncRunResult
	current int
}

func newSyncRun() *syncRun {
	return &syncRun{result: &domain.SyncRunResult{Steps: []domain.SyncStep{}}, current: -1}
}

func (r *syncRun) begin(name string) {
	r.result.Steps = append(r.result.Steps, domain.SyncStep{
		Step:   len(r.result.Steps) + 1,
		Name:   name,
		Status: domain.SyncStepInProgress,
	})
	r.current = len(r.result.Steps) - 1
}

func (r *syncRun) done(detail string) {
	if r.current < 0 {
		return
	}
	r.result.Steps[r.current].Status = domain.SyncStepDone
	r.result.Steps[r.current].Detail = detail
}

// abort marks the current step failed and the whole run unsuccessful.
func (r *syncRun) abort(err error) {
	if r.current >= 0 {
		r.result.Steps[r.current].Status = domain.SyncStepFailed
		r.result.Steps[r.current].Error = err.Error()
	}
	r.result.Success = false
	r.result.Error = err.Error()
}

// recoverInto turns a panic inside the run into a failed step so callers always get a step log.
func (r *syncRun) recoverInto(result **domain.SyncRunResult) {
	if rec := recover(); rec != nil {
		r.abort(fmt.Errorf("unexpected error: %v", rec))
		*result = r.result
	}
}
