package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	portssvc "github.com/SscSPs/exchange_sync_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/SscSPs/exchange_sync_app/internal/platform/config"
	"github.com/SscSPs/exchange_sync_app/internal/utils/businessday"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers the rate sync once a day at the configured local time.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	spec     string
	location *time.Location
	syncer   portssvc.RateSyncSvc
	logger   *slog.Logger
}

// New creates a Scheduler firing at cfg.Hour:cfg.Minute in loc.
func New(cfg config.SchedulerConfig, loc *time.Location, syncer portssvc.RateSyncSvc, logger *slog.Logger) (*Scheduler, error) {
	spec := fmt.Sprintf("%d %d * * *", cfg.Minute, cfg.Hour)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron:     c,
		schedule: schedule,
		spec:     spec,
		location: loc,
		syncer:   syncer,
		logger:   logger.With(slog.String("component", "scheduler")),
	}, nil
}

// Spec returns the cron expression of the daily job.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Next returns the first fire time strictly after t, in the scheduler's location.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Run starts the scheduler and blocks until ctx is cancelled. A job that is
// running at that point is allowed to finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	jobCtx := middleware.WithLogger(context.WithoutCancel(ctx), s.logger)
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(jobCtx) }); err != nil {
		return fmt.Errorf("failed to schedule rate sync: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		slog.String("spec", s.spec),
		slog.String("timezone", s.location.String()),
		slog.Time("next_run", s.Next(time.Now())),
	)

	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}

// RunOnce executes one scheduled sync and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	s.logger.Info("Scheduled rate sync started")

	result := s.syncer.Sync(ctx)
	if result == nil {
		s.logger.Error("Scheduled rate sync returned no result")
		return
	}

	attrs := []any{
		slog.String("summary", result.Summary),
		slog.Int("planned", result.Planned),
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", time.Since(start)),
	}
	if len(result.FailedDates) > 0 {
		attrs = append(attrs, slog.String("failed_dates", strings.Join(businessday.FormatAll(result.FailedDates), ",")))
	}

	if !result.Success {
		s.logger.Error("Scheduled rate sync failed", append(attrs, slog.String("error", result.Error))...)
		return
	}
	s.logger.Info("Scheduled rate sync finished", attrs...)
}
