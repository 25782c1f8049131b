package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
)

// SweepScheduler fires the full sweep once per day at a fixed wall-clock time
// in a fixed timezone. There is no persistent schedule state: each run is a
// short-lived unit of work, and a missed or interrupted run is recovered by
// the next one because snapshot upserts are idempotent.
type SweepScheduler struct {
	sweepSvc portssvc.SweepSvcFacade
	hour     int
	minute   int
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweepScheduler creates a scheduler firing daily at hour:minute in loc.
func NewSweepScheduler(sweepSvc portssvc.SweepSvcFacade, hour, minute int, loc *time.Location, logger *slog.Logger) *SweepScheduler {
	return &SweepScheduler{
		sweepSvc: sweepSvc,
		hour:     hour,
		minute:   minute,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// NextRunAfter returns the first scheduled fire time strictly after t.
func (s *SweepScheduler) NextRunAfter(t time.Time) time.Time {
	local := t.In(s.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled, firing the sweep at each scheduled time.
func (s *SweepScheduler) Run(ctx context.Context) {
	for {
		next := s.NextRunAfter(s.now())
		wait := next.Sub(s.now())
		s.logger.Info("Next sweep scheduled",
			slog.Time("at", next),
			slog.Duration("in", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Sweep scheduler stopping")
			return
		case <-timer.C:
		}

		report, err := s.sweepSvc.RunSweep(ctx)
		if err != nil {
			s.logger.Error("Scheduled sweep failed", slog.String("error", err.Error()))
			continue
		}
		s.logger.Info("Scheduled sweep completed",
			slog.String("sweep_run_id", report.RunID),
			slog.Int("succeeded", report.Succeeded),
			slog.Int("skipped", report.Skipped),
			slog.Int("failed", len(report.Failures)))
	}
}
