package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portsrepo "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/repositories"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/internal/metrics"
	"github.com/pesa-dev/networth_snapshot_service/internal/worker"
)

// sweepService implements the SweepSvcFacade interface.
type sweepService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	snapshotSvc portssvc.SnapshotSvcFacade
	concurrency int
	now         func() time.Time
}

// SweepOption is a functional option for configuring the sweep service
type SweepOption func(*sweepService)

// WithSweepClock overrides the sweep's time source. Used by tests.
func WithSweepClock(now func() time.Time) SweepOption {
	return func(s *sweepService) {
		s.now = now
	}
}

// NewSweepService creates the full-sweep orchestrator. Concurrency bounds the
// per-user fan-out; users are independent, so there is no cross-user shared
// state beyond the report itself.
func NewSweepService(accountRepo portsrepo.AccountReader, snapshotSvc portssvc.SnapshotSvcFacade, concurrency int, options ...SweepOption) portssvc.SweepSvcFacade {
	if concurrency < 1 {
		concurrency = 1
	}
	svc := &sweepService{
		accountRepo: accountRepo,
		snapshotSvc: snapshotSvc,
		concurrency: concurrency,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure sweepService implements the SweepSvcFacade interface
var _ portssvc.SweepSvcFacade = (*sweepService)(nil)

// RunSweep aggregates every user with at least one account. A failure on one
// user is recorded and the sweep continues; only the initial user enumeration
// is fatal. Re-running a sweep is safe: upserts are idempotent per (user, date).
func (s *sweepService) RunSweep(ctx context.Context) (*domain.SweepReport, error) {
	userIDs, err := s.accountRepo.ListUserIDsWithAnyAccount(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to enumerate users for sweep")
		return nil, fmt.Errorf("failed to enumerate users: %w", err)
	}

	report := &domain.SweepReport{
		RunID:          uuid.NewString(),
		StartedAt:      s.now(),
		UsersProcessed: len(userIDs),
		Failures:       []domain.SweepFailure{},
	}
	logger := s.GetLogger(ctx).With(slog.String("sweep_run_id", report.RunID))
	logger.Info("Sweep starting", slog.Int("user_count", len(userIDs)))

	pool := worker.NewPool(s.concurrency)
	var mu sync.Mutex
	for _, userID := range userIDs {
		userID := userID
		pool.Submit(func() {
			_, err := s.snapshotSvc.AggregateUser(ctx, userID, domain.TriggerScheduledSweep)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Succeeded++
				metrics.SweepUsersProcessed.WithLabelValues("succeeded").Inc()
			case errors.Is(err, apperrors.ErrNoAccounts):
				report.Skipped++
				metrics.SweepUsersProcessed.WithLabelValues("skipped").Inc()
			default:
				report.Failures = append(report.Failures, domain.SweepFailure{
					UserID: userID,
					Reason: err.Error(),
				})
				metrics.SweepUsersProcessed.WithLabelValues("failed").Inc()
				logger.Error("Sweep failed for user",
					slog.String("user_id", userID),
					slog.String("error", err.Error()))
			}
		})
	}
	pool.Stop()

	report.FinishedAt = s.now()
	metrics.SweepDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	logger.Info("Sweep finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", len(report.Failures)),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	return report, nil
}
