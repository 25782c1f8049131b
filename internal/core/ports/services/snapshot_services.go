package services

import (
	"context"
	"time"

	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
)

// SnapshotSvcFacade is the aggregation core: read accounts, normalize
// valuations, write the day's snapshot.
type SnapshotSvcFacade interface {
	// WriteSnapshot computes the aggregate net worth over the given accounts
	// and merge-upserts the (userID, date) snapshot. An empty account list
	// returns apperrors.ErrNoAccounts without writing anything. Persistence
	// failures wrap apperrors.ErrPersistFailure and are not retried here.
	WriteSnapshot(ctx context.Context, userID string, date time.Time, accounts []domain.Account, trigger domain.TriggerKind) (*domain.SnapshotResult, error)

	// AggregateUser reads the user's active accounts and writes today's
	// snapshot. "Today" is the calendar day in the service's configured
	// reporting timezone.
	AggregateUser(ctx context.Context, userID string, trigger domain.TriggerKind) (*domain.SnapshotResult, error)

	// HandleAccountChange is the on-change trigger: a no-op when the balance
	// is unchanged between before and after, otherwise it re-aggregates the
	// owning user's snapshot for today. Returns whether a write occurred.
	HandleAccountChange(ctx context.Context, before, after *domain.Account) (bool, error)

	// GetSnapshot, GetLatestSnapshot and ListSnapshots expose the snapshot
	// history consumed by the dashboards.
	GetSnapshot(ctx context.Context, userID string, date time.Time) (*domain.NetWorthSnapshot, error)
	GetLatestSnapshot(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error)
	ListSnapshots(ctx context.Context, userID string, limit int, offset int) ([]domain.NetWorthSnapshot, error)
}

// SweepSvcFacade runs the scheduled full sweep over every user.
type SweepSvcFacade interface {
	// RunSweep aggregates every user with at least one account. Per-user
	// failures are recorded in the report and do not stop the sweep; only a
	// failure to enumerate users fails the sweep as a whole.
	RunSweep(ctx context.Context) (*domain.SweepReport, error)
}

// ServiceContainer bundles the services handed to the HTTP layer.
type ServiceContainer struct {
	Snapshot SnapshotSvcFacade
	Sweep    SweepSvcFacade
}
