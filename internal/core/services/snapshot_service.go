package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portsrepo "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/repositories"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/internal/metrics"
	"github.com/shopspring/decimal"
)

// snapshotService implements the SnapshotSvcFacade interface.
type snapshotService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	valuation    *ValuationService
	location     *time.Location
	now          func() time.Time
}

// SnapshotOption is a functional option for configuring the snapshot service
type SnapshotOption func(*snapshotService)

// WithClock overrides the service's time source. Used by tests.
func WithClock(now func() time.Time) SnapshotOption {
	return func(s *snapshotService) {
		s.now = now
	}
}

// NewSnapshotService creates the aggregation core over the given stores,
// valuation table and reporting timezone.
func NewSnapshotService(accountRepo portsrepo.AccountReader, snapshotRepo portsrepo.SnapshotRepositoryFacade, valuation *ValuationService, location *time.Location, options ...SnapshotOption) portssvc.SnapshotSvcFacade {
	svc := &snapshotService{
		accountRepo:  accountRepo,
		snapshotRepo: snapshotRepo,
		valuation:    valuation,
		location:     location,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure snapshotService implements the SnapshotSvcFacade interface
var _ portssvc.SnapshotSvcFacade = (*snapshotService)(nil)

// today returns the current calendar day in the configured reporting
// timezone, normalized to midnight UTC for use as a date key. The on-change
// trigger uses the aggregation's invocation time here, not the change event's
// own timestamp; around midnight the two can straddle days and the invocation
// time is the one we can observe consistently.
func (s *snapshotService) today() time.Time {
	t := s.now().In(s.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *snapshotService) WriteSnapshot(ctx context.Context, userID string, date time.Time, accounts []domain.Account, trigger domain.TriggerKind) (*domain.SnapshotResult, error) {
	// Deleted accounts never contribute, even if a caller hands them in.
	active := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.IsDeleted {
			active = append(active, acc)
		}
	}

	// Empty input is a defined no-op, not a zero-wealth snapshot: "no data"
	// must not be misrepresented as "zero wealth".
	if len(active) == 0 {
		s.LogDebug(ctx, "No active accounts, skipping snapshot write",
			slog.String("user_id", userID),
			slog.String("trigger", string(trigger)))
		return nil, apperrors.ErrNoAccounts
	}

	total := decimal.Zero
	breakdown := make(map[string]domain.BreakdownEntry, len(active))
	for _, acc := range active {
		converted, err := s.valuation.Convert(acc.Balance, acc.CurrencyCode)
		if err != nil {
			s.LogError(ctx, err, "Failed to convert account balance",
				slog.String("user_id", userID),
				slog.String("account_id", acc.AccountID),
				slog.String("currency_code", acc.CurrencyCode))
			return nil, fmt.Errorf("failed to value account %s: %w", acc.AccountID, err)
		}
		total = total.Add(converted)
		breakdown[acc.AccountID] = domain.BreakdownEntry{
			Name:             acc.Name,
			CurrencyCode:     acc.CurrencyCode,
			Balance:          acc.Balance,
			ConvertedBalance: converted,
		}
	}

	snapshot := domain.NetWorthSnapshot{
		UserID:        userID,
		SnapshotDate:  date,
		TotalNetWorth: total,
		Breakdown:     breakdown,
		Provenance:    trigger,
	}

	// No retry here: the invoking trigger owns retry policy. The upsert is
	// atomic per (user, date) key, so re-running after a failure is safe.
	if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to persist snapshot",
			slog.String("user_id", userID),
			slog.String("snapshot_date", date.Format("2006-01-02")))
		return nil, err
	}

	metrics.SnapshotsWritten.WithLabelValues(string(trigger)).Inc()
	s.LogInfo(ctx, "Snapshot written",
		slog.String("user_id", userID),
		slog.String("snapshot_date", date.Format("2006-01-02")),
		slog.String("trigger", string(trigger)),
		slog.String("total_net_worth", total.String()),
		slog.Int("account_count", len(active)))

	return &domain.SnapshotResult{
		TotalNetWorth: total,
		AccountCount:  len(active),
	}, nil
}

func (s *snapshotService) AggregateUser(ctx context.Context, userID string, trigger domain.TriggerKind) (*domain.SnapshotResult, error) {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read accounts for aggregation",
			slog.String("user_id", userID),
			slog.String("trigger", string(trigger)))
		return nil, fmt.Errorf("failed to read accounts for user %s: %w", userID, err)
	}
	return s.WriteSnapshot(ctx, userID, s.today(), accounts, trigger)
}

func (s *snapshotService) HandleAccountChange(ctx context.Context, before, after *domain.Account) (bool, error) {
	if before == nil && after == nil {
		return false, fmt.Errorf("%w: change event carries neither before nor after state", apperrors.ErrValidation)
	}

	// Redundant writes are suppressed: only a balance movement re-aggregates.
	if before != nil && after != nil && before.Balance.Equal(after.Balance) && before.IsDeleted == after.IsDeleted {
		s.LogDebug(ctx, "Account change without balance movement, skipping",
			slog.String("account_id", after.AccountID))
		return false, nil
	}

	changed := after
	if changed == nil {
		changed = before
	}

	result, err := s.AggregateUser(ctx, changed.UserID, domain.TriggerAccountChange)
	if err != nil {
		// The user's last account disappearing is a normal outcome, not a failure.
		if errors.Is(err, apperrors.ErrNoAccounts) {
			return false, nil
		}
		return false, err
	}

	s.LogDebug(ctx, "Account change re-aggregated snapshot",
		slog.String("user_id", changed.UserID),
		slog.String("total_net_worth", result.TotalNetWorth.String()))
	return true, nil
}

func (s *snapshotService) GetSnapshot(ctx context.Context, userID string, date time.Time) (*domain.NetWorthSnapshot, error) {
	return s.snapshotRepo.FindSnapshot(ctx, userID, date)
}

func (s *snapshotService) GetLatestSnapshot(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error) {
	return s.snapshotRepo.FindLatestSnapshot(ctx, userID)
}

func (s *snapshotService) ListSnapshots(ctx context.Context, userID string, limit int, offset int) ([]domain.NetWorthSnapshot, error) {
	snapshots, err := s.snapshotRepo.ListSnapshots(ctx, userID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list snapshots",
			slog.String("user_id", userID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, err
	}
	if snapshots == nil {
		return []domain.NetWorthSnapshot{}, nil
	}
	return snapshots, nil
}
