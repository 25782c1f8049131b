package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portsrepo "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/repositories"
	"github.com/pesa-dev/networth_snapshot_service/internal/models"
)

// PgxSnapshotRepository persists net-worth snapshots keyed by (user, date).
type PgxSnapshotRepository struct {
	pool *pgxpool.Pool
}

// newPgxSnapshotRepository creates a new repository for snapshot data.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{pool: pool}
}

// Ensure PgxSnapshotRepository implements portsrepo.SnapshotRepositoryFacade
var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

func toModelBreakdown(d map[string]domain.BreakdownEntry) map[string]models.BreakdownEntry {
	m := make(map[string]models.BreakdownEntry, len(d))
	for id, e := range d {
		m[id] = models.BreakdownEntry{
			Name:             e.Name,
			CurrencyCode:     e.CurrencyCode,
			Balance:          e.Balance,
			ConvertedBalance: e.ConvertedBalance,
		}
	}
	return m
}

func toDomainBreakdown(m map[string]models.BreakdownEntry) map[string]domain.BreakdownEntry {
	d := make(map[string]domain.BreakdownEntry, len(m))
	for id, e := range m {
		d[id] = domain.BreakdownEntry{
			Name:             e.Name,
			CurrencyCode:     e.CurrencyCode,
			Balance:          e.Balance,
			ConvertedBalance: e.ConvertedBalance,
		}
	}
	return d
}

// UpsertSnapshot merge-upserts the snapshot for (UserID, SnapshotDate).
// A single INSERT ... ON CONFLICT DO UPDATE statement keeps the write atomic
// for that key: either the full snapshot commits or nothing changes. The
// written_at timestamp is assigned by the database, so concurrent writers for
// the same key resolve to whichever statement commits last.
func (r *PgxSnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.NetWorthSnapshot) error {
	breakdownJSON, err := json.Marshal(toModelBreakdown(snapshot.Breakdown))
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown for user %s: %w", snapshot.UserID, err)
	}

	query := `
		INSERT INTO networth_snapshots (user_id, snapshot_date, total_net_worth, breakdown, provenance, written_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id, snapshot_date) DO UPDATE
		SET total_net_worth = EXCLUDED.total_net_worth,
		    breakdown       = EXCLUDED.breakdown,
		    provenance      = EXCLUDED.provenance,
		    written_at      = now();
	`

	_, err = r.pool.Exec(ctx, query,
		snapshot.UserID,
		snapshot.SnapshotDate,
		snapshot.TotalNetWorth,
		breakdownJSON,
		string(snapshot.Provenance),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert snapshot for user %s on %s: %v",
			apperrors.ErrPersistFailure, snapshot.UserID, snapshot.SnapshotDate.Format("2006-01-02"), err)
	}
	return nil
}

// FindSnapshot retrieves the snapshot for (userID, date).
func (r *PgxSnapshotRepository) FindSnapshot(ctx context.Context, userID string, date time.Time) (*domain.NetWorthSnapshot, error) {
	query := `
		SELECT user_id, snapshot_date, total_net_worth, breakdown, provenance, written_at
		FROM networth_snapshots
		WHERE user_id = $1 AND snapshot_date = $2;
	`
	return r.querySnapshot(ctx, query, userID, date)
}

// FindLatestSnapshot retrieves the user's most recent snapshot.
func (r *PgxSnapshotRepository) FindLatestSnapshot(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error) {
	query := `
		SELECT user_id, snapshot_date, total_net_worth, breakdown, provenance, written_at
		FROM networth_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
		LIMIT 1;
	`
	return r.querySnapshot(ctx, query, userID)
}

func (r *PgxSnapshotRepository) querySnapshot(ctx context.Context, query string, args ...any) (*domain.NetWorthSnapshot, error) {
	var m models.NetWorthSnapshot
	var breakdownJSON []byte

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&m.UserID, &m.SnapshotDate, &m.TotalNetWorth, &breakdownJSON, &m.Provenance, &m.WrittenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to query snapshot: %v", apperrors.ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal(breakdownJSON, &m.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breakdown for user %s: %w", m.UserID, err)
	}

	snapshot := toDomainSnapshot(m)
	return &snapshot, nil
}

// ListSnapshots retrieves a page of the user's snapshots, newest first.
func (r *PgxSnapshotRepository) ListSnapshots(ctx context.Context, userID string, limit int, offset int) ([]domain.NetWorthSnapshot, error) {
	query := `
		SELECT user_id, snapshot_date, total_net_worth, breakdown, provenance, written_at
		FROM networth_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query snapshots for user %s: %v", apperrors.ErrStoreUnavailable, userID, err)
	}
	defer rows.Close()

	snapshots := []domain.NetWorthSnapshot{}
	for rows.Next() {
		var m models.NetWorthSnapshot
		var breakdownJSON []byte
		if err := rows.Scan(&m.UserID, &m.SnapshotDate, &m.TotalNetWorth, &breakdownJSON, &m.Provenance, &m.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &m.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown for user %s: %w", m.UserID, err)
		}
		snapshots = append(snapshots, toDomainSnapshot(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating snapshot rows for user %s: %v", apperrors.ErrStoreUnavailable, userID, err)
	}

	return snapshots, nil
}

func toDomainSnapshot(m models.NetWorthSnapshot) domain.NetWorthSnapshot {
	return domain.NetWorthSnapshot{
		UserID:        m.UserID,
		SnapshotDate:  m.SnapshotDate,
		TotalNetWorth: m.TotalNetWorth,
		Breakdown:     toDomainBreakdown(m.Breakdown),
		Provenance:    domain.TriggerKind(m.Provenance),
		WrittenAt:     m.WrittenAt,
	}
}
