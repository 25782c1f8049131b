package repositories

import (
	"context"
	"time"

	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
)

// SnapshotReader defines read operations over persisted snapshots.
type SnapshotReader interface {
	// FindSnapshot retrieves the snapshot for (userID, date), or
	// apperrors.ErrNotFound if none exists.
	FindSnapshot(ctx context.Context, userID string, date time.Time) (*domain.NetWorthSnapshot, error)

	// FindLatestSnapshot retrieves the user's most recent snapshot, or
	// apperrors.ErrNotFound if the user has none.
	FindLatestSnapshot(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error)

	// ListSnapshots retrieves a page of the user's snapshots, newest first.
	ListSnapshots(ctx context.Context, userID string, limit int, offset int) ([]domain.NetWorthSnapshot, error)
}

// SnapshotWriter defines write operations over persisted snapshots.
type SnapshotWriter interface {
	// UpsertSnapshot creates the (UserID, SnapshotDate) record if absent, or
	// replaces its computed fields if present. The write is atomic: either
	// the full snapshot commits or nothing changes for that key. WrittenAt is
	// assigned by the store, not taken from the snapshot argument.
	UpsertSnapshot(ctx context.Context, snapshot domain.NetWorthSnapshot) error
}

// SnapshotRepositoryFacade combines all snapshot repository interfaces.
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}
