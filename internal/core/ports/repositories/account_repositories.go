package repositories

import (
	"context"

	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
)

// AccountReader defines the read-only view this service has over accounts.
// Accounts are owned by the account-management subsystem; no writer interface
// exists here on purpose.
type AccountReader interface {
	// ListActiveAccounts retrieves every non-deleted account owned by the
	// given user. The full list is materialized; per-user account counts are
	// assumed small (dozens, not millions).
	ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// ListUserIDsWithAnyAccount returns the deduplicated set of user ids that
	// own at least one account (deleted or not). Used only by the full sweep.
	ListUserIDsWithAnyAccount(ctx context.Context) ([]string, error)
}
