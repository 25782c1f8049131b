package pgsql

import (
	"fmt"

	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portsrepo "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/repositories"
	"github.com/pesa-dev/networth_snapshot_service/internal/models"
)

// PgxAccountRepository is the read-only view over the accounts table. The
// table is owned by the account-management service; nothing here writes it.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountReader {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountReader
var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		UserID:       m.UserID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		IsDeleted:    m.IsDeleted,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ListActiveAccounts retrieves every non-deleted account for the given user.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, user_id, name, currency_code, balance, is_deleted, created_at, updated_at
		FROM accounts
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at ASC;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query accounts for user %s: %v", apperrors.ErrStoreUnavailable, userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.UserID, &m.Name, &m.CurrencyCode, &m.Balance, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating account rows for user %s: %v", apperrors.ErrStoreUnavailable, userID, err)
	}

	return accounts, nil
}

// ListUserIDsWithAnyAccount returns the deduplicated set of owning-user ids
// across all account rows, including soft-deleted ones. A user whose accounts
// are all deleted still shows up here; the sweep resolves them to the
// no-accounts outcome when it reads their active accounts.
func (r *PgxAccountRepository) ListUserIDsWithAnyAccount(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM accounts ORDER BY user_id;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate account owners: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating user id rows: %v", apperrors.ErrStoreUnavailable, err)
	}

	return userIDs, nil
}
