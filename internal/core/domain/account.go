package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents one financial holding owned by a user.
// Accounts are created and updated by the account-management collaborator;
// this service only ever reads them.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary key (e.g., UUID)
	UserID       string          `json:"userID"`       // Owning user
	Name         string          `json:"name"`         // User-defined display name
	CurrencyCode string          `json:"currencyCode"` // ISO-4217 style code
	Balance      decimal.Decimal `json:"balance"`      // Signed; liabilities carry negative balances
	IsDeleted    bool            `json:"isDeleted"`    // Soft delete; excluded from all aggregation
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
