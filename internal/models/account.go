package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors the accounts table. The table is owned by the
// account-management subsystem; this service reads it and never writes.
type Account struct {
	AccountID    string          `db:"account_id"`
	UserID       string          `db:"user_id"`
	Name         string          `db:"name"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	IsDeleted    bool            `db:"is_deleted"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
