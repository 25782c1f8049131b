package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakdownEntry is the JSON shape of one account's contribution inside the
// snapshot row's breakdown column.
type BreakdownEntry struct {
	Name             string          `json:"name"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// NetWorthSnapshot mirrors the networth_snapshots table.
// Breakdown is persisted as a JSONB column keyed by account id.
type NetWorthSnapshot struct {
	UserID        string                    `db:"user_id"`
	SnapshotDate  time.Time                 `db:"snapshot_date"`
	TotalNetWorth decimal.Decimal           `db:"total_net_worth"`
	Breakdown     map[string]BreakdownEntry `db:"breakdown"`
	Provenance    string                    `db:"provenance"`
	WrittenAt     time.Time                 `db:"written_at"`
}
