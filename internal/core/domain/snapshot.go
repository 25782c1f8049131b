package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TriggerKind identifies which entry point produced (or last updated) a snapshot.
type TriggerKind string

const (
	TriggerScheduledSweep TriggerKind = "SCHEDULED_SWEEP"
	TriggerAccountChange  TriggerKind = "ACCOUNT_CHANGE"
	TriggerOnDemand       TriggerKind = "ON_DEMAND"
)

// BreakdownEntry is one account's contribution to a snapshot.
type BreakdownEntry struct {
	Name             string          `json:"name"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// NetWorthSnapshot is one per-day record of a user's total wealth in the
// reporting currency. Identity is (UserID, SnapshotDate); a later write for
// the same key merge-updates the existing record rather than appending.
//
// Invariant: TotalNetWorth equals the sum of ConvertedBalance over Breakdown,
// and Breakdown's keys are exactly the user's non-deleted account ids at
// write time.
type NetWorthSnapshot struct {
	UserID        string                    `json:"userID"`
	SnapshotDate  time.Time                 `json:"snapshotDate"` // Calendar day, reporting-timezone-anchored
	TotalNetWorth decimal.Decimal           `json:"totalNetWorth"`
	Breakdown     map[string]BreakdownEntry `json:"breakdown"` // Keyed by account id
	Provenance    TriggerKind               `json:"provenance"`
	WrittenAt     time.Time                 `json:"writtenAt"` // Server-assigned
}

// SnapshotResult reports what an aggregation computed.
type SnapshotResult struct {
	TotalNetWorth decimal.Decimal `json:"totalNetWorth"`
	AccountCount  int             `json:"accountCount"`
}
