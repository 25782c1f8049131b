package dto

import (
	"time"

	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RunSnapshotResponse is the structured result of the on-demand trigger.
// "No accounts" is a normal outcome reported through the success flag and
// message, not an error; NetWorth and AccountCount are omitted in that case.
type RunSnapshotResponse struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	NetWorth     *decimal.Decimal `json:"netWorth,omitempty"`
	AccountCount *int             `json:"accountCount,omitempty"`
}

// AccountPayload is the account state carried by a change notification.
type AccountPayload struct {
	AccountID    string          `json:"accountID" binding:"required"`
	UserID       string          `json:"userID" binding:"required"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Balance      decimal.Decimal `json:"balance"`
	IsDeleted    bool            `json:"isDeleted"`
}

// ToDomainAccount converts an AccountPayload to a domain.Account.
func (p *AccountPayload) ToDomainAccount() *domain.Account {
	if p == nil {
		return nil
	}
	return &domain.Account{
		AccountID:    p.AccountID,
		UserID:       p.UserID,
		Name:         p.Name,
		CurrencyCode: p.CurrencyCode,
		Balance:      p.Balance,
		IsDeleted:    p.IsDeleted,
	}
}

// AccountChangeRequest carries the before/after state of one account change.
// Before is absent on creation; After is absent on physical deletion.
type AccountChangeRequest struct {
	Before *AccountPayload `json:"before"`
	After  *AccountPayload `json:"after"`
}

// AccountChangeResponse reports whether the change caused a snapshot write.
type AccountChangeResponse struct {
	Written bool `json:"written"`
}

// BreakdownEntryResponse mirrors one account's contribution in a snapshot.
type BreakdownEntryResponse struct {
	Name             string          `json:"name"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// SnapshotResponse defines the data returned for a snapshot.
type SnapshotResponse struct {
	UserID        string                            `json:"userID"`
	SnapshotDate  string                            `json:"snapshotDate"` // YYYY-MM-DD
	TotalNetWorth decimal.Decimal                   `json:"totalNetWorth"`
	Breakdown     map[string]BreakdownEntryResponse `json:"breakdown"`
	Provenance    string                            `json:"provenance"`
	WrittenAt     time.Time                         `json:"writtenAt"`
}

// ToSnapshotResponse converts a domain.NetWorthSnapshot to SnapshotResponse.
func ToSnapshotResponse(s *domain.NetWorthSnapshot) SnapshotResponse {
	breakdown := make(map[string]BreakdownEntryResponse, len(s.Breakdown))
	for id, e := range s.Breakdown {
		breakdown[id] = BreakdownEntryResponse{
			Name:             e.Name,
			CurrencyCode:     e.CurrencyCode,
			Balance:          e.Balance,
			ConvertedBalance: e.ConvertedBalance,
		}
	}
	return SnapshotResponse{
		UserID:        s.UserID,
		SnapshotDate:  s.SnapshotDate.Format("2006-01-02"),
		TotalNetWorth: s.TotalNetWorth,
		Breakdown:     breakdown,
		Provenance:    string(s.Provenance),
		WrittenAt:     s.WrittenAt,
	}
}

// ToListSnapshotsResponse converts a slice of snapshots.
func ToListSnapshotsResponse(snapshots []domain.NetWorthSnapshot) ListSnapshotsResponse {
	res := make([]SnapshotResponse, len(snapshots))
	for i := range snapshots {
		res[i] = ToSnapshotResponse(&snapshots[i])
	}
	return ListSnapshotsResponse{Snapshots: res}
}

// ListSnapshotsParams defines query parameters for listing snapshots.
type ListSnapshotsParams struct {
	Limit  int `form:"limit,default=30"`
	Offset int `form:"offset,default=0"`
}

// ListSnapshotsResponse wraps the list of snapshots, newest first.
type ListSnapshotsResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// SweepFailureResponse records one failed user in a sweep report.
type SweepFailureResponse struct {
	UserID string `json:"userID"`
	Reason string `json:"reason"`
}

// SweepReportResponse summarizes a full sweep run.
type SweepReportResponse struct {
	RunID          string                 `json:"runID"`
	StartedAt      time.Time              `json:"startedAt"`
	FinishedAt     time.Time              `json:"finishedAt"`
	UsersProcessed int                    `json:"usersProcessed"`
	Succeeded      int                    `json:"succeeded"`
	Skipped        int                    `json:"skipped"`
	Failures       []SweepFailureResponse `json:"failures"`
}

// ToSweepReportResponse converts a domain.SweepReport to SweepReportResponse.
func ToSweepReportResponse(r *domain.SweepReport) SweepReportResponse {
	failures := make([]SweepFailureResponse, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = SweepFailureResponse{UserID: f.UserID, Reason: f.Reason}
	}
	return SweepReportResponse{
		RunID:          r.RunID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		UsersProcessed: r.UsersProcessed,
		Succeeded:      r.Succeeded,
		Skipped:        r.Skipped,
		Failures:       failures,
	}
}
