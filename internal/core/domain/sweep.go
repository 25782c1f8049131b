package domain

import "time"

// SweepFailure records one user whose aggregation failed during a full sweep.
type SweepFailure struct {
	UserID string `json:"userID"`
	Reason string `json:"reason"`
}

// SweepReport summarizes one full-sweep run. Per-user failures are
// accumulated here rather than aborting the sweep: users are independent.
type SweepReport struct {
	RunID          string         `json:"runID"`
	StartedAt      time.Time      `json:"startedAt"`
	FinishedAt     time.Time      `json:"finishedAt"`
	UsersProcessed int            `json:"usersProcessed"`
	Succeeded      int            `json:"succeeded"`
	Skipped        int            `json:"skipped"` // Users with no active accounts
	Failures       []SweepFailure `json:"failures"`
}
