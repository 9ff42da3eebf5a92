package domain

import "time"

// CheckStatus indicates whether a single startup check passed.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// CheckResult is one startup check outcome with an optional operator hint.
type CheckResult struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// CheckReport aggregates startup checks for the diagnostics endpoint.
type CheckReport struct {
	CheckedAt   time.Time     `json:"checkedAt"`
	HasFailures bool          `json:"hasFailures"`
	Checks      []CheckResult `json:"checks"`
}
