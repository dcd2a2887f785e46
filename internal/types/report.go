package types

import "time"

// Verdict status values.
const (
	// VerdictPass means the audit either found nothing at or above the strict
	// threshold, or strict mode was off and the run completed.
	VerdictPass = "pass"
	// VerdictFail means strict mode found a failing or unverifiable check at
	// or above the strict threshold.
	VerdictFail = "fail"
)

// AuditReport is the complete, ordered, immutable result of one audit run.
// It is serialized directly to JSON for the --format=json output; struct
// field order fixes the JSON key order so reports diff cleanly over time.
type AuditReport struct {
	// RunID uniquely identifies this audit run.
	RunID string `json:"run_id"`

	// HostSummary identifies the audited host.
	HostSummary HostSummary `json:"host_summary"`

	// Results holds one entry per selected check, in canonical registry
	// order regardless of execution completion order.
	Results []CheckResult `json:"results"`

	// SummaryCounts tallies results per outcome class.
	SummaryCounts SummaryCounts `json:"summary_counts"`

	// Verdict is the strict-mode pass/fail decision.
	Verdict Verdict `json:"verdict"`
}

// HostSummary identifies the host an audit ran against.
type HostSummary struct {
	// Hostname is the system hostname.
	Hostname string `json:"hostname"`

	// OS is the OS identity (pretty name or platform/version).
	OS string `json:"os"`

	// Timestamp is when the audit run started.
	Timestamp time.Time `json:"timestamp"`
}

// SummaryCounts tallies check results per outcome class.
type SummaryCounts struct {
	Pass    int `json:"pass"`
	Warn    int `json:"warn"`
	Fail    int `json:"fail"`
	Skipped int `json:"skipped"`
	Error   int `json:"error"`
}

// Total returns the number of results counted.
func (s SummaryCounts) Total() int {
	return s.Pass + s.Warn + s.Fail + s.Skipped + s.Error
}

// Verdict is the audit's pass/fail decision.
type Verdict struct {
	// StrictEnabled records whether strict mode was on for this run.
	StrictEnabled bool `json:"strict_enabled"`

	// Status is VerdictPass or VerdictFail.
	Status string `json:"status"`
}
