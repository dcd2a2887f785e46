// Package report builds the final audit report from engine results.
package report

import (
	"github.com/google/uuid"

	"github.com/opsgate/vigil/internal/types"
)

// Aggregate collects results into an AuditReport, tallying summary counts
// and computing the strict-mode verdict. The results slice is already in
// canonical registry order; aggregation never reorders or deduplicates it.
func Aggregate(host types.HostSummary, results []types.CheckResult, strict bool) *types.AuditReport {
	var counts types.SummaryCounts
	for _, r := range results {
		switch r.Outcome {
		case types.OutcomePass:
			counts.Pass++
		case types.OutcomeWarn:
			counts.Warn++
		case types.OutcomeFail:
			counts.Fail++
		case types.OutcomeSkipped:
			counts.Skipped++
		case types.OutcomeProbeError:
			counts.Error++
		}
	}

	return &types.AuditReport{
		RunID:         uuid.NewString(),
		HostSummary:   host,
		Results:       results,
		SummaryCounts: counts,
		Verdict: types.Verdict{
			StrictEnabled: strict,
			Status:        verdictStatus(results, strict),
		},
	}
}

// verdictStatus applies the strict verdict rule. Without strict mode the
// verdict is informational: the run produced a report, so it passes.
//
// Under strict mode a run fails when any check failed at or above the
// threshold severity, or when a check at or above the threshold could not
// be verified at all — an unverifiable high-stakes check is not-proven-safe,
// never passing by default.
func verdictStatus(results []types.CheckResult, strict bool) string {
	if !strict {
		return types.VerdictPass
	}

	for _, r := range results {
		switch r.Outcome {
		case types.OutcomeFail:
			if r.Severity >= types.StrictThreshold {
				return types.VerdictFail
			}
		case types.OutcomeProbeError:
			if r.StaticSeverity >= types.StrictThreshold {
				return types.VerdictFail
			}
		}
	}
	return types.VerdictPass
}
