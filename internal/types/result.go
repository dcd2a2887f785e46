package types

import "time"

// OutcomeKind is the outcome class of a single check evaluation.
type OutcomeKind string

const (
	// OutcomePass means the check's expected condition was met.
	OutcomePass OutcomeKind = "pass"
	// OutcomeWarn means the condition is suboptimal but not failing.
	OutcomeWarn OutcomeKind = "warn"
	// OutcomeFail means the check's expected condition was not met.
	OutcomeFail OutcomeKind = "fail"
	// OutcomeSkipped means the check was not applicable on this host.
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeProbeError means the inspection itself failed (missing utility,
	// permission denied, timeout). The host condition remains unknown.
	OutcomeProbeError OutcomeKind = "error"
)

// Outcome is the typed result of evaluating one check. Warn and Fail carry
// an observed severity that may escalate or de-escalate the check's static
// severity class based on what the probe actually found.
type Outcome struct {
	Kind     OutcomeKind
	Detail   string
	Severity Severity // meaningful on Warn and Fail only
}

// Pass builds a passing outcome with optional detail text.
func Pass(detail string) Outcome {
	return Outcome{Kind: OutcomePass, Detail: detail}
}

// Warn builds a warning outcome with the observed severity.
func Warn(detail string, observed Severity) Outcome {
	return Outcome{Kind: OutcomeWarn, Detail: detail, Severity: observed}
}

// Fail builds a failing outcome with the observed severity.
func Fail(detail string, observed Severity) Outcome {
	return Outcome{Kind: OutcomeFail, Detail: detail, Severity: observed}
}

// Skipped builds a skipped outcome with the reason the check did not apply.
func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Detail: reason}
}

// ProbeError builds an outcome for an inspection that could not complete.
func ProbeError(reason string) Outcome {
	return Outcome{Kind: OutcomeProbeError, Detail: reason}
}

// CheckResult holds the immutable outcome of running a single check.
// Produced once by the execution engine and never mutated afterwards.
type CheckResult struct {
	// CheckID is the unique check identifier.
	CheckID string `json:"check_id"`

	// Category is the check's primary category.
	Category Category `json:"category"`

	// Severity is the effective severity: the check's static class, replaced
	// by the observed severity when a Warn or Fail outcome overrides it.
	Severity Severity `json:"severity"`

	// Outcome is the outcome class.
	Outcome OutcomeKind `json:"outcome"`

	// Detail describes what was observed (or why the probe failed).
	Detail string `json:"detail"`

	// DurationMS is the evaluation duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// StaticSeverity is the check's severity class before any observed
	// override. Strict-mode verdicts for probe errors use this value.
	StaticSeverity Severity `json:"-"`

	// Title is the human-readable check title (text output only).
	Title string `json:"-"`

	// Remediation is the remediation hint (text and interactive output only).
	Remediation string `json:"-"`

	// StartedAt is when the evaluation began.
	StartedAt time.Time `json:"-"`

	// Duration is the evaluation duration.
	Duration time.Duration `json:"-"`
}
