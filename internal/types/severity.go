package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how serious a finding is. Higher values are worse.
type Severity int

const (
	// SeverityInfo is informational only.
	SeverityInfo Severity = iota
	// SeverityLow is a minor hardening gap.
	SeverityLow
	// SeverityMedium is a finding that should be addressed.
	SeverityMedium
	// SeverityHigh is a finding that materially weakens the host.
	SeverityHigh
	// SeverityCritical is a finding that demands immediate attention.
	SeverityCritical
)

// StrictThreshold is the minimum severity that flips the strict-mode
// verdict to fail, for failed checks and for unverifiable high-stakes checks.
const StrictThreshold = SeverityHigh

var severityNames = map[Severity]string{
	SeverityInfo:     "info",
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// String returns the lowercase severity name.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(raw string) (Severity, error) {
	for sev, name := range severityNames {
		if name == strings.ToLower(strings.TrimSpace(raw)) {
			return sev, nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q (valid: info, low, medium, high, critical)", raw)
}

// MarshalJSON serializes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity from its lowercase name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
