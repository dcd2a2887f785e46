package checks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/types"
)

// ── system.reboot_required ───────────────────────────────────────────

func TestRebootRequired_MarkerPresent(t *testing.T) {
	facts := fixtureContext(t, map[string]string{"var/run/reboot-required": ""})
	out := evalRebootRequired(context.Background(), facts)
	assert.Equal(t, types.OutcomeWarn, out.Kind)
	assert.Equal(t, types.SeverityLow, out.Severity)
}

func TestRebootRequired_MarkerAbsent(t *testing.T) {
	facts := fixtureContext(t, nil)
	out := evalRebootRequired(context.Background(), facts)
	assert.Equal(t, types.OutcomePass, out.Kind)
}

// ── system.disk_usage ────────────────────────────────────────────────

func TestDiskUsage_Thresholds(t *testing.T) {
	cases := []struct {
		used     float64
		kind     types.OutcomeKind
		severity types.Severity
	}{
		{30, types.OutcomePass, 0},
		{49.9, types.OutcomePass, 0},
		{50, types.OutcomeWarn, types.SeverityMedium},
		{79.9, types.OutcomeWarn, types.SeverityMedium},
		{80, types.OutcomeFail, types.SeverityMedium},
		{89.9, types.OutcomeFail, types.SeverityMedium},
		{90, types.OutcomeFail, types.SeverityHigh},
		{99, types.OutcomeFail, types.SeverityHigh},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.1f%%", tc.used), func(t *testing.T) {
			facts := &probe.Context{Disk: &probe.DiskFacts{
				TotalBytes:  100 * 1024 * 1024 * 1024,
				FreeBytes:   10 * 1024 * 1024 * 1024,
				UsedPercent: tc.used,
			}}
			out := evalDiskUsage(context.Background(), facts)
			assert.Equal(t, tc.kind, out.Kind)
			if tc.kind == types.OutcomeWarn || tc.kind == types.OutcomeFail {
				assert.Equal(t, tc.severity, out.Severity)
			}
		})
	}
}

func TestDiskUsage_MissingFacts(t *testing.T) {
	out := evalDiskUsage(context.Background(), &probe.Context{})
	assert.Equal(t, types.OutcomeProbeError, out.Kind)
}

// ── system.memory_usage ──────────────────────────────────────────────

func TestMemoryUsage_Thresholds(t *testing.T) {
	const gib = 1024 * 1024 * 1024

	cases := []struct {
		available uint64
		kind      types.OutcomeKind
		severity  types.Severity
	}{
		{60 * gib, types.OutcomePass, 0},                  // 40% used
		{40 * gib, types.OutcomeWarn, types.SeverityMedium}, // 60% used
		{15 * gib, types.OutcomeFail, types.SeverityMedium}, // 85% used
		{5 * gib, types.OutcomeFail, types.SeverityHigh},    // 95% used
	}

	for _, tc := range cases {
		facts := &probe.Context{Memory: &probe.MemoryFacts{
			TotalBytes:     100 * gib,
			AvailableBytes: tc.available,
		}}
		out := evalMemoryUsage(context.Background(), facts)
		assert.Equal(t, tc.kind, out.Kind)
		if tc.kind == types.OutcomeWarn || tc.kind == types.OutcomeFail {
			assert.Equal(t, tc.severity, out.Severity)
		}
	}
}

func TestMemoryUsage_MissingFacts(t *testing.T) {
	out := evalMemoryUsage(context.Background(), &probe.Context{})
	assert.Equal(t, types.OutcomeProbeError, out.Kind)

	out = evalMemoryUsage(context.Background(), &probe.Context{Memory: &probe.MemoryFacts{}})
	assert.Equal(t, types.OutcomeProbeError, out.Kind)
}

// ── system.cpu_load ──────────────────────────────────────────────────

func TestCPULoad_Thresholds(t *testing.T) {
	cases := []struct {
		load1    float64
		kind     types.OutcomeKind
		severity types.Severity
	}{
		{1.0, types.OutcomePass, 0},                       // ratio 0.25
		{3.0, types.OutcomeWarn, types.SeverityMedium},    // ratio 0.75
		{4.0, types.OutcomeFail, types.SeverityMedium},    // ratio 1.0
		{8.0, types.OutcomeFail, types.SeverityHigh},      // ratio 2.0
	}

	for _, tc := range cases {
		facts := &probe.Context{Load: &probe.LoadFacts{Load1: tc.load1, CPUCount: 4}}
		out := evalCPULoad(context.Background(), facts)
		assert.Equal(t, tc.kind, out.Kind, "load %.1f", tc.load1)
		if tc.kind == types.OutcomeWarn || tc.kind == types.OutcomeFail {
			assert.Equal(t, tc.severity, out.Severity)
		}
	}
}

func TestCPULoad_MissingFacts(t *testing.T) {
	out := evalCPULoad(context.Background(), &probe.Context{})
	assert.Equal(t, types.OutcomeProbeError, out.Kind)

	out = evalCPULoad(context.Background(), &probe.Context{Load: &probe.LoadFacts{Load1: 1}})
	assert.Equal(t, types.OutcomeProbeError, out.Kind)
}

// ── humanBytes ───────────────────────────────────────────────────────

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512.0 B", humanBytes(512))
	assert.Equal(t, "1.0 KiB", humanBytes(1024))
	assert.Equal(t, "1.5 MiB", humanBytes(1536*1024))
	assert.Equal(t, "2.0 GiB", humanBytes(2*1024*1024*1024))
}
