package checks

import (
	"context"
	"fmt"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

func rebootRequired() registry.Check {
	return registry.Check{
		ID:          "system.reboot_required",
		Category:    types.CategoryLinux,
		Severity:    types.SeverityLow,
		Title:       "System does not require a reboot",
		Description: "A pending reboot usually means kernel or libc updates are installed but not active.",
		Remediation: "Reboot to apply pending updates.",
		Eval:        evalRebootRequired,
	}
}

func evalRebootRequired(_ context.Context, facts *probe.Context) types.Outcome {
	required, err := facts.FileExists("/var/run/reboot-required")
	if err != nil {
		return types.ProbeError(err.Error())
	}
	if required {
		return types.Warn("system indicates a reboot is required", types.SeverityLow)
	}
	return types.Pass("no reboot required")
}

func diskUsage() registry.Check {
	return registry.Check{
		ID:          "system.disk_usage",
		Category:    types.CategoryPerformance,
		Severity:    types.SeverityMedium,
		Title:       "Disk usage is healthy",
		Description: "A full root filesystem breaks logging, package updates, and most services.",
		Remediation: "Clean unused files, logs, and images, or expand the disk.",
		Eval:        evalDiskUsage,
	}
}

// evalDiskUsage escalates to high at 90% used: at that point the host is
// close to a hard failure, not just degraded.
func evalDiskUsage(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.Disk == nil {
		return types.ProbeError("disk usage facts unavailable")
	}

	used := facts.Disk.UsedPercent
	detail := fmt.Sprintf("disk used: %.0f%% (total: %s, free: %s)",
		used, humanBytes(facts.Disk.TotalBytes), humanBytes(facts.Disk.FreeBytes))

	switch {
	case used < 50:
		return types.Pass(detail)
	case used < 80:
		return types.Warn(detail, types.SeverityMedium)
	case used < 90:
		return types.Fail(detail, types.SeverityMedium)
	default:
		return types.Fail(detail, types.SeverityHigh)
	}
}

func memoryUsage() registry.Check {
	return registry.Check{
		ID:          "system.memory_usage",
		Category:    types.CategoryPerformance,
		Severity:    types.SeverityMedium,
		Title:       "Memory usage is healthy",
		Description: "Sustained memory pressure leads to swapping and OOM kills.",
		Remediation: "Reduce memory usage, tune services, or add RAM/swap.",
		Eval:        evalMemoryUsage,
	}
}

func evalMemoryUsage(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.Memory == nil || facts.Memory.TotalBytes == 0 {
		return types.ProbeError("memory facts unavailable")
	}

	total := float64(facts.Memory.TotalBytes)
	avail := float64(facts.Memory.AvailableBytes)
	used := (1 - avail/total) * 100
	detail := fmt.Sprintf("memory used: %.0f%% (total: %s, available: %s)",
		used, humanBytes(facts.Memory.TotalBytes), humanBytes(facts.Memory.AvailableBytes))

	switch {
	case used < 50:
		return types.Pass(detail)
	case used < 80:
		return types.Warn(detail, types.SeverityMedium)
	case used < 90:
		return types.Fail(detail, types.SeverityMedium)
	default:
		return types.Fail(detail, types.SeverityHigh)
	}
}

func cpuLoad() registry.Check {
	return registry.Check{
		ID:          "system.cpu_load",
		Category:    types.CategoryPerformance,
		Severity:    types.SeverityMedium,
		Title:       "CPU load is healthy",
		Description: "Load persistently above core count means work is queueing.",
		Remediation: "Investigate high-CPU processes, tune services, or scale resources.",
		Eval:        evalCPULoad,
	}
}

func evalCPULoad(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.Load == nil || facts.Load.CPUCount == 0 {
		return types.ProbeError("load average facts unavailable")
	}

	ratio := facts.Load.Load1 / float64(facts.Load.CPUCount)
	detail := fmt.Sprintf("load(1m): %.2f, cores: %d, ratio: %.2f",
		facts.Load.Load1, facts.Load.CPUCount, ratio)

	switch {
	case ratio < 0.5:
		return types.Pass(detail)
	case ratio < 0.9:
		return types.Warn(detail, types.SeverityMedium)
	case ratio < 1.5:
		return types.Fail(detail, types.SeverityMedium)
	default:
		return types.Fail(detail, types.SeverityHigh)
	}
}

// humanBytes formats a byte count in IEC units.
func humanBytes(n uint64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	v := float64(n)
	idx := 0
	for v >= 1024 && idx < len(units)-1 {
		v /= 1024
		idx++
	}
	return fmt.Sprintf("%.1f %s", v, units[idx])
}
