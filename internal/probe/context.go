// Package probe gathers raw facts from the live system for checks to
// evaluate. A Context is collected once per run and is read-only afterwards;
// individual fact groups are nil when they could not be collected, and
// checks surface that as a probe error rather than a finding.
package probe

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

// HostFacts describes the host's identity.
type HostFacts struct {
	Hostname      string
	OS            string // platform pretty identity, e.g. "ubuntu 22.04"
	KernelVersion string
	Arch          string
	UptimeSeconds uint64
}

// MemoryFacts describes physical memory and swap.
type MemoryFacts struct {
	TotalBytes     uint64
	AvailableBytes uint64
	SwapTotalBytes uint64
}

// DiskFacts describes root filesystem usage.
type DiskFacts struct {
	TotalBytes  uint64
	FreeBytes   uint64
	UsedPercent float64
}

// LoadFacts describes CPU load.
type LoadFacts struct {
	Load1    float64
	CPUCount int
}

// Context holds every fact available to check evaluations. Fact groups are
// nil when collection failed; file and command helpers remain usable.
type Context struct {
	Host   *HostFacts
	Memory *MemoryFacts
	Disk   *DiskFacts
	Load   *LoadFacts
	SSHD   *SSHDConfig

	// FSRoot prefixes every file probe path. Empty means the real
	// filesystem root; tests point it at a fixture directory.
	FSRoot string

	// Runner executes allowlisted external commands.
	Runner *Runner

	log *zap.Logger
}

// Collect gathers all fact groups best-effort. Individual collection
// failures are logged and leave the group nil; they never abort the run.
func Collect(ctx context.Context, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Context{
		Runner: NewRunner(),
		log:    logger,
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		c.Host = &HostFacts{
			Hostname:      info.Hostname,
			OS:            info.Platform + " " + info.PlatformVersion,
			KernelVersion: info.KernelVersion,
			Arch:          runtime.GOARCH,
			UptimeSeconds: info.Uptime,
		}
	} else {
		logger.Warn("host facts unavailable", zap.Error(err))
	}

	vm, vmErr := mem.VirtualMemoryWithContext(ctx)
	if vmErr != nil {
		logger.Warn("memory facts unavailable", zap.Error(vmErr))
	} else {
		facts := &MemoryFacts{
			TotalBytes:     vm.Total,
			AvailableBytes: vm.Available,
		}
		if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
			facts.SwapTotalBytes = swap.Total
		}
		c.Memory = facts
	}

	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		c.Disk = &DiskFacts{
			TotalBytes:  usage.Total,
			FreeBytes:   usage.Free,
			UsedPercent: usage.UsedPercent,
		}
	} else {
		logger.Warn("disk facts unavailable", zap.Error(err))
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		c.Load = &LoadFacts{
			Load1:    avg.Load1,
			CPUCount: runtime.NumCPU(),
		}
	} else {
		logger.Warn("load facts unavailable", zap.Error(err))
	}

	sshd, err := DumpSSHD(ctx, c.Runner, c.FSRoot)
	if err != nil {
		logger.Debug("sshd configuration unavailable", zap.Error(err))
	} else {
		c.SSHD = sshd
	}

	return c
}
