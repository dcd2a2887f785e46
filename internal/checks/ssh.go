package checks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

const sshdNotFound = "OpenSSH server configuration not found"

func sshRootLogin() registry.Check {
	return registry.Check{
		ID:          "ssh.root_login",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityMedium,
		Title:       "SSH root login is disabled",
		Description: "Direct root login over SSH removes accountability and is the first target of credential attacks.",
		Remediation: "Set 'PermitRootLogin no' (or 'prohibit-password') in sshd_config, then reload sshd.",
		Eval:        evalSSHRootLogin,
	}
}

// evalSSHRootLogin escalates to critical when root login is both enabled
// and password-based: that combination is directly brute-forceable.
func evalSSHRootLogin(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.SSHD == nil {
		return types.Skipped(sshdNotFound)
	}

	value := facts.SSHD.Value("permitrootlogin", "prohibit-password")
	if value == "no" || value == "prohibit-password" {
		return types.Pass(fmt.Sprintf("PermitRootLogin is %q", value))
	}

	if facts.SSHD.Value("passwordauthentication", "yes") == "yes" {
		return types.Fail(
			fmt.Sprintf("PermitRootLogin is %q with password authentication enabled", value),
			types.SeverityCritical)
	}
	return types.Fail(
		fmt.Sprintf("PermitRootLogin is %q (should be 'no' or 'prohibit-password')", value),
		types.SeverityHigh)
}

func sshPasswordAuth() registry.Check {
	return registry.Check{
		ID:          "ssh.password_auth",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityHigh,
		Title:       "SSH password authentication is disabled",
		Description: "Password authentication exposes SSH to brute-force and credential-stuffing attacks.",
		Remediation: "Set 'PasswordAuthentication no' in sshd_config and enforce key-based authentication.",
		Eval:        evalSSHPasswordAuth,
	}
}

func evalSSHPasswordAuth(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.SSHD == nil {
		return types.Skipped(sshdNotFound)
	}

	value := facts.SSHD.Value("passwordauthentication", "yes")
	if value == "no" {
		return types.Pass("PasswordAuthentication is 'no'")
	}
	return types.Fail(
		fmt.Sprintf("PasswordAuthentication is %q (should be 'no')", value),
		types.SeverityHigh)
}

func sshPort() registry.Check {
	return registry.Check{
		ID:          "ssh.port",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityLow,
		Title:       "SSH uses a non-default privileged port",
		Description: "Port 22 attracts constant scanning; unprivileged ports can be rebound by any local user after a daemon crash.",
		Remediation: "Pick a port below the unprivileged range start (and not 22), update sshd_config, and reload sshd.",
		Eval:        evalSSHPort,
	}
}

func evalSSHPort(_ context.Context, facts *probe.Context) types.Outcome {
	if facts.SSHD == nil {
		return types.Skipped(sshdNotFound)
	}

	portStr := facts.SSHD.Value("port", "22")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 22
	}

	unprivStart := unprivilegedPortStart(facts)
	switch {
	case port == 22:
		return types.Warn("using default SSH port 22", types.SeverityLow)
	case port >= unprivStart:
		return types.Fail(
			fmt.Sprintf("using unprivileged port %d (>= %d)", port, unprivStart),
			types.SeverityMedium)
	default:
		return types.Pass(fmt.Sprintf("using privileged non-default port %d (< %d)", port, unprivStart))
	}
}

// unprivilegedPortStart reads the kernel tunable for where unprivileged
// ports begin, defaulting to 1024 when procfs is unreadable.
func unprivilegedPortStart(facts *probe.Context) int {
	data, err := facts.ReadFile("/proc/sys/net/ipv4/ip_unprivileged_port_start")
	if err != nil {
		return 1024
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 1024
	}
	return n
}
