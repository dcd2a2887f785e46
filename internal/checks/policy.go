package checks

import (
	"context"
	"strconv"
	"strings"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

func sudoLogging() registry.Check {
	return registry.Check{
		ID:          "policy.sudo_logging",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityMedium,
		Title:       "Sudo logging is enabled",
		Description: "Without a sudo logfile, privileged activity leaves no dedicated audit trail.",
		Remediation: "Add 'Defaults logfile=/var/log/sudo.log' to /etc/sudoers via visudo.",
		Eval:        evalSudoLogging,
	}
}

func evalSudoLogging(_ context.Context, facts *probe.Context) types.Outcome {
	data, err := facts.ReadFile("/etc/sudoers")
	if err != nil {
		// Commonly permission denied when unprivileged: the host state is
		// unknown, not proven bad.
		return types.ProbeError(err.Error())
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Defaults") && strings.Contains(line, "logfile") {
			return types.Pass("found 'Defaults logfile' in /etc/sudoers")
		}
	}
	return types.Fail("no 'Defaults logfile' directive in /etc/sudoers", types.SeverityMedium)
}

func passwordPolicy() registry.Check {
	return registry.Check{
		ID:          "policy.password_policy",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityMedium,
		Title:       "Strong password policy is enforced",
		Description: "Short passwords fall quickly to offline and online guessing.",
		Remediation: "Configure /etc/security/pwquality.conf with 'minlen=12' or higher.",
		Eval:        evalPasswordPolicy,
	}
}

// minPasswordLength is the minimum acceptable pwquality minlen.
const minPasswordLength = 12

func evalPasswordPolicy(_ context.Context, facts *probe.Context) types.Outcome {
	exists, err := facts.FileExists("/etc/security/pwquality.conf")
	if err != nil {
		return types.ProbeError(err.Error())
	}
	if !exists {
		return types.Fail("no password quality policy configured", types.SeverityMedium)
	}

	data, err := facts.ReadFile("/etc/security/pwquality.conf")
	if err != nil {
		return types.ProbeError(err.Error())
	}

	for _, line := range strings.Split(string(data), "\n") {
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "minlen") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n >= minPasswordLength {
			return types.Pass("minlen >= 12 configured")
		}
	}
	return types.Fail("minlen < 12 or not configured", types.SeverityMedium)
}
