package checks

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

func firewallPresence() registry.Check {
	return registry.Check{
		ID:          "firewall.presence",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityHigh,
		Title:       "A firewall is installed and configured",
		Description: "Without a host firewall every listening service is reachable from anywhere that routes to the host.",
		Remediation: "Install and enable nftables (preferred) or UFW with a default-deny inbound policy and explicit allows.",
		Eval:        evalFirewallPresence,
	}
}

// firewallMarkers are config files and systemd units whose presence
// indicates firewall tooling is installed. Presence is not activity, so the
// best possible outcome here is a warning to verify the rules.
var firewallMarkers = map[string][]string{
	"nftables": {
		"/etc/nftables.conf",
		"/etc/nftables",
		"/lib/systemd/system/nftables.service",
		"/etc/systemd/system/nftables.service",
	},
	"ufw": {
		"/etc/ufw/ufw.conf",
		"/lib/systemd/system/ufw.service",
		"/etc/systemd/system/ufw.service",
	},
	"iptables": {
		"/etc/iptables",
	},
}

func evalFirewallPresence(_ context.Context, facts *probe.Context) types.Outcome {
	var detected []string
	for tool, paths := range firewallMarkers {
		for _, p := range paths {
			if exists, err := facts.FileExists(p); err == nil && exists {
				detected = append(detected, tool)
				break
			}
		}
	}

	if len(detected) == 0 {
		return types.Fail("no firewall tooling detected", types.SeverityHigh)
	}
	return types.Warn(
		fmt.Sprintf("firewall tooling detected (%s) — verify active rules", strings.Join(sortedUnique(detected), ", ")),
		types.SeverityMedium)
}

func nftablesPolicy() registry.Check {
	return registry.Check{
		ID:          "firewall.nftables_policy",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityMedium,
		Title:       "nftables has a default-deny inbound policy",
		Description: "An allow-by-default input chain protects nothing; inbound traffic must be dropped unless explicitly allowed.",
		Remediation: "Define 'chain input { type filter hook input priority 0; policy drop; ... }' with explicit allows.",
		Eval:        evalNftablesPolicy,
	}
}

// evalNftablesPolicy parses the nftables config files best-effort for an
// input chain with a drop policy.
func evalNftablesPolicy(_ context.Context, facts *probe.Context) types.Outcome {
	content := gatherNftablesConfig(facts)
	if content == "" {
		return types.Skipped("no nftables configuration files found")
	}

	hasInputChain := strings.Contains(content, "chain input")
	hasDefaultDrop := false
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "policy drop") &&
			(strings.Contains(line, "type filter hook input") || strings.Contains(line, "chain input")) {
			hasDefaultDrop = true
			break
		}
	}

	if hasInputChain && hasDefaultDrop {
		return types.Pass("found input chain with policy drop")
	}
	return types.Warn("default drop policy not clearly configured in nftables", types.SeverityMedium)
}

// gatherNftablesConfig concatenates /etc/nftables.conf and every *.conf
// under /etc/nftables.
func gatherNftablesConfig(facts *probe.Context) string {
	var b strings.Builder

	if data, err := facts.ReadFile("/etc/nftables.conf"); err == nil {
		b.Write(data)
		b.WriteByte('\n')
	}

	if entries, err := facts.ReadDir("/etc/nftables"); err == nil {
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".conf" {
				continue
			}
			if data, err := facts.ReadFile("/etc/nftables/" + e.Name()); err == nil {
				b.Write(data)
				b.WriteByte('\n')
			}
		}
	}

	return strings.TrimSpace(b.String())
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
