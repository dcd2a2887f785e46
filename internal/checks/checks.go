// Package checks defines the built-in audit checks: what each one
// inspects, its static severity class, and its escalation rules.
package checks

import (
	"github.com/opsgate/vigil/internal/registry"
)

// All returns every built-in check in canonical order. This order is the
// registry order and therefore the report order.
func All() []registry.Check {
	return []registry.Check{
		sshRootLogin(),
		sshPasswordAuth(),
		sshPort(),
		rebootRequired(),
		diskUsage(),
		memoryUsage(),
		cpuLoad(),
		sudoLogging(),
		passwordPolicy(),
		suidFiles(),
		listeningPorts(),
		firewallPresence(),
		nftablesPolicy(),
	}
}

// RegisterAll registers every built-in check. A registration error (such as
// a duplicate ID) is a configuration error that aborts the run.
func RegisterAll(r *registry.Registry) error {
	for _, c := range All() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
