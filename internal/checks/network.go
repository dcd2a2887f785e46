package checks

import (
	"context"
	"fmt"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

func listeningPorts() registry.Check {
	return registry.Check{
		ID:          "network.listening_ports",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityMedium,
		Title:       "Public listening ports are limited",
		Description: "Every publicly bound socket is attack surface; most services only need localhost.",
		Remediation: "Close unnecessary ports, bind services to localhost, and front the rest with a firewall.",
		Eval:        evalListeningPorts,
	}
}

// evalListeningPorts escalates to high when ten or more sockets face the
// network: at that point the host looks unmanaged, not just busy.
func evalListeningPorts(_ context.Context, facts *probe.Context) types.Outcome {
	ports, err := facts.ListeningPorts()
	if err != nil {
		return types.ProbeError(err.Error())
	}

	total := len(ports)
	public := 0
	for _, p := range ports {
		if p.Public {
			public++
		}
	}
	detail := fmt.Sprintf("listening ports total: %d, public: %d", total, public)

	switch {
	case total < 10 && public < 3:
		return types.Pass(detail)
	case total < 20 && public < 5:
		return types.Warn(detail, types.SeverityMedium)
	case public >= 10:
		return types.Fail(detail, types.SeverityHigh)
	default:
		return types.Fail(detail, types.SeverityMedium)
	}
}
