package probe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PortInfo describes one listening socket.
type PortInfo struct {
	Port   uint16
	Proto  string // tcp, tcp6, udp, udp6
	Public bool   // bound to something other than loopback
}

// tcpListenState is the TCP_LISTEN state code in /proc/net/tcp.
const tcpListenState = "0A"

// ListeningPorts parses the kernel's socket tables under /proc/net and
// returns the deduplicated, sorted set of listening ports. TCP sockets must
// be in LISTEN state; every bound UDP socket counts as open.
func (c *Context) ListeningPorts() ([]PortInfo, error) {
	tables := []struct {
		path  string
		proto string
	}{
		{"/proc/net/tcp", "tcp"},
		{"/proc/net/tcp6", "tcp6"},
		{"/proc/net/udp", "udp"},
		{"/proc/net/udp6", "udp6"},
	}

	seen := make(map[PortInfo]bool)
	readAny := false
	for _, t := range tables {
		data, err := c.ReadFile(t.path)
		if err != nil {
			// Individual tables may be absent (e.g. no IPv6).
			continue
		}
		readAny = true
		parseProcNet(string(data), t.proto, seen)
	}

	if !readAny {
		return nil, fmt.Errorf("no socket tables readable under /proc/net")
	}

	ports := make([]PortInfo, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].Port != ports[j].Port {
			return ports[i].Port < ports[j].Port
		}
		return ports[i].Proto < ports[j].Proto
	})
	return ports, nil
}

// parseProcNet extracts listening sockets from one /proc/net table.
// Columns: sl local_address rem_address st ... where local_address is
// hex ip:port and st is the hex socket state.
func parseProcNet(content, proto string, seen map[PortInfo]bool) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		cols := strings.Fields(line)
		if len(cols) < 4 {
			continue
		}

		local := cols[1]
		state := cols[3]
		if strings.HasPrefix(proto, "tcp") && state != tcpListenState {
			continue
		}

		ipHex, portHex, found := strings.Cut(local, ":")
		if !found {
			continue
		}
		port, err := strconv.ParseUint(portHex, 16, 16)
		if err != nil {
			continue
		}

		seen[PortInfo{
			Port:   uint16(port),
			Proto:  proto,
			Public: !isLoopbackHex(ipHex, proto),
		}] = true
	}
}

// isLoopbackHex reports whether a /proc/net hex address is the loopback
// address. IPv4 addresses are little-endian in /proc (127.0.0.1 = 0100007F).
func isLoopbackHex(ipHex, proto string) bool {
	if strings.HasSuffix(proto, "6") {
		return ipHex == "00000000000000000000000000000001"
	}
	return strings.EqualFold(ipHex, "0100007F")
}
