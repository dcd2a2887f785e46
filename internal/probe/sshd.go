package probe

import (
	"context"
	"fmt"
	"strings"
)

// SSHDConfig holds the effective sshd configuration as lowercase
// keyword/value pairs.
type SSHDConfig struct {
	// Values maps lowercase keywords to their first value.
	Values map[string]string

	// Source records where the configuration came from: "sshd -T" for the
	// effective runtime dump, or the config file path for the fallback parse.
	Source string
}

// Value returns the configured value for a lowercase keyword, or the given
// default when the keyword is absent (sshd defaults are implicit in -T
// output only when sshd resolves them itself).
func (s *SSHDConfig) Value(keyword, def string) string {
	if v, ok := s.Values[keyword]; ok {
		return v
	}
	return def
}

// DumpSSHD obtains the sshd configuration. It prefers `sshd -T` (the
// effective config after includes and match blocks), falling back to
// parsing /etc/ssh/sshd_config when the binary is unavailable.
func DumpSSHD(ctx context.Context, runner *Runner, fsRoot string) (*SSHDConfig, error) {
	if runner != nil {
		if out, err := runner.Execute(ctx, "sshd", []string{"-T"}); err == nil {
			return &SSHDConfig{
				Values: parseSSHDOutput(string(out), false),
				Source: "sshd -T",
			}, nil
		}
	}

	fallback := &Context{FSRoot: fsRoot}
	data, err := fallback.ReadFile("/etc/ssh/sshd_config")
	if err != nil {
		return nil, fmt.Errorf("sshd -T unavailable and sshd_config unreadable: %w", err)
	}

	return &SSHDConfig{
		Values: parseSSHDOutput(string(data), true),
		Source: "/etc/ssh/sshd_config",
	}, nil
}

// parseSSHDOutput parses keyword/value lines. When fromFile is true,
// comments and blank lines are skipped and keywords are case-folded
// (sshd -T output is already lowercase and comment-free).
func parseSSHDOutput(raw string, fromFile bool) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if fromFile && strings.HasPrefix(line, "#") {
			continue
		}

		key, val, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		// First occurrence wins, matching sshd's own semantics.
		if _, seen := values[key]; !seen {
			values[key] = val
		}
	}
	return values
}
