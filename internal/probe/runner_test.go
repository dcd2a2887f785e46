package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── allowlist membership ─────────────────────────────────────────────

func TestRunner_IsAllowed(t *testing.T) {
	r := NewRunner()

	for _, cmd := range []string{"sshd", "systemctl", "ss", "ufw", "nft"} {
		assert.True(t, r.IsAllowed(cmd), cmd)
	}
	for _, cmd := range []string{"bash", "rm", "curl", ""} {
		assert.False(t, r.IsAllowed(cmd), cmd)
	}
}

func TestRunner_ExecuteRejectsUnlistedCommand(t *testing.T) {
	r := NewRunner()
	_, err := r.Execute(context.Background(), "rm", []string{"-rf", "/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in allowlist")
}

// ── argument validation ──────────────────────────────────────────────

func TestValidateArgs_AllowedFlag(t *testing.T) {
	spec := CommandSpec{AllowedFlags: []string{"-T"}, MaxArgs: 0}
	assert.NoError(t, validateArgs(spec, []string{"-T"}))
}

func TestValidateArgs_DisallowedFlag(t *testing.T) {
	spec := CommandSpec{AllowedFlags: []string{"-T"}, MaxArgs: 0}
	err := validateArgs(spec, []string{"-D"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestValidateArgs_PositionalLimit(t *testing.T) {
	spec := CommandSpec{AllowedFlags: []string{"is-active"}, MaxArgs: 2}
	assert.NoError(t, validateArgs(spec, []string{"is-active", "sshd"}))

	err := validateArgs(spec, []string{"is-active", "sshd", "nginx", "cron"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many positional")
}

func TestValidateArgs_NoArgs(t *testing.T) {
	spec := CommandSpec{MaxArgs: 0}
	assert.NoError(t, validateArgs(spec, nil))
}

func TestValidateArgs_FlagInjectionBlocked(t *testing.T) {
	// Anything dash-prefixed must be explicitly allowlisted.
	spec := CommandSpec{AllowedFlags: nil, MaxArgs: 2}
	err := validateArgs(spec, []string{"--interactive"})
	assert.Error(t, err)
}

// ── allowlist shape ──────────────────────────────────────────────────

func TestNewRunner_SpecsHaveTimeouts(t *testing.T) {
	r := NewRunner()
	for name, spec := range r.allowlist {
		assert.Greater(t, spec.Timeout, time.Duration(0), name)
		assert.NotEmpty(t, spec.Path, name)
	}
}
