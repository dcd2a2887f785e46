package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgate/vigil/internal/output"
	"github.com/opsgate/vigil/internal/types"
)

// ── parseFlags tests ─────────────────────────────────────────────────

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, output.FormatText, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Interactive)
	assert.Empty(t, cfg.Categories)
	assert.Zero(t, cfg.Concurrency)
	assert.Zero(t, cfg.Timeout)
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"--format", "json",
		"--verbose",
		"--strict",
		"--categories", "security,linux",
		"--concurrency", "4",
		"--timeout", "10s",
		"--no-color",
		"--debug",
	})
	require.NoError(t, err)

	assert.Equal(t, output.FormatJSON, cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "security,linux", cfg.Categories)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Debug)
}

func TestParseFlags_Shorthands(t *testing.T) {
	cfg, err := parseFlags([]string{"-f", "json", "-v", "-i", "-c", "performance"})
	require.NoError(t, err)

	assert.Equal(t, output.FormatJSON, cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, "performance", cfg.Categories)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"--bogus"})
	assert.Error(t, err)
}

// ── validateConfig tests ─────────────────────────────────────────────

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := &Config{Format: output.FormatText}
	categories, code := validateConfig(cfg)
	assert.Equal(t, -1, code)
	assert.Nil(t, categories) // nil means all
}

func TestValidateConfig_InvalidFormat(t *testing.T) {
	cfg := &Config{Format: "xml"}
	_, code := validateConfig(cfg)
	assert.Equal(t, exitConfig, code)
}

func TestValidateConfig_InteractiveJSONConflict(t *testing.T) {
	cfg := &Config{Format: output.FormatJSON, Interactive: true}
	_, code := validateConfig(cfg)
	assert.Equal(t, exitConfig, code)
}

func TestValidateConfig_InteractiveTextAllowed(t *testing.T) {
	cfg := &Config{Format: output.FormatText, Interactive: true}
	_, code := validateConfig(cfg)
	assert.Equal(t, -1, code)
}

func TestValidateConfig_UnknownCategory(t *testing.T) {
	cfg := &Config{Format: output.FormatText, Categories: "networking"}
	_, code := validateConfig(cfg)
	assert.Equal(t, exitConfig, code)
}

func TestValidateConfig_ValidCategories(t *testing.T) {
	cfg := &Config{Format: output.FormatText, Categories: "security,performance"}
	categories, code := validateConfig(cfg)
	assert.Equal(t, -1, code)
	assert.True(t, categories[types.CategorySecurity])
	assert.True(t, categories[types.CategoryPerformance])
	assert.False(t, categories[types.CategoryLinux])
}

// ── applyConfigFile tests ────────────────────────────────────────────

func TestApplyConfigFile_NoFile(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, -1, applyConfigFile(cfg))
}

func TestApplyConfigFile_MissingFile(t *testing.T) {
	cfg := &Config{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}
	assert.Equal(t, exitConfig, applyConfigFile(cfg))
}

func TestApplyConfigFile_FileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.yaml")
	content := "concurrency: 3\ncheck_timeout_seconds: 7\ncategories: security\nno_color: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &Config{ConfigFile: path}
	require.Equal(t, -1, applyConfigFile(cfg))

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "security", cfg.Categories)
	assert.True(t, cfg.NoColor)
}

func TestApplyConfigFile_FlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.yaml")
	content := "concurrency: 3\ncategories: security\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &Config{ConfigFile: path, Concurrency: 8, Categories: "linux"}
	require.Equal(t, -1, applyConfigFile(cfg))

	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "linux", cfg.Categories)
}

// ── verdict exit code tests ──────────────────────────────────────────

func TestVerdictExitCode_NonStrictAlwaysPasses(t *testing.T) {
	rep := &types.AuditReport{Verdict: types.Verdict{StrictEnabled: false, Status: types.VerdictPass}}
	assert.Equal(t, exitPass, verdictExitCode(rep))
}

func TestVerdictExitCode_StrictPass(t *testing.T) {
	rep := &types.AuditReport{Verdict: types.Verdict{StrictEnabled: true, Status: types.VerdictPass}}
	assert.Equal(t, exitPass, verdictExitCode(rep))
}

func TestVerdictExitCode_StrictFail(t *testing.T) {
	rep := &types.AuditReport{Verdict: types.Verdict{StrictEnabled: true, Status: types.VerdictFail}}
	assert.Equal(t, exitVerdict, verdictExitCode(rep))
}
