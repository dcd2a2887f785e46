package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsgate/vigil/internal/types"
)

// ── policy.sudo_logging ──────────────────────────────────────────────

func TestSudoLogging_Configured(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/sudoers": "Defaults env_reset\nDefaults logfile=/var/log/sudo.log\n",
	})
	out := evalSudoLogging(context.Background(), facts)
	assert.Equal(t, types.OutcomePass, out.Kind)
}

func TestSudoLogging_NotConfigured(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/sudoers": "Defaults env_reset\nroot ALL=(ALL:ALL) ALL\n",
	})
	out := evalSudoLogging(context.Background(), facts)
	assert.Equal(t, types.OutcomeFail, out.Kind)
	assert.Equal(t, types.SeverityMedium, out.Severity)
}

func TestSudoLogging_UnreadableSudoers(t *testing.T) {
	facts := fixtureContext(t, nil)
	out := evalSudoLogging(context.Background(), facts)
	assert.Equal(t, types.OutcomeProbeError, out.Kind)
}

// ── policy.password_policy ───────────────────────────────────────────

func TestPasswordPolicy_StrongMinlen(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/security/pwquality.conf": "# pwquality\nminlen = 14\ndcredit = -1\n",
	})
	out := evalPasswordPolicy(context.Background(), facts)
	assert.Equal(t, types.OutcomePass, out.Kind)
}

func TestPasswordPolicy_WeakMinlen(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/security/pwquality.conf": "minlen = 8\n",
	})
	out := evalPasswordPolicy(context.Background(), facts)
	assert.Equal(t, types.OutcomeFail, out.Kind)
}

func TestPasswordPolicy_MinlenMissing(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/security/pwquality.conf": "dcredit = -1\n",
	})
	out := evalPasswordPolicy(context.Background(), facts)
	assert.Equal(t, types.OutcomeFail, out.Kind)
}

func TestPasswordPolicy_CommentedMinlenIgnored(t *testing.T) {
	facts := fixtureContext(t, map[string]string{
		"etc/security/pwquality.conf": "# minlen = 16\n",
	})
	out := evalPasswordPolicy(context.Background(), facts)
	assert.Equal(t, types.OutcomeFail, out.Kind)
}

func TestPasswordPolicy_NoConfigFile(t *testing.T) {
	facts := fixtureContext(t, nil)
	out := evalPasswordPolicy(context.Background(), facts)
	assert.Equal(t, types.OutcomeFail, out.Kind)
	assert.Contains(t, out.Detail, "no password quality policy")
}
