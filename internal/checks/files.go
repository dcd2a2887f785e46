package checks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

// allowedSUIDPrefixes are standard locations where SUID binaries live.
var allowedSUIDPrefixes = []string{
	"/usr/bin",
	"/bin",
	"/sbin",
	"/usr/sbin",
	"/usr/lib",
	"/usr/libexec",
}

// knownSUIDBinaries are the usual legitimate SUID binaries.
var knownSUIDBinaries = []string{
	"/usr/bin/ping",
	"/usr/bin/sudo",
	"/bin/mount",
	"/bin/umount",
	"/bin/su",
	"/usr/bin/passwd",
	"/usr/bin/chsh",
	"/usr/bin/newgrp",
	"/usr/bin/gpasswd",
	"/usr/bin/chfn",
}

func suidFiles() registry.Check {
	return registry.Check{
		ID:          "files.suid_unexpected",
		Category:    types.CategorySecurity,
		Severity:    types.SeverityHigh,
		Title:       "No unexpected SUID files outside standard locations",
		Description: "SUID binaries outside the usual paths are a common persistence and privilege-escalation mechanism.",
		Remediation: "Investigate each SUID file; remove the SUID bit where it is unnecessary.",
		Eval:        evalSUIDFiles,
	}
}

// evalSUIDFiles walks the filesystem counting SUID binaries outside the
// allowed locations. The walk checks ctx at every entry so the engine's
// per-check deadline cuts off a runaway scan of a huge filesystem.
func evalSUIDFiles(ctx context.Context, facts *probe.Context) types.Outcome {
	root := facts.WalkRoot()
	suspicious := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable subtrees (proc, other users' homes) are expected.
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode()&os.ModeSetuid == 0 {
			return nil
		}

		if !isExpectedSUID(rootRelative(root, path)) {
			suspicious++
		}
		return nil
	})
	if err != nil {
		return types.ProbeError(fmt.Sprintf("filesystem walk interrupted: %v", err))
	}

	if suspicious == 0 {
		return types.Pass("no unexpected SUID files found")
	}
	return types.Warn(
		fmt.Sprintf("found %d SUID file(s) outside standard locations", suspicious),
		types.SeverityHigh)
}

// rootRelative converts a walked path back to an absolute path as the host
// sees it, so fixture trees compare against the same prefixes as a real root.
func rootRelative(root, path string) string {
	if root == "/" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return "/" + filepath.ToSlash(rel)
}

func isExpectedSUID(path string) bool {
	for _, prefix := range allowedSUIDPrefixes {
		if strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	for _, known := range knownSUIDBinaries {
		if strings.HasSuffix(path, known) {
			return true
		}
	}
	return false
}
