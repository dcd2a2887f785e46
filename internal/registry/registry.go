// Package registry holds the fixed catalog of audit checks.
package registry

import (
	"context"
	"fmt"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/types"
)

// EvalFunc evaluates one check against the collected host facts and returns
// a typed outcome. Implementations must honor ctx cancellation for anything
// slow (filesystem walks, command invocations).
type EvalFunc func(ctx context.Context, facts *probe.Context) types.Outcome

// Check is a single named audit rule. Immutable after registration.
type Check struct {
	// ID is the unique check identifier, e.g. "ssh.root_login".
	ID string

	// Category is the check's primary category.
	Category types.Category

	// Severity is the static severity class. Warn/Fail outcomes may carry an
	// observed severity that overrides it for that result.
	Severity types.Severity

	// Title is the one-line human-readable summary.
	Title string

	// Description explains what the check inspects.
	Description string

	// Remediation is the advice shown for non-passing results.
	Remediation string

	// Eval produces the check's outcome.
	Eval EvalFunc
}

// Registry is the catalog of all registered checks. Registration order is
// the canonical order: Select preserves it, and the execution engine emits
// results in it regardless of which check finishes first.
type Registry struct {
	checks []Check
	index  map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a check to the catalog. It fails fast on duplicate IDs,
// missing fields, and categories outside the fixed set — all of these are
// configuration errors that must abort before any probe runs.
func (r *Registry) Register(c Check) error {
	if c.ID == "" {
		return fmt.Errorf("check with empty ID (title %q)", c.Title)
	}
	if _, exists := r.index[c.ID]; exists {
		return fmt.Errorf("duplicate check ID %q", c.ID)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("check %q has unknown category %q", c.ID, c.Category)
	}
	if c.Eval == nil {
		return fmt.Errorf("check %q has no evaluation function", c.ID)
	}

	r.index[c.ID] = len(r.checks)
	r.checks = append(r.checks, c)
	return nil
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	return len(r.checks)
}

// Select returns the checks matching the category set, in canonical
// registration order. A nil set selects every check. The caller validates
// the set via types.ParseCategorySet before any probe executes.
func (r *Registry) Select(categories map[types.Category]bool) []Check {
	if categories == nil {
		out := make([]Check, len(r.checks))
		copy(out, r.checks)
		return out
	}

	var out []Check
	for _, c := range r.checks {
		if categories[c.Category] {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the check with the given ID.
func (r *Registry) Lookup(id string) (Check, bool) {
	i, ok := r.index[id]
	if !ok {
		return Check{}, false
	}
	return r.checks[i], true
}
