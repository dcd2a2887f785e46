package types

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies which aspect of the host a check inspects.
type Category string

const (
	// CategorySecurity covers authentication, exposure, and hardening checks.
	CategorySecurity Category = "security"
	// CategoryLinux covers Linux-specific OS configuration checks.
	CategoryLinux Category = "linux"
	// CategoryPerformance covers resource usage and capacity checks.
	CategoryPerformance Category = "performance"
)

// CategoryAll is the pseudo-category that selects every registered check.
const CategoryAll = "all"

// validCategories is the fixed category set. Checks outside this set are
// rejected at registration time.
var validCategories = map[Category]bool{
	CategorySecurity:    true,
	CategoryLinux:       true,
	CategoryPerformance: true,
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	return validCategories[c]
}

// CategoryNames returns the sorted names of the fixed category set.
func CategoryNames() []string {
	names := make([]string, 0, len(validCategories))
	for c := range validCategories {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// ParseCategorySet parses a comma-separated category list into a set.
// An empty string or "all" selects every category (returns nil).
// Unknown or empty elements are a configuration error: the caller must
// abort before any probe executes.
func ParseCategorySet(raw string) (map[Category]bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == CategoryAll {
		return nil, nil
	}

	set := make(map[Category]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			return nil, fmt.Errorf("empty category in %q", raw)
		}
		c := Category(name)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category %q (valid: %s)",
				name, strings.Join(CategoryNames(), ", "))
		}
		set[c] = true
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no categories in %q", raw)
	}
	return set, nil
}
