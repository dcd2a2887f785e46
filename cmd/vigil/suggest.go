package main

import (
	"sort"
	"strings"

	"github.com/opsgate/vigil/internal/types"
)

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	if la < lb {
		a, b = b, a
		la, lb = lb, la
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			curr[j] = min(ins, del, sub)
		}
		prev = curr
	}
	return prev[lb]
}

// suggestCategories inspects a rejected --categories value and returns up to
// 3 known category names closest to its unrecognized elements.
func suggestCategories(raw string) []string {
	type candidate struct {
		name string
		dist int
	}

	known := types.CategoryNames()
	var candidates []candidate
	for _, elem := range strings.Split(raw, ",") {
		elem = strings.ToLower(strings.TrimSpace(elem))
		if elem == "" || types.Category(elem).Valid() || elem == string(types.CategoryAll) {
			continue
		}

		maxDist := len(elem) / 2
		if maxDist < 3 {
			maxDist = 3
		}
		for _, name := range known {
			d := levenshtein(elem, name)
			if d <= maxDist && d > 0 {
				candidates = append(candidates, candidate{name: name, dist: d})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	var result []string
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.name] {
			continue
		}
		seen[c.name] = true
		result = append(result, c.name)
		if len(result) == 3 {
			break
		}
	}
	return result
}
