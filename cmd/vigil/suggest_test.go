package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ── levenshtein tests ────────────────────────────────────────────────

func TestLevenshtein_IdenticalStrings(t *testing.T) {
	assert.Equal(t, 0, levenshtein("security", "security"))
}

func TestLevenshtein_EmptyStrings(t *testing.T) {
	assert.Equal(t, 0, levenshtein("", ""))
	assert.Equal(t, 3, levenshtein("abc", ""))
	assert.Equal(t, 3, levenshtein("", "abc"))
}

func TestLevenshtein_SingleEdit(t *testing.T) {
	assert.Equal(t, 1, levenshtein("cat", "car"))  // substitution
	assert.Equal(t, 1, levenshtein("cat", "cats")) // insertion
	assert.Equal(t, 1, levenshtein("cats", "cat")) // deletion
}

func TestLevenshtein_MultipleEdits(t *testing.T) {
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

func TestLevenshtein_Symmetric(t *testing.T) {
	assert.Equal(t, levenshtein("abc", "def"), levenshtein("def", "abc"))
}

// ── suggestCategories tests ──────────────────────────────────────────

func TestSuggestCategories_CloseMatch(t *testing.T) {
	suggestions := suggestCategories("securty") // one char off
	assert.NotEmpty(t, suggestions)
	assert.Contains(t, suggestions, "security")
}

func TestSuggestCategories_NoMatch(t *testing.T) {
	suggestions := suggestCategories("zzzzzzzzzzzzzzzzzzz")
	assert.Empty(t, suggestions)
}

func TestSuggestCategories_ValidElementsSkipped(t *testing.T) {
	// "security" is valid, only "performence" should produce suggestions.
	suggestions := suggestCategories("security,performence")
	assert.Equal(t, []string{"performance"}, suggestions)
}

func TestSuggestCategories_AllSkipped(t *testing.T) {
	assert.Empty(t, suggestCategories("all"))
}

func TestSuggestCategories_MaxThree(t *testing.T) {
	suggestions := suggestCategories("lin")
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestSuggestCategories_Deduplicated(t *testing.T) {
	// Both typos resolve to the same category; it must appear once.
	suggestions := suggestCategories("linx,linux2")
	count := 0
	for _, s := range suggestions {
		if s == "linux" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
