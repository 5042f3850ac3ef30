package resolver

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases and trims a term the way the dictionary, preference
// store, and all resolver tiers expect it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Similarity returns the normalized edit-distance similarity between two
// strings: 1 - distance/max(len(a), len(b)), in [0, 1]. Two empty strings
// are considered identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
