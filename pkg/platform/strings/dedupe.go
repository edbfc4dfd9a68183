// Package strings provides string manipulation utilities.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order of first occurrence is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{" 111222333 ", "999888777", "111222333", "", "  "})
//	// Returns: []string{"111222333", "999888777"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SortedSet is DedupeAndTrim with the result sorted, for callers that need a
// stable representation (log lines, cache keys, SQL array parameters).
func SortedSet(values []string) []string {
	result := DedupeAndTrim(values)
	slices.Sort(result)
	return result
}
