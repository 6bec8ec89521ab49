// Package strings provides string set helpers.
package strings

import (
	"slices"
	"strings"
)

// NormalizeSet trims and lowercases each value, drops empties and duplicates,
// and returns the result sorted. Role names are compared this way everywhere.
func NormalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := strings.ToLower(strings.TrimSpace(v))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
