package validation

import "strings"

// NormalizeSkills trims every entry and drops empty ones. Order and
// duplicates are kept.
func NormalizeSkills(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitSkills parses a comma-separated list with NormalizeSkills semantics.
func SplitSkills(csv string) []string {
	return NormalizeSkills(strings.Split(csv, ","))
}

// UniqueSkills normalizes values and removes case-insensitive duplicates,
// keeping the first spelling seen.
func UniqueSkills(values []string) []string {
	normalized := NormalizeSkills(values)
	seen := make(map[string]struct{}, len(normalized))
	out := make([]string, 0, len(normalized))
	for _, v := range normalized {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
