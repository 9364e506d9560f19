package utils

import (
	"sort"
	"strings"
)

// NormalizeLetters trims, upper-cases, deduplicates and sorts a set of
// answer letters so set operations and stored values are deterministic.
func NormalizeLetters(letters []string) []string {
	if letters == nil {
		return nil
	}
	seen := make(map[string]bool, len(letters))
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// LettersEqual does a set comparison of two normalized letter lists
func LettersEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, l := range a {
		set[l] = true
	}
	for _, l := range b {
		if !set[l] {
			return false
		}
	}
	return true
}

// IntersectionCount returns how many letters the two lists share
func IntersectionCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, l := range a {
		set[l] = true
	}
	n := 0
	for _, l := range b {
		if set[l] {
			n++
		}
	}
	return n
}
