package constraint

import "strconv"

// ParseVersion splits a dotted-numeric version string into its integer
// components. Returns false for empty strings, empty components ("2..3"),
// and non-numeric components.
func ParseVersion(s string) ([]int, bool) {
	if s == "" {
		return nil, false
	}
	var parts []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			n, err := strconv.Atoi(s[start:i])
			if err != nil || n < 0 {
				return nil, false
			}
			parts = append(parts, n)
			start = i + 1
		}
	}
	return parts, true
}

// CompareVersions orders two parsed versions component by component.
// A shorter version sharing its leading components sorts below the longer
// one (2.12 < 2.12.1).
func CompareVersions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// HasVersionPrefix reports whether version v begins with every component
// of prefix p. An empty prefix matches nothing.
func HasVersionPrefix(v, p []int) bool {
	if len(p) == 0 || len(v) < len(p) {
		return false
	}
	for i := range p {
		if v[i] != p[i] {
			return false
		}
	}
	return true
}
