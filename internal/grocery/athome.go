package grocery

import "strings"

// IsAtHome reports whether a grocery item should be hidden because the
// household already stocks it. Containment is checked in both directions,
// case-insensitively, after trimming: "sea salt" is at home when the staples
// contain "salt", and "salt" is at home when the staples contain "sea salt".
// The match is deliberately loose and not token-boundary aware.
func IsAtHome(name string, staples []string) bool {
	item := strings.ToLower(strings.TrimSpace(name))
	if item == "" {
		return false
	}

	for _, staple := range staples {
		s := strings.ToLower(strings.TrimSpace(staple))
		if s == "" {
			continue
		}
		if strings.Contains(item, s) || strings.Contains(s, item) {
			return true
		}
	}
	return false
}
