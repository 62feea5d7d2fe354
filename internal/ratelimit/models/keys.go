package models

import "strings"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// to prevent key collisions where an identifier containing ':' could
// manipulate an adjacent window.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
