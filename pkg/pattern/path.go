package pattern

import "strings"

// SlashPath rewrites backslash separators to '/'. Patterns are always written
// against slash paths, whatever the host separator.
func SlashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
