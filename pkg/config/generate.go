package config

import (
	"strings"
)

// Skeleton returns the starter project descriptor
func Skeleton() string {
	return string(skeletonConfig)
}

// DefaultsContent returns the embedded defaults layer
func DefaultsContent() string {
	return string(defaultConfig)
}

// GenerateConfigContent returns the defaults layer with every value
// commented out, suitable as a user config template
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues comments out every assignment and array-of-tables
// header, keeping blank lines, comments and plain table headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			result = append(result, line)
		case strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]"):
			result = append(result, "# "+line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "="):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
