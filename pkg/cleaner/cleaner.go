// Package cleaner rewrites a file's logical module path before other
// modules reference it.
package cleaner

import "strings"

// DefaultPrefixes are stripped in this order
var DefaultPrefixes = []string{"app/", "javascripts/"}

// NameCleaner strips an ordered list of literal prefixes from module paths.
// The zero value strips nothing.
type NameCleaner struct {
	prefixes []string
}

// New returns a cleaner for the given prefixes. Empty prefixes are ignored.
func New(prefixes ...string) NameCleaner {
	kept := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return NameCleaner{prefixes: kept}
}

// Default returns the cleaner for DefaultPrefixes
func Default() NameCleaner {
	return New(DefaultPrefixes...)
}

// Prefixes returns a copy of the configured prefixes
func (c NameCleaner) Prefixes() []string {
	return append([]string(nil), c.prefixes...)
}

// Clean strips each prefix in order when it leads the (possibly already
// shortened) path. Passes repeat until none applies, so
// Clean(Clean(p)) == Clean(p) for every p.
func (c NameCleaner) Clean(path string) string {
	for {
		next := c.pass(path)
		if next == path {
			return path
		}
		path = next
	}
}

func (c NameCleaner) pass(path string) string {
	for _, p := range c.prefixes {
		path = strings.TrimPrefix(path, p)
	}
	return path
}

// Clean applies the default cleaner
func Clean(path string) string {
	return Default().Clean(path)
}
