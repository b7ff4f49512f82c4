package pattern

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/arthur-debert/assetcfg/pkg/errors"
)

// Glob is a compiled order hint
type Glob struct {
	source string
	g      glob.Glob
}

// CompileGlob compiles a slash separated path glob
func CompileGlob(pattern string) (*Glob, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New(errors.ErrInvalidPattern, "empty path pattern")
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPattern,
			"invalid path pattern %q", pattern).
			WithDetail("pattern", pattern)
	}

	return &Glob{source: pattern, g: g}, nil
}

// CompileGlobs compiles every pattern, stopping at the first failure.
// The failing index is recorded in the error details.
func CompileGlobs(patterns []string) ([]*Glob, error) {
	globs := make([]*Glob, 0, len(patterns))
	for i, p := range patterns {
		g, err := CompileGlob(p)
		if err != nil {
			if cfgErr, ok := err.(*errors.ConfigError); ok {
				cfgErr.WithDetail("index", i)
			}
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Match reports whether path matches the glob
func (g *Glob) Match(path string) bool {
	return g.g.Match(path)
}

// String returns the source pattern
func (g *Glob) String() string {
	return g.source
}

// FirstMatch returns the index of the first glob matching path, or -1
func FirstMatch(globs []*Glob, path string) int {
	for i, g := range globs {
		if g.Match(path) {
			return i
		}
	}
	return -1
}
