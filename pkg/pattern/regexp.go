package pattern

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/arthur-debert/assetcfg/pkg/errors"
)

// DefaultMatchTimeout bounds a single regular expression evaluation
const DefaultMatchTimeout = 100 * time.Millisecond

// MatchAll is the expression used when a bundle takes every file of a category
const MatchAll = ".*"

// Regexp is a compiled joinTo predicate
type Regexp struct {
	source string
	re     *regexp2.Regexp
}

// CompileRegexp compiles expr with JavaScript semantics: \d, \w and \s are
// ASCII only. A zero or negative timeout selects DefaultMatchTimeout.
func CompileRegexp(expr string, timeout time.Duration) (*Regexp, error) {
	if expr == "" {
		return nil, errors.New(errors.ErrInvalidPattern, "empty regular expression")
	}

	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidPattern,
			"invalid regular expression %q", expr).
			WithDetail("pattern", expr)
	}

	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	re.MatchTimeout = timeout

	return &Regexp{source: expr, re: re}, nil
}

// MustCompileRegexp is like CompileRegexp but panics on error
func MustCompileRegexp(expr string) *Regexp {
	r, err := CompileRegexp(expr, 0)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether path matches. The only error is a match timeout.
func (r *Regexp) Match(path string) (bool, error) {
	ok, err := r.re.MatchString(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPatternMatch,
			"evaluating %q against %q", r.source, path).
			WithDetail("pattern", r.source).
			WithDetail("path", path)
	}
	return ok, nil
}

// String returns the source expression
func (r *Regexp) String() string {
	return r.source
}
