package bundle

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/logging"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
)

// Matcher assigns source paths to bundles. It only reads the descriptor and
// is safe for concurrent use.
type Matcher struct {
	descriptor *config.Descriptor
	categories map[config.Category]config.CategoryConfig
	logger     zerolog.Logger
}

// NewMatcher creates a matcher for d
func NewMatcher(d *config.Descriptor) *Matcher {
	m := &Matcher{
		descriptor: d,
		categories: make(map[config.Category]config.CategoryConfig),
		logger:     logging.GetLogger("bundle.matcher"),
	}
	for _, c := range d.Categories() {
		cfg, _ := d.Category(c)
		m.categories[c] = cfg
	}
	return m
}

// Match returns the bundle of the first rule of category matching path.
// ok is false when no rule matches or the category is not declared.
func (m *Matcher) Match(category config.Category, path string) (bundle string, ok bool, err error) {
	cfg, declared := m.categories[category]
	if !declared {
		m.logger.Trace().Str("category", string(category)).Msg("Category not declared")
		return "", false, nil
	}

	path = pattern.SlashPath(path)
	for i, rule := range cfg.JoinTo {
		matched, err := rule.Pattern.Match(path)
		if err != nil {
			return "", false, errors.Wrapf(err, errors.ErrPatternMatch,
				"files.%s.joinTo[%d] (%s)", category, i, rule.Bundle).
				WithDetails(errors.GetErrorDetails(err)).
				WithDetail("category", string(category)).
				WithDetail("bundle", rule.Bundle)
		}
		if matched {
			m.logger.Trace().
				Str("path", path).
				Str("category", string(category)).
				Str("bundle", rule.Bundle).
				Int("rule", i).
				Msg("Matched")
			return rule.Bundle, true, nil
		}
	}

	return "", false, nil
}

// Assignment is the result of assigning the paths of one category
type Assignment struct {
	Category config.Category
	// Bundles maps bundle name to its files in encounter order
	Bundles map[string][]string
	// Unmatched lists paths no rule selected, in encounter order
	Unmatched []string

	order []string
}

// BundleNames returns the bundles that received files, in declaration order
func (a *Assignment) BundleNames() []string {
	return append([]string(nil), a.order...)
}

// Assign distributes paths over the bundles of category
func (m *Matcher) Assign(category config.Category, paths []string) (*Assignment, error) {
	a := &Assignment{
		Category: category,
		Bundles:  make(map[string][]string),
	}

	for _, p := range paths {
		p = pattern.SlashPath(p)
		bundle, ok, err := m.Match(category, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			a.Unmatched = append(a.Unmatched, p)
			continue
		}
		a.Bundles[bundle] = append(a.Bundles[bundle], p)
	}

	if cfg, ok := m.categories[category]; ok {
		for _, name := range cfg.Bundles() {
			if len(a.Bundles[name]) > 0 {
				a.order = append(a.order, name)
			}
		}
	}

	m.logger.Debug().
		Str("category", string(category)).
		Int("paths", len(paths)).
		Int("bundles", len(a.order)).
		Int("unmatched", len(a.Unmatched)).
		Msg("Assigned category")

	return a, nil
}

// Hints returns the order hints of category
func (m *Matcher) Hints(category config.Category) config.OrderingHints {
	return m.categories[category].Order
}
