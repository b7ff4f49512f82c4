package bundle

import (
	"path"
	"strings"

	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/logging"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
	"github.com/arthur-debert/assetcfg/pkg/plugins"
)

// Bundle is one output artifact of a plan. Categories joining to the same
// bundle name share one Bundle; their files follow category order.
type Bundle struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// Category is the first contributing category
	Category   config.Category   `json:"category" yaml:"category" toml:"category"`
	Categories []config.Category `json:"categories" yaml:"categories" toml:"categories"`
	Output     string            `json:"output" yaml:"output" toml:"output"`
	Files      []string          `json:"files" yaml:"files" toml:"files"`
	// Modules holds the cleaned module name of each file. Files of
	// categories without modules get an empty name.
	Modules []string `json:"modules,omitempty" yaml:"modules,omitempty" toml:"modules,omitempty"`
}

// Miss is a categorised path that no joinTo rule selected
type Miss struct {
	Path     string          `json:"path" yaml:"path" toml:"path"`
	Category config.Category `json:"category" yaml:"category" toml:"category"`
}

// Plan describes how a set of source files would be bundled
type Plan struct {
	Public        string   `json:"public" yaml:"public" toml:"public"`
	Wrapper       string   `json:"wrapper" yaml:"wrapper" toml:"wrapper"`
	Bundles       []Bundle `json:"bundles" yaml:"bundles" toml:"bundles"`
	Unmatched     []Miss   `json:"unmatched,omitempty" yaml:"unmatched,omitempty" toml:"unmatched,omitempty"`
	Uncategorized []string `json:"uncategorized,omitempty" yaml:"uncategorized,omitempty" toml:"uncategorized,omitempty"`
}

// FileCount returns the number of files placed in a bundle
func (p *Plan) FileCount() int {
	n := 0
	for _, b := range p.Bundles {
		n += len(b.Files)
	}
	return n
}

// HasModules reports whether files of c are wrapped as modules
func HasModules(c config.Category) bool {
	return c == config.Javascripts || c == config.Templates
}

// ModuleName is the cleaned, extension-less module name of a source path
func (m *Matcher) ModuleName(p string) string {
	p = pattern.SlashPath(p)
	return m.descriptor.Clean(strings.TrimSuffix(p, path.Ext(p)))
}

// Plan infers the category of every path, assigns it to a bundle and orders
// each bundle. Bundles are listed by their first category, then declaration
// order. Bundles with the same output are merged.
func (m *Matcher) Plan(paths []string) (*Plan, error) {
	logger := logging.GetLogger("bundle.plan")
	registry := plugins.FromDescriptor(m.descriptor)
	public := m.descriptor.Paths().Public

	plan := &Plan{
		Public:  public,
		Wrapper: m.descriptor.Modules().Wrapper,
	}

	byOutput := make(map[string]int)
	byCategory := make(map[config.Category][]string)
	for _, p := range paths {
		p = pattern.SlashPath(p)
		c, ok := registry.CategoryFor(p)
		if !ok {
			plan.Uncategorized = append(plan.Uncategorized, p)
			continue
		}
		byCategory[c] = append(byCategory[c], p)
	}

	for _, c := range config.AllCategories {
		files := byCategory[c]
		if len(files) == 0 {
			continue
		}

		if _, declared := m.categories[c]; !declared {
			for _, f := range files {
				plan.Unmatched = append(plan.Unmatched, Miss{Path: f, Category: c})
			}
			logger.Debug().
				Str("category", string(c)).
				Int("files", len(files)).
				Msg("Files of undeclared category")
			continue
		}

		assignment, err := m.Assign(c, files)
		if err != nil {
			return nil, err
		}
		hints := m.Hints(c)

		for _, name := range assignment.BundleNames() {
			output := path.Join(pattern.SlashPath(public), name)
			files := ApplyOrder(assignment.Bundles[name], hints)

			i, seen := byOutput[output]
			if !seen {
				i = len(plan.Bundles)
				byOutput[output] = i
				plan.Bundles = append(plan.Bundles, Bundle{Name: name, Category: c, Output: output})
			}
			m.extend(&plan.Bundles[i], c, files)
		}
		for _, f := range assignment.Unmatched {
			plan.Unmatched = append(plan.Unmatched, Miss{Path: f, Category: c})
		}
	}

	logger.Info().
		Int("paths", len(paths)).
		Int("bundles", len(plan.Bundles)).
		Int("unmatched", len(plan.Unmatched)).
		Int("uncategorized", len(plan.Uncategorized)).
		Msg("Built bundle plan")

	return plan, nil
}

// extend appends the ordered files of category c to b
func (m *Matcher) extend(b *Bundle, c config.Category, files []string) {
	b.Categories = append(b.Categories, c)

	if HasModules(c) && b.Modules == nil {
		b.Modules = make([]string, len(b.Files), len(b.Files)+len(files))
	}
	for _, f := range files {
		b.Files = append(b.Files, f)
		if b.Modules == nil {
			continue
		}
		if HasModules(c) {
			b.Modules = append(b.Modules, m.ModuleName(f))
		} else {
			b.Modules = append(b.Modules, "")
		}
	}
}
