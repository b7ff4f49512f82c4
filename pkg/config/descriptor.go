package config

import (
	"sort"
	"time"

	"github.com/arthur-debert/assetcfg/pkg/cleaner"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
)

// Category is an asset category with its own joinTo rules
type Category string

const (
	Javascripts Category = "javascripts"
	Stylesheets Category = "stylesheets"
	Templates   Category = "templates"
)

// AllCategories lists the known categories in canonical order
var AllCategories = []Category{Javascripts, Stylesheets, Templates}

// ParseCategory validates a category name
func ParseCategory(name string) (Category, error) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", errors.Newf(errors.ErrUnknownCategory, "unknown category %q", name).
		WithDetail("category", name)
}

// Module wrappers
const (
	WrapperCommonJS = "commonjs"
	WrapperAMD      = "amd"
	WrapperNone     = "none"
)

// PluginConfig holds one plugin's options
type PluginConfig struct {
	Name      string
	Extension string   // without leading dot
	Paths     []string // search paths
	Category  Category // empty when the plugin does not declare one
	Options   map[string]interface{}
}

// BundleRule maps an output bundle to the predicate selecting its sources
type BundleRule struct {
	Bundle  string
	Pattern *pattern.Regexp
}

// OrderingHints stabilise concatenation order inside a bundle
type OrderingHints struct {
	Before []*pattern.Glob
	After  []*pattern.Glob
}

// CategoryConfig is the compiled files.<category> section
type CategoryConfig struct {
	Name   Category
	JoinTo []BundleRule
	Order  OrderingHints
}

// Bundles returns the distinct bundle names of the category in declaration order
func (c CategoryConfig) Bundles() []string {
	seen := make(map[string]bool, len(c.JoinTo))
	var out []string
	for _, r := range c.JoinTo {
		if !seen[r.Bundle] {
			seen[r.Bundle] = true
			out = append(out, r.Bundle)
		}
	}
	return out
}

// ModulesConfig is the compiled modules section
type ModulesConfig struct {
	NameCleaner cleaner.NameCleaner
	Wrapper     string
}

// PathsConfig is the compiled paths section
type PathsConfig struct {
	Public  string
	Watched []string
}

// Descriptor is the validated, compiled configuration. It is never mutated
// after construction; accessors hand out copies.
type Descriptor struct {
	plugins      map[string]PluginConfig
	files        map[Category]CategoryConfig
	modules      ModulesConfig
	paths        PathsConfig
	matchTimeout time.Duration
	sources      []string
}

// Category returns the compiled section for c
func (d *Descriptor) Category(c Category) (CategoryConfig, bool) {
	cfg, ok := d.files[c]
	if !ok {
		return CategoryConfig{}, false
	}
	cfg.JoinTo = append([]BundleRule(nil), cfg.JoinTo...)
	cfg.Order.Before = append([]*pattern.Glob(nil), cfg.Order.Before...)
	cfg.Order.After = append([]*pattern.Glob(nil), cfg.Order.After...)
	return cfg, true
}

// Categories returns the declared categories in canonical order
func (d *Descriptor) Categories() []Category {
	var out []Category
	for _, c := range AllCategories {
		if _, ok := d.files[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Plugins returns the plugin configurations sorted by name
func (d *Descriptor) Plugins() []PluginConfig {
	names := make([]string, 0, len(d.plugins))
	for name := range d.plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]PluginConfig, 0, len(names))
	for _, name := range names {
		out = append(out, copyPlugin(d.plugins[name]))
	}
	return out
}

// Plugin looks up a single plugin by name
func (d *Descriptor) Plugin(name string) (PluginConfig, bool) {
	p, ok := d.plugins[name]
	if !ok {
		return PluginConfig{}, false
	}
	return copyPlugin(p), true
}

func copyPlugin(p PluginConfig) PluginConfig {
	p.Paths = append([]string(nil), p.Paths...)
	opts := make(map[string]interface{}, len(p.Options))
	for k, v := range p.Options {
		opts[k] = v
	}
	p.Options = opts
	return p
}

// Modules returns the modules section
func (d *Descriptor) Modules() ModulesConfig {
	return d.modules
}

// NameCleaner returns the configured cleaner
func (d *Descriptor) NameCleaner() cleaner.NameCleaner {
	return d.modules.NameCleaner
}

// Clean applies the configured name cleaner to path
func (d *Descriptor) Clean(path string) string {
	return d.modules.NameCleaner.Clean(path)
}

// Paths returns the paths section
func (d *Descriptor) Paths() PathsConfig {
	p := d.paths
	p.Watched = append([]string(nil), p.Watched...)
	return p
}

// MatchTimeout is the per evaluation bound applied to joinTo patterns
func (d *Descriptor) MatchTimeout() time.Duration {
	return d.matchTimeout
}

// Sources lists the files that contributed to the descriptor, lowest
// precedence first. Embedded layers are reported as "<embedded:name>".
func (d *Descriptor) Sources() []string {
	return append([]string(nil), d.sources...)
}

// ToMap renders the descriptor back into the file schema
func (d *Descriptor) ToMap() map[string]interface{} {
	plugins := make(map[string]interface{}, len(d.plugins))
	for _, p := range d.Plugins() {
		entry := make(map[string]interface{}, len(p.Options)+3)
		for k, v := range p.Options {
			entry[k] = v
		}
		if p.Extension != "" {
			entry["extension"] = p.Extension
		}
		if len(p.Paths) > 0 {
			entry["paths"] = p.Paths
		}
		if p.Category != "" {
			entry["category"] = string(p.Category)
		}
		plugins[p.Name] = entry
	}

	files := make(map[string]interface{}, len(d.files))
	for _, c := range d.Categories() {
		cfg := d.files[c]
		rules := make([]interface{}, 0, len(cfg.JoinTo))
		for _, r := range cfg.JoinTo {
			rules = append(rules, map[string]interface{}{
				"bundle":  r.Bundle,
				"pattern": r.Pattern.String(),
			})
		}
		section := map[string]interface{}{"joinTo": rules}
		if len(cfg.Order.Before) > 0 || len(cfg.Order.After) > 0 {
			section["order"] = map[string]interface{}{
				"before": globStrings(cfg.Order.Before),
				"after":  globStrings(cfg.Order.After),
			}
		}
		files[string(c)] = section
	}

	return map[string]interface{}{
		"plugins": plugins,
		"files":   files,
		"modules": map[string]interface{}{
			"nameCleaner": d.modules.NameCleaner.Prefixes(),
			"wrapper":     d.modules.Wrapper,
		},
		"paths": map[string]interface{}{
			"public":  d.paths.Public,
			"watched": append([]string(nil), d.paths.Watched...),
		},
		"patterns": map[string]interface{}{
			"matchTimeout": d.matchTimeout.String(),
		},
	}
}

func globStrings(globs []*pattern.Glob) []string {
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		out = append(out, g.String())
	}
	return out
}
