// Package plugins answers which configured plugins handle a source file and
// which asset category their output belongs to.
package plugins

import (
	"path"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
)

// builtinCategories covers files the bundler understands without a plugin
var builtinCategories = map[string]config.Category{
	"js":  config.Javascripts,
	"css": config.Stylesheets,
}

// Registry indexes plugin configurations by file extension
type Registry struct {
	plugins map[string]config.PluginConfig
	byExt   map[string][]string
}

// NewRegistry builds a registry from the descriptor's plugins
func NewRegistry(plugins []config.PluginConfig) *Registry {
	r := &Registry{
		plugins: make(map[string]config.PluginConfig, len(plugins)),
		byExt:   make(map[string][]string),
	}
	for _, p := range plugins {
		r.plugins[p.Name] = p
		if p.Extension != "" {
			ext := strings.ToLower(p.Extension)
			r.byExt[ext] = append(r.byExt[ext], p.Name)
		}
	}
	for ext := range r.byExt {
		sort.Strings(r.byExt[ext])
	}
	return r
}

// FromDescriptor is a shorthand for NewRegistry(d.Plugins())
func FromDescriptor(d *config.Descriptor) *Registry {
	return NewRegistry(d.Plugins())
}

// Names returns all plugin names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForExtension returns the plugins handling ext (with or without leading dot)
func (r *Registry) ForExtension(ext string) []string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return append([]string(nil), r.byExt[ext]...)
}

// ForPath returns the plugins handling the file at p
func (r *Registry) ForPath(p string) []string {
	return r.ForExtension(path.Ext(p))
}

// CategoryFor infers the asset category of a source file. A plugin declaring
// a category wins over the built-in js/css mapping.
func (r *Registry) CategoryFor(p string) (config.Category, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "" {
		return "", false
	}
	for _, name := range r.byExt[ext] {
		if c := r.plugins[name].Category; c != "" {
			return c, true
		}
	}
	c, ok := builtinCategories[ext]
	return c, ok
}

// Decode maps a plugin's options, including extension, paths and category,
// onto target using koanf struct tags
func (r *Registry) Decode(name string, target interface{}) error {
	p, ok := r.plugins[name]
	if !ok {
		return errors.Newf(errors.ErrNotFound, "plugin %q is not configured", name).
			WithDetail("plugin", name)
	}

	input := make(map[string]interface{}, len(p.Options)+3)
	for k, v := range p.Options {
		input[k] = v
	}
	input["extension"] = p.Extension
	input["paths"] = p.Paths
	input["category"] = string(p.Category)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "koanf",
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot build plugin options decoder")
	}
	if err := dec.Decode(input); err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid options for plugin %q", name).
			WithDetail("plugin", name).
			WithDetail("section", "plugins."+name)
	}
	return nil
}
