package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arthur-debert/assetcfg/pkg/cleaner"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
)

// rawConfig mirrors the file schema before validation
type rawConfig struct {
	Plugins  map[string]rawPlugin   `koanf:"plugins"`
	Files    map[string]rawCategory `koanf:"files"`
	Modules  rawModules             `koanf:"modules"`
	Paths    rawPaths               `koanf:"paths"`
	Patterns rawPatterns            `koanf:"patterns"`
}

type rawPlugin struct {
	Extension string                 `koanf:"extension"`
	Paths     []string               `koanf:"paths"`
	Category  string                 `koanf:"category"`
	Options   map[string]interface{} `koanf:",remain"`
}

type rawCategory struct {
	JoinTo []rawRule `koanf:"joinTo"`
	Order  rawOrder  `koanf:"order"`
}

type rawRule struct {
	Bundle  string `koanf:"bundle"`
	Pattern string `koanf:"pattern"`
}

type rawOrder struct {
	Before []string `koanf:"before"`
	After  []string `koanf:"after"`
}

type rawModules struct {
	NameCleaner []string `koanf:"nameCleaner"`
	Wrapper     string   `koanf:"wrapper"`
}

type rawPaths struct {
	Public  string   `koanf:"public"`
	Watched []string `koanf:"watched"`
}

type rawPatterns struct {
	MatchTimeout time.Duration `koanf:"matchTimeout"`
}

// build validates the merged configuration tree and compiles it
func build(tree map[string]interface{}, sources []string) (*Descriptor, error) {
	if err := normalizeFiles(tree); err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := decode(tree, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "descriptor does not match the schema")
	}

	d := &Descriptor{
		plugins: make(map[string]PluginConfig, len(raw.Plugins)),
		files:   make(map[Category]CategoryConfig, len(raw.Files)),
		sources: sources,
	}

	if raw.Patterns.MatchTimeout < 0 {
		return nil, errors.Newf(errors.ErrConfigInvalid,
			"patterns.matchTimeout must not be negative, got %s", raw.Patterns.MatchTimeout).
			WithDetail("section", "patterns")
	}
	d.matchTimeout = raw.Patterns.MatchTimeout
	if d.matchTimeout == 0 {
		d.matchTimeout = pattern.DefaultMatchTimeout
	}

	for _, c := range AllCategories {
		rc, ok := raw.Files[string(c)]
		if !ok {
			continue
		}
		compiled, err := compileCategory(c, rc, d.matchTimeout)
		if err != nil {
			return nil, err
		}
		d.files[c] = compiled
	}

	pluginNames := make([]string, 0, len(raw.Plugins))
	for name := range raw.Plugins {
		pluginNames = append(pluginNames, name)
	}
	sort.Strings(pluginNames)
	for _, name := range pluginNames {
		p, err := compilePlugin(name, raw.Plugins[name])
		if err != nil {
			return nil, err
		}
		d.plugins[name] = p
	}

	modules, err := compileModules(raw.Modules)
	if err != nil {
		return nil, err
	}
	d.modules = modules

	if strings.TrimSpace(raw.Paths.Public) == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "paths.public must not be empty").
			WithDetail("section", "paths")
	}
	d.paths = PathsConfig{
		Public:  raw.Paths.Public,
		Watched: append([]string(nil), raw.Paths.Watched...),
	}

	return d, nil
}

// normalizeFiles checks the files section exists and rewrites joinTo
// shorthands into the ordered array form
func normalizeFiles(tree map[string]interface{}) error {
	filesRaw, ok := tree["files"]
	if !ok || filesRaw == nil {
		return errors.New(errors.ErrMissingSection, "required section [files] is missing").
			WithDetail("section", "files")
	}

	files, ok := filesRaw.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrConfigInvalid, "[files] must be a table, got %T", filesRaw).
			WithDetail("section", "files")
	}
	if len(files) == 0 {
		return errors.New(errors.ErrMissingSection, "[files] declares no category").
			WithDetail("section", "files")
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := ParseCategory(name); err != nil {
			return err.(*errors.ConfigError).WithDetail("section", "files."+name)
		}

		section, ok := files[name].(map[string]interface{})
		if !ok {
			return errors.Newf(errors.ErrConfigInvalid, "[files.%s] must be a table", name).
				WithDetail("section", "files."+name).
				WithDetail("category", name)
		}

		joinTo, err := normalizeJoinTo(name, section["joinTo"])
		if err != nil {
			return err
		}
		section["joinTo"] = joinTo
		normalizeOrder(section["order"])
	}

	return nil
}

func normalizeJoinTo(category string, value interface{}) (interface{}, error) {
	sectionName := fmt.Sprintf("files.%s.joinTo", category)

	switch v := value.(type) {
	case nil:
		return nil, errors.Newf(errors.ErrMissingSection, "%s is missing", sectionName).
			WithDetail("section", sectionName).
			WithDetail("category", category)
	case string:
		// A bare bundle name takes every file of the category
		return []interface{}{
			map[string]interface{}{"bundle": v, "pattern": pattern.MatchAll},
		}, nil
	case []interface{}, []map[string]interface{}:
		return v, nil
	case map[string]interface{}:
		return nil, errors.Newf(errors.ErrConfigInvalid,
			"%s must be an array of {bundle, pattern} tables: table keys are unordered and bundle names may contain dots", sectionName).
			WithDetail("section", sectionName).
			WithDetail("category", category)
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s has unsupported type %T", sectionName, value).
			WithDetail("section", sectionName).
			WithDetail("category", category)
	}
}

// normalizeOrder keeps a string order hint as a single glob, so the comma
// slice hook does not split brace alternations such as vendor/{a,b}.js
func normalizeOrder(value interface{}) {
	order, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, key := range []string{"before", "after"} {
		if hint, ok := order[key].(string); ok {
			order[key] = []interface{}{hint}
		}
	}
}

func decode(tree map[string]interface{}, out *rawConfig) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "koanf",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(tree)
}

func compileCategory(c Category, rc rawCategory, timeout time.Duration) (CategoryConfig, error) {
	section := fmt.Sprintf("files.%s", c)
	cfg := CategoryConfig{Name: c}

	if len(rc.JoinTo) == 0 {
		return cfg, errors.Newf(errors.ErrMissingSection, "%s.joinTo declares no bundle", section).
			WithDetail("section", section+".joinTo").
			WithDetail("category", string(c))
	}

	for i, r := range rc.JoinTo {
		details := map[string]interface{}{
			"section":  section + ".joinTo",
			"category": string(c),
			"index":    i,
		}
		if strings.TrimSpace(r.Bundle) == "" {
			return cfg, errors.Newf(errors.ErrConfigInvalid, "%s.joinTo[%d] has no bundle", section, i).
				WithDetails(details)
		}
		details["bundle"] = r.Bundle

		re, err := pattern.CompileRegexp(r.Pattern, timeout)
		if err != nil {
			return cfg, errors.Wrapf(err, errors.ErrInvalidPattern,
				"%s.joinTo[%d] (%s)", section, i, r.Bundle).
				WithDetails(details).
				WithDetail("pattern", r.Pattern)
		}
		cfg.JoinTo = append(cfg.JoinTo, BundleRule{Bundle: r.Bundle, Pattern: re})
	}

	before, err := pattern.CompileGlobs(rc.Order.Before)
	if err != nil {
		return cfg, errors.Wrapf(err, errors.ErrInvalidPattern, "%s.order.before", section).
			WithDetails(errors.GetErrorDetails(err)).
			WithDetail("section", section+".order.before").
			WithDetail("category", string(c))
	}
	after, err := pattern.CompileGlobs(rc.Order.After)
	if err != nil {
		return cfg, errors.Wrapf(err, errors.ErrInvalidPattern, "%s.order.after", section).
			WithDetails(errors.GetErrorDetails(err)).
			WithDetail("section", section+".order.after").
			WithDetail("category", string(c))
	}
	cfg.Order = OrderingHints{Before: before, After: after}

	return cfg, nil
}

func compilePlugin(name string, rp rawPlugin) (PluginConfig, error) {
	section := "plugins." + name
	p := PluginConfig{
		Name:      name,
		Extension: strings.TrimPrefix(strings.TrimSpace(rp.Extension), "."),
		Paths:     append([]string(nil), rp.Paths...),
		Options:   make(map[string]interface{}, len(rp.Options)),
	}
	for k, v := range rp.Options {
		p.Options[k] = v
	}

	if rp.Category != "" {
		c, err := ParseCategory(rp.Category)
		if err != nil {
			return p, err.(*errors.ConfigError).
				WithDetail("section", section).
				WithDetail("plugin", name)
		}
		p.Category = c
	}

	return p, nil
}

func compileModules(rm rawModules) (ModulesConfig, error) {
	for i, prefix := range rm.NameCleaner {
		if prefix == "" {
			return ModulesConfig{}, errors.Newf(errors.ErrConfigInvalid,
				"modules.nameCleaner[%d] is empty", i).
				WithDetail("section", "modules.nameCleaner").
				WithDetail("index", i)
		}
	}

	wrapper := strings.ToLower(strings.TrimSpace(rm.Wrapper))
	switch wrapper {
	case "":
		wrapper = WrapperCommonJS
	case WrapperCommonJS, WrapperAMD, WrapperNone:
	default:
		return ModulesConfig{}, errors.Newf(errors.ErrConfigInvalid,
			"modules.wrapper must be one of %s, %s, %s; got %q",
			WrapperCommonJS, WrapperAMD, WrapperNone, rm.Wrapper).
			WithDetail("section", "modules.wrapper")
	}

	return ModulesConfig{
		NameCleaner: cleaner.New(rm.NameCleaner...),
		Wrapper:     wrapper,
	}, nil
}
