package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/logging"
)

// Format is a descriptor file format
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// EnvPrefix marks environment variables that override descriptor keys.
// Key levels are separated by a double underscore:
// ASSETCFG_PATHS__PUBLIC=dist sets paths.public.
const EnvPrefix = "ASSETCFG_"

// ProjectFileNames are tried in order in the project root
var ProjectFileNames = []string{"assetcfg.toml", ".assetcfg.toml", "assetcfg.yaml", "assetcfg.yml"}

// camelSegments restores the schema spelling of key segments lowercased by
// the env provider
var camelSegments = map[string]string{
	"jointo":       "joinTo",
	"namecleaner":  "nameCleaner",
	"matchtimeout": "matchTimeout",
}

const (
	embeddedDefaults = "<embedded:defaults.toml>"
	embeddedSkeleton = "<embedded:skeleton.toml>"
	memorySource     = "<memory>"
	overridesSource  = "<overrides>"
)

// LoadOptions controls which layers Load reads
type LoadOptions struct {
	// Root is the project root searched for ProjectFileNames. Defaults to ".".
	Root string
	// File is an explicit descriptor path; it must exist.
	File string
	// UserConfig overrides DefaultUserConfigPath.
	UserConfig string
	// NoUserConfig skips the user layer entirely.
	NoUserConfig bool
	// SkipEnv ignores ASSETCFG_* variables.
	SkipEnv bool
	// Overrides are dotted keys applied above every other layer,
	// e.g. {"paths.public": "dist"}.
	Overrides map[string]interface{}
}

// DefaultUserConfigPath is the per-user layer below the project file
func DefaultUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, logging.AppDirName, "config.toml")
}

// FormatForPath picks the parser from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrConfigLoad, "unsupported descriptor format %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatTOML:
		return toml.Parser(), nil
	case FormatYAML:
		return koanfyaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q", format)
	}
}

// Load assembles the descriptor from defaults, user config, project file and
// environment, then validates and compiles it
func Load(opts LoadOptions) (*Descriptor, error) {
	logger := logging.GetLogger("config.loader")
	defer logging.LogOperationStart(logger, "load descriptor")()

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, err
	}
	sources := []string{embeddedDefaults}

	if !opts.NoUserConfig {
		userPath := opts.UserConfig
		if userPath == "" {
			userPath = DefaultUserConfigPath()
		}
		if fileExists(userPath) {
			if err := loadFile(k, userPath); err != nil {
				return nil, err
			}
			sources = append(sources, userPath)
		} else {
			logger.Trace().Str("path", userPath).Msg("No user config")
		}
	}

	projectPath, err := resolveProjectFile(opts)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		if err := loadFile(k, projectPath); err != nil {
			return nil, err
		}
		sources = append(sources, projectPath)
	} else {
		logger.Warn().
			Str("root", opts.Root).
			Strs("tried", ProjectFileNames).
			Msg("No project descriptor found")
	}

	if !opts.SkipEnv {
		if err := loadEnv(k); err != nil {
			return nil, err
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
		sources = append(sources, overridesSource)
	}

	d, err := build(k.Raw(), sources)
	if err != nil {
		logger.Debug().Err(err).Strs("sources", sources).Msg("Descriptor rejected")
		return nil, err
	}

	logger.Info().
		Strs("sources", sources).
		Int("categories", len(d.files)).
		Int("plugins", len(d.plugins)).
		Msg("Descriptor loaded")

	return d, nil
}

// Parse builds a descriptor from a single in-memory source layered over the
// embedded defaults. Environment variables are not consulted.
func Parse(data []byte, format Format) (*Descriptor, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, err
	}
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s descriptor", format).
			WithDetail("source", memorySource)
	}

	return build(k.Raw(), []string{embeddedDefaults, memorySource})
}

// Default returns the built-in skeleton descriptor
func Default() *Descriptor {
	d, err := Parse(skeletonConfig, FormatTOML)
	if err != nil {
		panic(errors.Wrap(err, errors.ErrInternal, "embedded skeleton is invalid"))
	}
	d.sources = []string{embeddedDefaults, embeddedSkeleton}
	return d
}

// ResolveProjectFile returns the descriptor path Load would read, or "" when none exists
func ResolveProjectFile(opts LoadOptions) (string, error) {
	return resolveProjectFile(opts)
}

func resolveProjectFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot read descriptor %s", opts.File).
				WithDetail("path", opts.File)
		}
		return opts.File, nil
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	for _, name := range ProjectFileNames {
		path := filepath.Join(root, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", nil
}

func loadDefaults(k *koanf.Koanf) error {
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to load embedded defaults")
	}
	return nil
}

func loadFile(k *koanf.Koanf, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	parser, err := parserFor(format)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read descriptor %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path).
			WithDetail("format", string(format))
	}

	logger := logging.GetLogger("config.loader")
	logger.Debug().
		Str("path", path).
		Str("format", string(format)).
		Msg("Loaded descriptor layer")
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}
	return nil
}

// envKey maps ASSETCFG_PATTERNS__MATCHTIMEOUT to patterns.matchTimeout and
// ASSETCFG_FILES__JAVASCRIPTS__JOINTO to files.javascripts.joinTo
func envKey(s string) string {
	segments := strings.Split(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__")
	for i, seg := range segments {
		if canonical, ok := camelSegments[seg]; ok {
			segments[i] = canonical
		}
	}
	return strings.Join(segments, ".")
}

// ParseOverrides turns key=value assignments into Overrides
func ParseOverrides(assignments []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "override %q is not key=value", a).
				WithDetail("override", a)
		}
		out[key] = value
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
