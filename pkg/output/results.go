package output

import (
	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
)

// CheckResult summarises a descriptor validation
type CheckResult struct {
	Valid      bool                   `json:"valid" yaml:"valid" toml:"valid"`
	Sources    []string               `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Categories []string               `json:"categories,omitempty" yaml:"categories,omitempty" toml:"categories,omitempty"`
	Bundles    int                    `json:"bundles" yaml:"bundles" toml:"bundles"`
	Plugins    []string               `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
	Code       string                 `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Message    string                 `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`
}

// NewCheckResult builds the result of loading a descriptor. err takes
// precedence over d.
func NewCheckResult(d *config.Descriptor, err error) CheckResult {
	if err != nil {
		res := CheckResult{
			Code:    string(errors.GetErrorCode(err)),
			Message: err.Error(),
		}
		if details := errors.GetErrorDetails(err); len(details) > 0 {
			res.Details = details
		}
		return res
	}

	res := CheckResult{Valid: true, Sources: d.Sources()}
	for _, c := range d.Categories() {
		res.Categories = append(res.Categories, string(c))
		cfg, _ := d.Category(c)
		res.Bundles += len(cfg.Bundles())
	}
	for _, p := range d.Plugins() {
		res.Plugins = append(res.Plugins, p.Name)
	}
	return res
}

// MatchResult is the bundle a single path was assigned to
type MatchResult struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Bundle   string `json:"bundle,omitempty" yaml:"bundle,omitempty" toml:"bundle,omitempty"`
	Matched  bool   `json:"matched" yaml:"matched" toml:"matched"`
	Module   string `json:"module,omitempty" yaml:"module,omitempty" toml:"module,omitempty"`
}

// CleanResult pairs a path with its cleaned module path
type CleanResult struct {
	Input  string `json:"input" yaml:"input" toml:"input"`
	Output string `json:"output" yaml:"output" toml:"output"`
}
