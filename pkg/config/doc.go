// Package config loads, validates and compiles the asset bundler descriptor.
//
// A descriptor is assembled from layered sources (embedded defaults, the
// user config under XDG_CONFIG_HOME, the project file and ASSETCFG_*
// environment variables), validated, and compiled into an immutable
// Descriptor whose patterns are ready to evaluate. Any schema problem is
// reported as a *errors.ConfigError before a single source file is touched.
package config
