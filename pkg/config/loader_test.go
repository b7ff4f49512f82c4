package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/assetcfg/pkg/errors"
)

const minimalTOML = `
[[files.javascripts.joinTo]]
bundle = "js/app.js"
pattern = "^app/"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func isolatedOptions(root string) LoadOptions {
	return LoadOptions{Root: root, NoUserConfig: true, SkipEnv: true}
}

func TestLoadProjectFile(t *testing.T) {
	t.Run("finds_assetcfg_toml", func(t *testing.T) {
		root := t.TempDir()
		path := writeFile(t, root, "assetcfg.toml", minimalTOML)

		d, err := Load(isolatedOptions(root))
		require.NoError(t, err)

		assert.Equal(t, []Category{Javascripts}, d.Categories())
		assert.Equal(t, []string{embeddedDefaults, path}, d.Sources())
	})

	t.Run("dotfile_is_second_choice", func(t *testing.T) {
		root := t.TempDir()
		path := writeFile(t, root, ".assetcfg.toml", minimalTOML)

		got, err := ResolveProjectFile(isolatedOptions(root))
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("toml_wins_over_yaml", func(t *testing.T) {
		root := t.TempDir()
		tomlPath := writeFile(t, root, "assetcfg.toml", minimalTOML)
		writeFile(t, root, "assetcfg.yaml", "files: {}\n")

		got, err := ResolveProjectFile(isolatedOptions(root))
		require.NoError(t, err)
		assert.Equal(t, tomlPath, got)
	})

	t.Run("yaml_descriptor", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "assetcfg.yml", `
plugins:
  sass:
    extension: .scss
    category: stylesheets
files:
  javascripts:
    joinTo:
      - bundle: js/app.js
        pattern: "^app/"
      - bundle: test/js/test.js
        pattern: "^test/(?!vendor/)"
  stylesheets:
    joinTo: css/app.css
`)

		d, err := Load(isolatedOptions(root))
		require.NoError(t, err)

		js, ok := d.Category(Javascripts)
		require.True(t, ok)
		assert.Equal(t, []string{"js/app.js", "test/js/test.js"}, js.Bundles())

		css, ok := d.Category(Stylesheets)
		require.True(t, ok)
		require.Len(t, css.JoinTo, 1)
		assert.Equal(t, ".*", css.JoinTo[0].Pattern.String())

		sass, ok := d.Plugin("sass")
		require.True(t, ok)
		assert.Equal(t, "scss", sass.Extension)
		assert.Equal(t, Stylesheets, sass.Category)
	})

	t.Run("explicit_file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "configs/bundles.toml", minimalTOML)

		d, err := Load(LoadOptions{File: path, NoUserConfig: true, SkipEnv: true})
		require.NoError(t, err)
		assert.Contains(t, d.Sources(), path)
	})

	t.Run("explicit_file_missing", func(t *testing.T) {
		_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml"), NoUserConfig: true, SkipEnv: true})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad), "got %v", err)
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "assetcfg.json", "{}")

		_, err := Load(LoadOptions{File: path, NoUserConfig: true, SkipEnv: true})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad), "got %v", err)
	})

	t.Run("malformed_toml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "assetcfg.toml", "[[files.javascripts.joinTo\nbundle = ")

		_, err := Load(isolatedOptions(root))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), "got %v", err)
	})
}

func TestLoadWithoutDescriptorFailsBeforeProcessing(t *testing.T) {
	_, err := Load(isolatedOptions(t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSection), "got %v", err)
	assert.Equal(t, "files", errors.GetErrorDetails(err)["section"])
}

func TestLoadLayering(t *testing.T) {
	t.Run("defaults_fill_ambient_sections", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "assetcfg.toml", minimalTOML)

		d, err := Load(isolatedOptions(root))
		require.NoError(t, err)

		assert.Equal(t, "public", d.Paths().Public)
		assert.Equal(t, []string{"app", "test", "vendor"}, d.Paths().Watched)
		assert.Equal(t, []string{"app/", "javascripts/"}, d.NameCleaner().Prefixes())
		assert.Equal(t, WrapperCommonJS, d.Modules().Wrapper)
		assert.Equal(t, 100*time.Millisecond, d.MatchTimeout())
	})

	t.Run("user_config_under_project", func(t *testing.T) {
		root := t.TempDir()
		userPath := writeFile(t, t.TempDir(), "config.toml", `
[paths]
public = "www"
watched = ["src"]

[modules]
wrapper = "amd"
`)
		writeFile(t, root, "assetcfg.toml", minimalTOML+`
[paths]
public = "dist"
`)

		d, err := Load(LoadOptions{Root: root, UserConfig: userPath, SkipEnv: true})
		require.NoError(t, err)

		assert.Equal(t, "dist", d.Paths().Public, "project beats user")
		assert.Equal(t, []string{"src"}, d.Paths().Watched, "user beats defaults")
		assert.Equal(t, WrapperAMD, d.Modules().Wrapper)
		assert.Len(t, d.Sources(), 3)
	})

	t.Run("user_config_can_declare_files", func(t *testing.T) {
		userPath := writeFile(t, t.TempDir(), "config.toml", minimalTOML)

		d, err := Load(LoadOptions{Root: t.TempDir(), UserConfig: userPath, SkipEnv: true})
		require.NoError(t, err)
		assert.Equal(t, []Category{Javascripts}, d.Categories())
	})

	t.Run("env_beats_files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "assetcfg.toml", minimalTOML+`
[paths]
public = "dist"
`)
		t.Setenv("ASSETCFG_PATHS__PUBLIC", "build")
		t.Setenv("ASSETCFG_PATHS__WATCHED", "app,lib")
		t.Setenv("ASSETCFG_PATTERNS__MATCHTIMEOUT", "250ms")
		t.Setenv("ASSETCFG_MODULES__NAMECLEANER", "src/")

		d, err := Load(LoadOptions{Root: root, NoUserConfig: true})
		require.NoError(t, err)

		assert.Equal(t, "build", d.Paths().Public)
		assert.Equal(t, []string{"app", "lib"}, d.Paths().Watched)
		assert.Equal(t, 250*time.Millisecond, d.MatchTimeout())
		assert.Equal(t, []string{"src/"}, d.NameCleaner().Prefixes())
	})
}

func TestLoadEnvJoinTo(t *testing.T) {
	t.Run("env_beats_files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "assetcfg.toml", minimalTOML)
		t.Setenv("ASSETCFG_FILES__JAVASCRIPTS__JOINTO", "js/env.js")

		d, err := Load(LoadOptions{Root: root, NoUserConfig: true})
		require.NoError(t, err)

		js, ok := d.Category(Javascripts)
		require.True(t, ok)
		assert.Equal(t, []string{"js/env.js"}, js.Bundles())
		assert.Equal(t, ".*", js.JoinTo[0].Pattern.String())
	})

	t.Run("env_declares_category", func(t *testing.T) {
		t.Setenv("ASSETCFG_FILES__STYLESHEETS__JOINTO", "css/all.css")

		d, err := Load(LoadOptions{Root: t.TempDir(), NoUserConfig: true})
		require.NoError(t, err)
		assert.Equal(t, []Category{Stylesheets}, d.Categories())
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ASSETCFG_PATHS__PUBLIC":               "paths.public",
		"ASSETCFG_PATTERNS__MATCHTIMEOUT":      "patterns.matchTimeout",
		"ASSETCFG_MODULES__NAMECLEANER":        "modules.nameCleaner",
		"ASSETCFG_PLUGINS__SASS__EXTENSION":    "plugins.sass.extension",
		"ASSETCFG_PLUGINS__CLEAN_CSS__ENABLED": "plugins.clean_css.enabled",
		"ASSETCFG_FILES__JAVASCRIPTS__JOINTO":  "files.javascripts.joinTo",
		"ASSETCFG_FILES__STYLESHEETS__JOINTO":  "files.stylesheets.joinTo",
		"ASSETCFG_FILES__TEMPLATES__JOINTO":    "files.templates.joinTo",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("a/b.TOML")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	f, err = FormatForPath("b.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatForPath("b.ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte(minimalTOML), Format("ini"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLoadOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assetcfg.toml", minimalTOML)

	overrides, err := ParseOverrides([]string{
		"paths.public=dist",
		"patterns.matchTimeout=250ms",
		"files.stylesheets.joinTo=css/all.css",
	})
	require.NoError(t, err)

	opts := isolatedOptions(root)
	opts.Overrides = overrides
	d, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "dist", d.Paths().Public)
	assert.Equal(t, 250*time.Millisecond, d.MatchTimeout())
	css, ok := d.Category(Stylesheets)
	require.True(t, ok)
	assert.Equal(t, []string{"css/all.css"}, css.Bundles())
	assert.Equal(t, "<overrides>", d.Sources()[len(d.Sources())-1])
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"modules.wrapper=amd", "paths.watched=app,lib", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"modules.wrapper": "amd",
		"paths.watched":   "app,lib",
		"empty":           "",
	}, got)

	for _, bad := range []string{"novalue", "=x", " =x"} {
		_, err := ParseOverrides([]string{bad})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), bad)
	}
}

func TestOrderHintOverrideKeepsBraces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assetcfg.toml", minimalTOML)

	opts := isolatedOptions(root)
	opts.Overrides = map[string]interface{}{
		"files.javascripts.order.before": "vendor/{a,b}.js",
		"paths.watched":                  "app,vendor",
	}
	d, err := Load(opts)
	require.NoError(t, err)

	js, ok := d.Category(Javascripts)
	require.True(t, ok)
	require.Len(t, js.Order.Before, 1)
	assert.Equal(t, "vendor/{a,b}.js", js.Order.Before[0].String())
	assert.True(t, js.Order.Before[0].Match("vendor/b.js"))
	assert.Equal(t, []string{"app", "vendor"}, d.Paths().Watched)
}
