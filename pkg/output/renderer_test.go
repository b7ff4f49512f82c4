package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/assetcfg/pkg/bundle"
	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
)

func render(t *testing.T, format Format, fn func(r *Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(NewRenderer(&buf, format)))
	return buf.String()
}

func samplePlan(t *testing.T) *bundle.Plan {
	t.Helper()
	plan, err := bundle.NewMatcher(config.Default()).Plan([]string{
		"app/initialize.js",
		"vendor/scripts/jquery.js",
		"vendor/styles/normalize.css",
		"lib/orphan.js",
		"README.md",
	})
	require.NoError(t, err)
	return plan
}

func TestRendererResolvesAuto(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatText, NewRenderer(&buf, FormatAuto).Format())
	assert.Equal(t, FormatYAML, NewRenderer(&buf, FormatYAML).Format())
}

func TestDescriptorText(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.Descriptor(config.Default())
	})

	assert.Contains(t, out, "files.javascripts")
	assert.Contains(t, out, "test/js/test-vendor.js")
	assert.Contains(t, out, "^test/(?=vendor/)")
	assert.Contains(t, out, "before: vendor/scripts/console-polyfill.js")
	assert.Contains(t, out, "wrapper: commonjs")
	assert.Contains(t, out, "nameCleaner: app/, javascripts/")
	assert.Contains(t, out, "matchTimeout: 100ms")
	assert.NotContains(t, out, "\x1b[")
}

func TestDescriptorTOMLLoadsBack(t *testing.T) {
	original := config.Default()
	out := render(t, FormatTOML, func(r *Renderer) error {
		return r.Descriptor(original)
	})

	reloaded, err := config.Parse([]byte(out), config.FormatTOML)
	require.NoError(t, err, out)
	assert.Equal(t, original.ToMap(), reloaded.ToMap())
}

func TestDescriptorYAMLLoadsBack(t *testing.T) {
	original := config.Default()
	out := render(t, FormatYAML, func(r *Renderer) error {
		return r.Descriptor(original)
	})

	reloaded, err := config.Parse([]byte(out), config.FormatYAML)
	require.NoError(t, err, out)
	assert.Equal(t, original.ToMap(), reloaded.ToMap())
}

func TestDescriptorJSON(t *testing.T) {
	out := render(t, FormatJSON, func(r *Renderer) error {
		return r.Descriptor(config.Default())
	})

	var doc struct {
		Files map[string]struct {
			JoinTo []struct {
				Bundle  string `json:"bundle"`
				Pattern string `json:"pattern"`
			} `json:"joinTo"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files["javascripts"].JoinTo, 4)
	assert.Equal(t, "js/app.js", doc.Files["javascripts"].JoinTo[0].Bundle)
	assert.Equal(t, "^app/", doc.Files["javascripts"].JoinTo[0].Pattern)
}

func TestDescriptorXML(t *testing.T) {
	out := render(t, FormatXML, func(r *Renderer) error {
		return r.Descriptor(config.Default())
	})

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))

	rules := doc.FindElements("./descriptor/files/category[@name='javascripts']/joinTo")
	require.Len(t, rules, 4)
	assert.Equal(t, "test/js/test-vendor.js", rules[3].SelectAttrValue("bundle", ""))
	assert.Equal(t, "^test/(?=vendor/)", rules[3].SelectAttrValue("pattern", ""))

	plugin := doc.FindElement("./descriptor/plugins/plugin[@name='sass']")
	require.NotNil(t, plugin)
	assert.Equal(t, "scss", plugin.SelectAttrValue("extension", ""))
	assert.Len(t, plugin.SelectElements("path"), 2)

	modules := doc.FindElement("./descriptor/modules")
	require.NotNil(t, modules)
	assert.Equal(t, "commonjs", modules.SelectAttrValue("wrapper", ""))
}

func TestPlanXMLManifest(t *testing.T) {
	out := render(t, FormatXML, func(r *Renderer) error {
		return r.Plan(samplePlan(t))
	})

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))

	root := doc.SelectElement("plan")
	require.NotNil(t, root)
	assert.Equal(t, "public", root.SelectAttrValue("public", ""))

	bundles := root.SelectElements("bundle")
	require.Len(t, bundles, 3)
	assert.Equal(t, "public/js/app.js", bundles[0].SelectAttrValue("output", ""))

	file := bundles[0].SelectElement("file")
	require.NotNil(t, file)
	assert.Equal(t, "app/initialize.js", file.Text())
	assert.Equal(t, "initialize", file.SelectAttrValue("module", ""))

	css := bundles[2].SelectElement("file")
	require.NotNil(t, css)
	assert.Empty(t, css.SelectAttrValue("module", ""))

	unmatched := root.SelectElements("unmatched")
	require.Len(t, unmatched, 1)
	assert.Equal(t, "lib/orphan.js", unmatched[0].Text())
	assert.Equal(t, "README.md", root.SelectElement("uncategorized").Text())
}

func TestPlanStructured(t *testing.T) {
	plan := samplePlan(t)

	t.Run("json", func(t *testing.T) {
		out := render(t, FormatJSON, func(r *Renderer) error { return r.Plan(plan) })
		var got bundle.Plan
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, *plan, got)
	})

	t.Run("yaml", func(t *testing.T) {
		out := render(t, FormatYAML, func(r *Renderer) error { return r.Plan(plan) })
		var got bundle.Plan
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, *plan, got)
	})

	t.Run("toml", func(t *testing.T) {
		out := render(t, FormatTOML, func(r *Renderer) error { return r.Plan(plan) })
		var got bundle.Plan
		require.NoError(t, toml.Unmarshal([]byte(out), &got))
		assert.Equal(t, plan.Bundles, got.Bundles)
	})
}

func TestPlanText(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.Plan(samplePlan(t))
	})

	assert.Contains(t, out, "public/js/app.js (javascripts) 1 files")
	assert.Contains(t, out, "  app/initialize.js [initialize]")
	assert.Contains(t, out, "not matched by any joinTo rule:")
	assert.Contains(t, out, "  lib/orphan.js (javascripts)")
	assert.Contains(t, out, "no category:")
}

func TestPlanTextEmpty(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer) error {
		return r.Plan(&bundle.Plan{Public: "public"})
	})
	assert.Equal(t, "no source files\n", out)
}

func TestCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := NewCheckResult(config.Default(), nil)
		assert.True(t, res.Valid)
		assert.Equal(t, []string{"javascripts", "stylesheets", "templates"}, res.Categories)
		assert.Equal(t, 7, res.Bundles)
		assert.Equal(t, []string{"handlebars", "sass"}, res.Plugins)

		out := render(t, FormatText, func(r *Renderer) error { return r.Check(res) })
		assert.Contains(t, out, "descriptor ok: 3 categories, 7 bundles, 2 plugins")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := config.Parse([]byte("[paths]\npublic = \"out\"\n"), config.FormatTOML)
		require.Error(t, err)

		res := NewCheckResult(nil, err)
		assert.False(t, res.Valid)
		assert.Equal(t, string(errors.ErrMissingSection), res.Code)
		assert.Equal(t, "files", res.Details["section"])

		out := render(t, FormatJSON, func(r *Renderer) error { return r.Check(res) })
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, false, got["valid"])
		assert.Equal(t, "MISSING_SECTION", got["code"])

		xmlOut := render(t, FormatXML, func(r *Renderer) error { return r.Check(res) })
		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(xmlOut))
		assert.Equal(t, "MISSING_SECTION", doc.FindElement("./check/error").SelectAttrValue("code", ""))
	})
}

func TestMatches(t *testing.T) {
	results := []MatchResult{
		{Path: "app/a.js", Category: "javascripts", Bundle: "js/app.js", Matched: true, Module: "a"},
		{Path: "lib/b.js", Category: "javascripts"},
	}

	text := render(t, FormatText, func(r *Renderer) error { return r.Matches(results) })
	assert.Contains(t, text, "js/app.js")
	assert.Contains(t, text, "(none)")

	out := render(t, FormatTOML, func(r *Renderer) error { return r.Matches(results) })
	var got struct {
		Matches []MatchResult `toml:"matches"`
	}
	require.NoError(t, toml.Unmarshal([]byte(out), &got))
	assert.Equal(t, results, got.Matches)
}

func TestCleaned(t *testing.T) {
	results := []CleanResult{{Input: "app/javascripts/foo.js", Output: "foo.js"}}

	assert.Equal(t, "app/javascripts/foo.js -> foo.js\n",
		render(t, FormatText, func(r *Renderer) error { return r.Cleaned(results) }))

	out := render(t, FormatYAML, func(r *Renderer) error { return r.Cleaned(results) })
	var got struct {
		Names []CleanResult `yaml:"names"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, results, got.Names)
}

func TestError(t *testing.T) {
	err := errors.New(errors.ErrInvalidPattern, "bad pattern").
		WithDetail("section", "files.javascripts.joinTo").
		WithDetail("index", 2)

	text := render(t, FormatText, func(r *Renderer) error { return r.Error(err) })
	assert.Contains(t, text, "Error: [INVALID_PATTERN] bad pattern")
	assert.Contains(t, text, "  index: 2")
	assert.Contains(t, text, "  section: files.javascripts.joinTo")

	out := render(t, FormatJSON, func(r *Renderer) error { return r.Error(err) })
	var got struct {
		Error struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "INVALID_PATTERN", got.Error.Code)
	assert.Equal(t, "files.javascripts.joinTo", got.Error.Details["section"])
}

func TestMarkdown(t *testing.T) {
	md := "# Title\n\nSome `code`.\n"

	text := render(t, FormatText, func(r *Renderer) error { return r.Markdown(md) })
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "code")

	out := render(t, FormatXML, func(r *Renderer) error { return r.Markdown(md) })
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	assert.Equal(t, md, doc.SelectElement("markdown").Text())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "done\n", render(t, FormatText, func(r *Renderer) error {
		return r.Message("Success", "done")
	}))

	out := render(t, FormatJSON, func(r *Renderer) error {
		return r.Message("Success", "done")
	})
	assert.JSONEq(t, `{"message": "done"}`, out)
}

func TestPlanSharedBundle(t *testing.T) {
	plan, err := bundle.NewMatcher(config.Default()).Plan([]string{
		"app/initialize.js",
		"app/templates/home.hbs",
	})
	require.NoError(t, err)

	text := render(t, FormatText, func(r *Renderer) error { return r.Plan(plan) })
	assert.Contains(t, text, "public/js/app.js (javascripts, templates) 2 files")
	assert.Contains(t, text, "  app/templates/home.hbs [templates/home]")

	out := render(t, FormatXML, func(r *Renderer) error { return r.Plan(plan) })
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	bundles := doc.SelectElement("plan").SelectElements("bundle")
	require.Len(t, bundles, 1)
	assert.Equal(t, "javascripts templates", bundles[0].SelectAttrValue("categories", ""))
	assert.Len(t, bundles[0].SelectElements("file"), 2)
}
