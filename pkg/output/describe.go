package output

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/assetcfg/pkg/config"
)

// DescribeMarkdown explains a descriptor in prose and tables
func DescribeMarkdown(d *config.Descriptor) string {
	var b strings.Builder

	b.WriteString("# Asset descriptor\n\n")
	fmt.Fprintf(&b, "Loaded from %s.\n\n", codeList(d.Sources()))
	fmt.Fprintf(&b, "Bundles are written below `%s`. Source files are discovered in %s.\n\n",
		d.Paths().Public, codeList(d.Paths().Watched))

	for _, c := range d.Categories() {
		cfg, _ := d.Category(c)
		fmt.Fprintf(&b, "## %s\n\n", c)
		b.WriteString("Rules are tried top to bottom; a file joins the first bundle whose pattern matches its path.\n\n")
		b.WriteString("| # | Bundle | Pattern |\n|---|--------|---------|\n")
		for i, rule := range cfg.JoinTo {
			fmt.Fprintf(&b, "| %d | `%s` | `%s` |\n", i+1, escapeCell(rule.Bundle), escapeCell(rule.Pattern.String()))
		}
		b.WriteString("\n")

		if len(cfg.Order.Before) > 0 {
			fmt.Fprintf(&b, "Concatenated first: %s.\n\n", codeList(globStrings(cfg.Order.Before)))
		}
		if len(cfg.Order.After) > 0 {
			fmt.Fprintf(&b, "Concatenated last: %s.\n\n", codeList(globStrings(cfg.Order.After)))
		}
	}

	if plugins := d.Plugins(); len(plugins) > 0 {
		b.WriteString("## Plugins\n\n")
		b.WriteString("| Plugin | Extension | Category | Paths |\n|--------|-----------|----------|-------|\n")
		for _, p := range plugins {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				p.Name, orDash(p.Extension), orDash(string(p.Category)), orDash(strings.Join(p.Paths, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Modules\n\n")
	fmt.Fprintf(&b, "Scripts are wrapped as `%s` modules. ", d.Modules().Wrapper)
	prefixes := d.NameCleaner().Prefixes()
	if len(prefixes) == 0 {
		b.WriteString("Module names are the source paths without extension.\n")
	} else {
		fmt.Fprintf(&b, "Module names drop the leading %s segments, so `%s` becomes `%s`.\n",
			codeList(prefixes), prefixes[0]+"main.js", d.Clean(prefixes[0]+"main.js"))
	}

	return b.String()
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "nothing"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
