// Package output renders descriptors, bundle plans and command results in
// the formats accepted by --format.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/assetcfg/pkg/bundle"
	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/logging"
	"github.com/arthur-debert/assetcfg/pkg/output/styles"
)

// markdownWidth is the word wrap applied to rendered markdown
const markdownWidth = 100

// Renderer writes results to w in a single format
type Renderer struct {
	w      io.Writer
	format Format
	logger zerolog.Logger
}

// NewRenderer creates a renderer. FormatAuto is resolved against w; an
// explicit FormatTerminal forces colors even when w is not a terminal.
func NewRenderer(w io.Writer, format Format) *Renderer {
	r := &Renderer{
		w:      w,
		format: Resolve(format, w),
		logger: logging.GetLogger("output.renderer"),
	}
	if format == FormatTerminal {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	r.logger.Debug().
		Str("requested", format.String()).
		Str("resolved", r.format.String()).
		Msg("Created renderer")
	return r
}

// Format returns the resolved output format
func (r *Renderer) Format() Format {
	return r.format
}

// Descriptor renders the compiled descriptor. Structured formats emit the
// file schema, so TOML and YAML output can be loaded back.
func (r *Renderer) Descriptor(d *config.Descriptor) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(descriptorXML(d))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(d.ToMap())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.paint("Muted", "sources:"), strings.Join(d.Sources(), ", "))

	for _, c := range d.Categories() {
		cfg, _ := d.Category(c)
		fmt.Fprintf(&b, "\n%s\n", r.paint("SubHeader", "files."+string(c)))

		rows := [][]string{{"#", "Bundle", "Pattern"}}
		for i, rule := range cfg.JoinTo {
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				r.paint("Bundle", rule.Bundle),
				r.paint("Pattern", rule.Pattern.String()),
			})
		}
		b.WriteString(r.table(rows))

		if len(cfg.Order.Before) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", r.paint("Muted", "before:"), strings.Join(globStrings(cfg.Order.Before), ", "))
		}
		if len(cfg.Order.After) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", r.paint("Muted", "after:"), strings.Join(globStrings(cfg.Order.After), ", "))
		}
	}

	if plugins := d.Plugins(); len(plugins) > 0 {
		fmt.Fprintf(&b, "\n%s\n", r.paint("SubHeader", "plugins"))
		rows := [][]string{{"Plugin", "Extension", "Category", "Paths", "Options"}}
		for _, p := range plugins {
			rows = append(rows, []string{
				p.Name,
				p.Extension,
				string(p.Category),
				strings.Join(p.Paths, ", "),
				formatOptions(p.Options),
			})
		}
		b.WriteString(r.table(rows))
	}

	modules := d.Modules()
	paths := d.Paths()
	fmt.Fprintf(&b, "\n%s\n", r.paint("SubHeader", "modules"))
	fmt.Fprintf(&b, "  wrapper: %s\n", modules.Wrapper)
	fmt.Fprintf(&b, "  nameCleaner: %s\n", strings.Join(modules.NameCleaner.Prefixes(), ", "))
	fmt.Fprintf(&b, "\n%s\n", r.paint("SubHeader", "paths"))
	fmt.Fprintf(&b, "  public: %s\n", paths.Public)
	fmt.Fprintf(&b, "  watched: %s\n", strings.Join(paths.Watched, ", "))
	fmt.Fprintf(&b, "  matchTimeout: %s\n", d.MatchTimeout())

	return r.write(b.String())
}

// Check renders a validation result
func (r *Renderer) Check(res CheckResult) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(checkXML(res))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(res)
	}

	var b strings.Builder
	if !res.Valid {
		fmt.Fprintf(&b, "%s %s\n", r.paint("Error", "invalid descriptor:"), res.Message)
		for _, k := range sortedKeys(res.Details) {
			fmt.Fprintf(&b, "  %s %v\n", r.paint("Muted", k+":"), res.Details[k])
		}
		return r.write(b.String())
	}

	fmt.Fprintf(&b, "%s %d categories, %d bundles, %d plugins\n",
		r.paint("Success", "descriptor ok:"), len(res.Categories), res.Bundles, len(res.Plugins))
	fmt.Fprintf(&b, "  %s %s\n", r.paint("Muted", "sources:"), strings.Join(res.Sources, ", "))
	fmt.Fprintf(&b, "  %s %s\n", r.paint("Muted", "categories:"), strings.Join(res.Categories, ", "))
	if len(res.Plugins) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", r.paint("Muted", "plugins:"), strings.Join(res.Plugins, ", "))
	}
	return r.write(b.String())
}

// Matches renders per path bundle assignments
func (r *Renderer) Matches(results []MatchResult) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(matchesXML(results))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(map[string]interface{}{"matches": results})
	}

	rows := [][]string{{"Path", "Category", "Bundle", "Module"}}
	for _, m := range results {
		target := r.paint("Bundle", m.Bundle)
		if !m.Matched {
			target = r.paint("Warning", "(none)")
		}
		rows = append(rows, []string{
			r.paint("FilePath", m.Path),
			r.paint("Category", m.Category),
			target,
			r.paint("Module", m.Module),
		})
	}
	return r.write(r.table(rows))
}

// Cleaned renders name cleaner results
func (r *Renderer) Cleaned(results []CleanResult) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(cleanedXML(results))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(map[string]interface{}{"names": results})
	}

	var b strings.Builder
	for _, c := range results {
		fmt.Fprintf(&b, "%s -> %s\n", r.paint("FilePath", c.Input), r.paint("Module", c.Output))
	}
	return r.write(b.String())
}

// Plan renders a bundle plan
func (r *Renderer) Plan(p *bundle.Plan) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(planXML(p))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(p)
	}

	var b strings.Builder
	for _, bd := range p.Bundles {
		fmt.Fprintf(&b, "%s %s %s\n",
			r.paint("Bundle", bd.Output),
			r.paint("Category", "("+strings.Join(bundleCategories(bd), ", ")+")"),
			r.paint("Muted", fmt.Sprintf("%d files", len(bd.Files))))
		for i, f := range bd.Files {
			if bd.Modules != nil {
				fmt.Fprintf(&b, "  %s %s\n", r.paint("FilePath", f), r.paint("Module", "["+bd.Modules[i]+"]"))
			} else {
				fmt.Fprintf(&b, "  %s\n", r.paint("FilePath", f))
			}
		}
	}

	if len(p.Unmatched) > 0 {
		fmt.Fprintf(&b, "\n%s\n", r.paint("Warning", "not matched by any joinTo rule:"))
		for _, m := range p.Unmatched {
			fmt.Fprintf(&b, "  %s %s\n", m.Path, r.paint("Category", "("+string(m.Category)+")"))
		}
	}
	if len(p.Uncategorized) > 0 {
		fmt.Fprintf(&b, "\n%s\n", r.paint("Muted", "no category:"))
		for _, f := range p.Uncategorized {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	if len(p.Bundles) == 0 && len(p.Unmatched) == 0 && len(p.Uncategorized) == 0 {
		b.WriteString(r.paint("Muted", "no source files") + "\n")
	}
	return r.write(b.String())
}

// Markdown renders a markdown document. Terminal output goes through
// glamour; text output uses glamour's plain style.
func (r *Renderer) Markdown(md string) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(markdownXML(md))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(map[string]interface{}{"markdown": md})
	}

	options := []glamour.TermRendererOption{glamour.WithWordWrap(markdownWidth)}
	if r.format == FormatTerminal {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		r.logger.Debug().Err(err).Msg("Markdown renderer unavailable, writing source")
		return r.write(md)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		r.logger.Debug().Err(err).Msg("Markdown rendering failed, writing source")
		return r.write(md)
	}
	return r.write(rendered)
}

// Error renders err with its code and details
func (r *Renderer) Error(err error) error {
	payload := map[string]interface{}{
		"code":    string(errors.GetErrorCode(err)),
		"message": err.Error(),
	}
	details := errors.GetErrorDetails(err)
	if len(details) > 0 {
		payload["details"] = details
	}

	switch r.format {
	case FormatXML:
		return r.writeXML(errorXML(err))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(map[string]interface{}{"error": payload})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.paint("Error", "Error:"), err.Error())
	for _, k := range sortedKeys(details) {
		fmt.Fprintf(&b, "  %s %v\n", r.paint("Muted", k+":"), details[k])
	}
	return r.write(b.String())
}

// Message writes msg in the named style. Structured formats ignore styles.
func (r *Renderer) Message(style, msg string) error {
	switch r.format {
	case FormatXML:
		return r.writeXML(messageXML(msg))
	case FormatJSON, FormatYAML, FormatTOML:
		return r.structured(map[string]string{"message": msg})
	}
	return r.write(r.paint(style, msg) + "\n")
}

func bundleCategories(b bundle.Bundle) []string {
	if len(b.Categories) == 0 {
		return []string{string(b.Category)}
	}
	out := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		out[i] = string(c)
	}
	return out
}

func (r *Renderer) structured(v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode YAML")
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(r.w).Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode TOML")
		}
		return nil
	default:
		return errors.Newf(errors.ErrInternal, "format %s is not structured", r.format)
	}
}

// paint applies a named style in terminal mode only
func (r *Renderer) paint(style, s string) string {
	if r.format != FormatTerminal || s == "" {
		return s
	}
	return styles.GetStyle(style).Render(s)
}

func (r *Renderer) table(rows [][]string) string {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		r.logger.Debug().Err(err).Msg("Table rendering failed")
		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t") + "\n")
		}
		return b.String()
	}
	if r.format != FormatTerminal {
		out = pterm.RemoveColorFromString(out)
	}
	return indent(out, "  ") + "\n"
}

func (r *Renderer) write(s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(r.w, s)
	return err
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func formatOptions(opts map[string]interface{}) string {
	parts := make([]string, 0, len(opts))
	for _, k := range sortedKeys(opts) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, opts[k]))
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
