package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through unchanged.
type GlamourRenderer struct {
	Style string // "auto", "notty", a standard style name or a style file path
	Width int    // word wrap; 0 disables wrapping
}

// NewGlamourRenderer picks the plain style when stdout is not a terminal
func NewGlamourRenderer() *GlamourRenderer {
	style := "auto"
	if os.Getenv("NO_COLOR") != "" || (!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())) {
		style = "notty"
	}
	return &GlamourRenderer{Style: style, Width: 100}
}

// Render converts markdown to terminal output, falling back to the source
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "notty", "dark", "light", "dracula", "pink", "ascii", "tokyo-night":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
