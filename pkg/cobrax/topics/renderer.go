package topics

import "strings"

// Renderer turns raw topic content into terminal output. format is the
// topic file extension, including the dot.
type Renderer interface {
	Render(content string, format string) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(content, format string) string

// Render calls f
func (f RendererFunc) Render(content, format string) string {
	return f(content, format)
}

// PlainRenderer prints topics as written, normalising line endings and
// terminating the output with a single newline
type PlainRenderer struct{}

// Render returns content with \n line endings and one trailing newline
func (r *PlainRenderer) Render(content string, format string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.TrimRight(content, "\n") + "\n"
}
