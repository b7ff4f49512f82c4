package output

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/assetcfg/pkg/errors"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output device
	FormatAuto Format = iota
	// FormatTerminal renders styled tables and colors
	FormatTerminal
	// FormatText renders the same layout without styling
	FormatText
	FormatJSON
	FormatYAML
	FormatTOML
	FormatXML
)

// FormatNames lists the accepted --format values
var FormatNames = []string{"auto", "term", "text", "json", "yaml", "toml", "xml"}

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// Structured reports whether f is a machine readable format
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatTOML || f == FormatXML
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "xml":
		return FormatXML, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q, expected one of %s",
			s, strings.Join(FormatNames, ", ")).
			WithDetail("format", s)
	}
}

// DetectFormat determines the appropriate output format based on environment and terminal capabilities
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// Resolve turns FormatAuto into a concrete format for w. Writers that are not
// files resolve to FormatText.
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}
