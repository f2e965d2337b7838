package listing

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a listing output format
type Format string

const (
	FormatText    Format = "text"
	FormatHTML    Format = "html"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatUnknown Format = "unknown"
)

// ErrUnsupportedFormat is returned for output formats the renderer does not know
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat resolves a format name given on the command line
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat picks the output format from a file extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatText
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// SupportedFormats returns the names accepted by ParseFormat
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatHTML), string(FormatJSON), string(FormatYAML)}
}

// ContentType returns the MIME type of rendered output
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}
