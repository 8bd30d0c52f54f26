package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Format names an output format for audit reports
type Format string

const (
	// FormatJSON writes reports as indented JSON
	FormatJSON Format = "json"
	// FormatMarkdown writes reports as a markdown document
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name; empty selects FormatJSON
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Writer renders audit reports
type Writer interface {
	Write(reports ...types.Report) error
}

// NewWriter returns the writer for format
func NewWriter(output io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
