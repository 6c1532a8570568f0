// Package output renders per-author aggregates in the supported
// formats.
package output

import (
	"fmt"
	"io"

	"github.com/hal/contrib/internal/aggregate"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(aggs []*aggregate.AuthorAggregate, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatTable, "":
		return &TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
