// Package output provides formatters that render audit reports in
// different formats.
package output

import (
	"fmt"
	"io"

	"github.com/opsgate/vigil/internal/types"
)

// Formatter writes an audit report to the given writer.
type Formatter interface {
	Write(w io.Writer, report *types.AuditReport) error
}

// Supported --format values.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ForFormat resolves a format name to a Formatter. An unsupported name is a
// configuration error the caller must surface before any check runs.
func ForFormat(format string, verbose bool, width int, dumb bool) (Formatter, error) {
	switch format {
	case FormatText:
		return &TextFormatter{Verbose: verbose, Width: width, Dumb: dumb}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
}
