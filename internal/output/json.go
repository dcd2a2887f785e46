package output

import (
	"encoding/json"
	"io"

	"github.com/opsgate/vigil/internal/types"
)

// JSONFormatter writes an audit report as a single JSON object with stable
// key order, suitable for downstream tooling that diffs reports over time.
type JSONFormatter struct{}

// Write renders the full report as pretty-printed JSON. Results keep the
// report's registry order; nothing is reordered or deduplicated.
func (f *JSONFormatter) Write(w io.Writer, report *types.AuditReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}
