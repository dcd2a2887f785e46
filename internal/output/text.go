package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/opsgate/vigil/internal/types"
)

// Layout constants. Every result line follows the same column grid:
//
//	margin icon [SEV]  category      title ... outcome
const (
	colMargin  = 2   // left margin for result lines
	badgeWidth = 8   // visible width of a padded severity badge, e.g. "[CRIT]  "
	catWidth   = 12  // fixed category column
	maxLine    = 100 // hard wrap cap for detail text
	ruleWidth  = 64  // width of horizontal divider rules
)

// TextFormatter writes a colored, human-readable audit report.
// One line per result; Verbose appends detail and remediation text for
// non-passing outcomes.
type TextFormatter struct {
	Verbose bool
	Width   int  // terminal width for wrapping; 0 = unknown
	Dumb    bool // TERM=dumb — single-char ASCII fallback icons
}

// Color helpers — each returns a sprint function.
var (
	cBold   = color.New(color.Bold).SprintFunc()
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cRed    = color.New(color.FgRed).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()

	cRedBold    = color.New(color.FgRed, color.Bold).SprintFunc()
	cGreenBold  = color.New(color.FgGreen, color.Bold).SprintFunc()
	cYellowBold = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// IsDumbTerm returns true when the terminal doesn't support Unicode.
func IsDumbTerm() bool {
	t := os.Getenv("TERM")
	return t == "dumb" || t == ""
}

// Write renders the full text report.
func (f *TextFormatter) Write(w io.Writer, report *types.AuditReport) error {
	f.writeHeader(w, report)
	f.writeResults(w, report)
	f.writeSummary(w, report)
	return nil
}

func (f *TextFormatter) writeHeader(w io.Writer, r *types.AuditReport) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", cBold("vigil — host security & performance audit"))
	fmt.Fprintf(w, "  %s %s · %s\n", cDim("Host:"), r.HostSummary.Hostname, r.HostSummary.OS)
	fmt.Fprintf(w, "  %s %s\n", cDim("Started:"), r.HostSummary.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(w, "  %s %s\n", cDim("Run:"), r.RunID)
	fmt.Fprintln(w)
}

// writeResults emits one line per result in report order.
func (f *TextFormatter) writeResults(w io.Writer, r *types.AuditReport) {
	for _, res := range r.Results {
		f.writeResultLine(w, res)
		if f.Verbose && res.Outcome != types.OutcomePass {
			f.writeDetailBlock(w, res)
		}
	}
}

func (f *TextFormatter) writeResultLine(w io.Writer, res types.CheckResult) {
	fmt.Fprintf(w, "%s%s %s %-*s %s %s\n",
		pad(colMargin),
		f.outcomeIcon(res.Outcome),
		f.severityBadge(res.Severity),
		catWidth, res.Category,
		res.Title,
		f.outcomeTag(res.Outcome),
	)
}

// writeDetailBlock appends the observed detail and remediation hint for a
// non-passing result (verbose mode only).
func (f *TextFormatter) writeDetailBlock(w io.Writer, res types.CheckResult) {
	indent := pad(colMargin + 2)
	if res.Detail != "" {
		fmt.Fprintf(w, "%s%s %s\n", indent, cDim("detail:"), f.wrap(res.Detail, colMargin+10))
	}
	if res.Remediation != "" && res.Outcome != types.OutcomeSkipped {
		fmt.Fprintf(w, "%s%s %s\n", indent, cGreen("fix:"), f.wrap(res.Remediation, colMargin+7))
	}
}

func (f *TextFormatter) writeSummary(w io.Writer, r *types.AuditReport) {
	rule := cDim(strings.Repeat("─", ruleWidth))
	if f.Dumb {
		rule = cDim(strings.Repeat("-", ruleWidth))
	}

	s := r.SummaryCounts
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", rule)
	fmt.Fprintf(w, "  %s  %s · %s · %s · %s · %s\n",
		cBold("Summary:"),
		cGreenBold(fmt.Sprintf("%d pass", s.Pass)),
		cYellowBold(fmt.Sprintf("%d warn", s.Warn)),
		cRedBold(fmt.Sprintf("%d fail", s.Fail)),
		cDim(fmt.Sprintf("%d skipped", s.Skipped)),
		cRedBold(fmt.Sprintf("%d error", s.Error)),
	)
	f.writeVerdict(w, r)
	fmt.Fprintf(w, "  %s\n", rule)
}

func (f *TextFormatter) writeVerdict(w io.Writer, r *types.AuditReport) {
	v := r.Verdict
	mode := "informational"
	if v.StrictEnabled {
		mode = "strict"
	}
	if v.Status == types.VerdictPass {
		fmt.Fprintf(w, "  %s  %s %s\n", cBold("Verdict:"), cGreenBold("PASS"), cDim("("+mode+")"))
		return
	}
	fmt.Fprintf(w, "  %s  %s %s\n", cBold("Verdict:"), cRedBold("FAIL"), cDim("("+mode+")"))
}

func (f *TextFormatter) outcomeIcon(k types.OutcomeKind) string {
	if f.Dumb {
		switch k {
		case types.OutcomePass:
			return cGreen("+")
		case types.OutcomeWarn:
			return cYellow("!")
		case types.OutcomeFail:
			return cRed("x")
		case types.OutcomeSkipped:
			return cDim("-")
		case types.OutcomeProbeError:
			return cRed("!")
		default:
			return "?"
		}
	}
	switch k {
	case types.OutcomePass:
		return cGreen("✓")
	case types.OutcomeWarn:
		return cYellow("⚠")
	case types.OutcomeFail:
		return cRed("✗")
	case types.OutcomeSkipped:
		return cDim("○")
	case types.OutcomeProbeError:
		return cRed("⚠")
	default:
		return "?"
	}
}

func (f *TextFormatter) outcomeTag(k types.OutcomeKind) string {
	switch k {
	case types.OutcomePass:
		return cGreen("PASS")
	case types.OutcomeWarn:
		return cYellow("WARN")
	case types.OutcomeFail:
		return cRed("FAIL")
	case types.OutcomeSkipped:
		return cDim("SKIP")
	case types.OutcomeProbeError:
		return cRed("ERROR")
	default:
		return strings.ToUpper(string(k))
	}
}

func (f *TextFormatter) severityBadge(sev types.Severity) string {
	raw := severityBadgeRaw(sev)
	padded := fmt.Sprintf("%-*s", badgeWidth, raw)
	switch sev {
	case types.SeverityCritical:
		return cRedBold(padded)
	case types.SeverityHigh:
		return cRed(padded)
	case types.SeverityMedium:
		return cYellow(padded)
	case types.SeverityLow:
		return cGreen(padded)
	case types.SeverityInfo:
		return cDim(padded)
	default:
		return padded
	}
}

func severityBadgeRaw(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "[CRIT]"
	case types.SeverityHigh:
		return "[HIGH]"
	case types.SeverityMedium:
		return "[MED]"
	case types.SeverityLow:
		return "[LOW]"
	case types.SeverityInfo:
		return "[INFO]"
	default:
		return "[----]"
	}
}

// wrapWidth returns the effective line width: min(terminal, maxLine).
func (f *TextFormatter) wrapWidth() int {
	if f.Width > 0 && f.Width < maxLine {
		return f.Width
	}
	return maxLine
}

// wrap word-wraps text so continuation lines start at wrapCol.
func (f *TextFormatter) wrap(text string, wrapCol int) string {
	w := f.wrapWidth()
	if wrapCol+len(text) <= w {
		return text
	}

	avail := w - wrapCol
	if avail < 20 {
		return text
	}

	wrapPad := strings.Repeat(" ", wrapCol)
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > avail {
			b.WriteByte('\n')
			b.WriteString(wrapPad)
			b.WriteString(word)
			lineLen = len(word)
		} else {
			b.WriteByte(' ')
			b.WriteString(word)
			lineLen += 1 + len(word)
		}
	}
	return b.String()
}

func pad(n int) string {
	return strings.Repeat(" ", n)
}
