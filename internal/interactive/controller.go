// Package interactive provides a cooperative, single-threaded walkthrough
// over a completed audit report. It only runs after the engine has fully
// finished and never re-runs checks; the report and its verdict are fixed
// before the first prompt.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/opsgate/vigil/internal/types"
)

// State identifies where the walkthrough is.
type State int

const (
	// StateViewing shows the result summary line at the current index.
	StateViewing State = iota
	// StateDetail shows the detail and remediation for the current index.
	StateDetail
	// StateDone is terminal; the session has ended.
	StateDone
)

// Controller is the walkthrough state machine. All methods run on the
// caller's goroutine; the controller suspends at each input wait point.
type Controller struct {
	report *types.AuditReport
	state  State
	index  int
}

// New creates a controller positioned at the first result.
func New(report *types.AuditReport) *Controller {
	return &Controller{report: report, state: StateViewing}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Index returns the current result index.
func (c *Controller) Index() int { return c.index }

// Current returns the result at the current index.
func (c *Controller) Current() types.CheckResult {
	return c.report.Results[c.index]
}

// Next advances to the following result. A no-op at the last result and in
// any state other than Viewing — there is no wraparound past the ends.
func (c *Controller) Next() {
	if c.state != StateViewing {
		return
	}
	if c.index < len(c.report.Results)-1 {
		c.index++
	}
}

// Prev moves to the preceding result. A no-op at index 0 and in any state
// other than Viewing.
func (c *Controller) Prev() {
	if c.state != StateViewing {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// Enter switches from Viewing to Detail at the current index.
func (c *Controller) Enter() {
	if c.state == StateViewing {
		c.state = StateDetail
	}
}

// Back returns from Detail to Viewing at the same index.
func (c *Controller) Back() {
	if c.state == StateDetail {
		c.state = StateViewing
	}
}

// Quit ends the session from any state. The already-computed verdict and
// exit code are unaffected.
func (c *Controller) Quit() {
	c.state = StateDone
}

var (
	iBold  = color.New(color.Bold).SprintFunc()
	iDim   = color.New(color.Faint).SprintFunc()
	iRed   = color.New(color.FgRed).SprintFunc()
	iGreen = color.New(color.FgGreen).SprintFunc()
)

// Run drives the walkthrough loop: render the current state, wait for one
// command, apply the transition. Commands: n(ext), p(rev), d(etail),
// b(ack), q(uit). EOF on input quits.
func (c *Controller) Run(in io.Reader, out io.Writer) error {
	if len(c.report.Results) == 0 {
		fmt.Fprintln(out, "  no results to browse")
		c.state = StateDone
		return nil
	}

	scanner := bufio.NewScanner(in)
	for c.state != StateDone {
		c.render(out)

		if !scanner.Scan() {
			c.Quit()
			break
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "next", "":
			c.Next()
		case "p", "prev", "previous":
			c.Prev()
		case "d", "detail", "enter":
			c.Enter()
		case "b", "back":
			c.Back()
		case "q", "quit", "exit":
			c.Quit()
		default:
			fmt.Fprintf(out, "  %s\n", iDim("commands: n(ext) p(rev) d(etail) b(ack) q(uit)"))
		}
	}

	fmt.Fprintf(out, "\n  %s\n", iDim("session ended"))
	return scanner.Err()
}

// render prints the prompt for the current state.
func (c *Controller) render(out io.Writer) {
	res := c.Current()
	pos := fmt.Sprintf("[%d/%d]", c.index+1, len(c.report.Results))

	switch c.state {
	case StateViewing:
		fmt.Fprintf(out, "\n  %s %s %s — %s (%s)\n",
			iDim(pos), iBold(res.CheckID), outcomeLabel(res.Outcome), res.Title, res.Severity)
		fmt.Fprintf(out, "  %s ", iDim("n/p/d/q>"))
	case StateDetail:
		fmt.Fprintf(out, "\n  %s %s\n", iDim(pos), iBold(res.Title))
		if res.Detail != "" {
			fmt.Fprintf(out, "  %s %s\n", iDim("detail:"), res.Detail)
		}
		if res.Remediation != "" {
			fmt.Fprintf(out, "  %s %s\n", iGreen("fix:"), res.Remediation)
		}
		fmt.Fprintf(out, "  %s ", iDim("b/q>"))
	}
}

func outcomeLabel(k types.OutcomeKind) string {
	switch k {
	case types.OutcomePass:
		return iGreen("PASS")
	case types.OutcomeWarn:
		return iRed("WARN")
	case types.OutcomeFail:
		return iRed("FAIL")
	case types.OutcomeSkipped:
		return iDim("SKIP")
	case types.OutcomeProbeError:
		return iRed("ERROR")
	default:
		return string(k)
	}
}
