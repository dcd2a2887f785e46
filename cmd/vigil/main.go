// Package main is the entry point for vigil — audit the host, trust the report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/opsgate/vigil/internal/checks"
	"github.com/opsgate/vigil/internal/config"
	"github.com/opsgate/vigil/internal/engine"
	"github.com/opsgate/vigil/internal/interactive"
	"github.com/opsgate/vigil/internal/logging"
	"github.com/opsgate/vigil/internal/output"
	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/report"
	"github.com/opsgate/vigil/internal/types"
)

// version is set at build time via -ldflags. The default is a dev fallback
// for plain `go install` or `go run` usage.
var version = "0.3.1"

// Exit codes. Verdict codes (0/1) only apply once a report was produced;
// everything else signals that no complete audit happened.
const (
	exitPass    = 0 // verdict pass, or non-strict run completed
	exitVerdict = 1 // strict verdict fail
	exitConfig  = 2 // configuration/validation error before execution
	exitStartup = 3 // engine could not start (zero checks selected)
	exitRender  = 4 // formatter could not serialize the report
)

// Config holds all parsed CLI flag values.
type Config struct {
	Format      string
	Verbose     bool
	Strict      bool
	Interactive bool
	Categories  string
	ConfigFile  string
	Concurrency int
	Timeout     time.Duration
	NoColor     bool
	Debug       bool
	ShowVersion bool
}

// parseFlags parses command-line arguments into a Config using a dedicated
// FlagSet, keeping the global flag.CommandLine clean for testability.
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("vigil", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Format, "format", output.FormatText, "Output format: text, json")
	fs.StringVar(&cfg.Format, "f", output.FormatText, "Output format (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show detail and remediation for non-passing checks")
	fs.BoolVar(&cfg.Verbose, "v", false, "Show detail and remediation (shorthand)")
	fs.BoolVar(&cfg.Strict, "strict", false, "Tie the exit code to the audit verdict (0 = pass, 1 = fail)")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Browse results interactively instead of printing a report")
	fs.BoolVar(&cfg.Interactive, "i", false, "Browse results interactively (shorthand)")
	fs.StringVar(&cfg.Categories, "categories", "", "Run only these categories (comma-separated): security, linux, performance")
	fs.StringVar(&cfg.Categories, "c", "", "Run only these categories (shorthand)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to an optional YAML config file")
	fs.IntVar(&cfg.Concurrency, "concurrency", 0, "Worker pool size (0 = auto)")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-check timeout (0 = default 5s)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug diagnostic output")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  vigil v%s — host security & performance audit\n", version)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  Usage: vigil [options]\n\n")
		fmt.Fprintf(os.Stderr, "  Options:\n")
		fmt.Fprintf(os.Stderr, "    -f,  --format <type>       Output format: text, json (default: text)\n")
		fmt.Fprintf(os.Stderr, "    -v,  --verbose             Show detail and remediation for non-passing checks\n")
		fmt.Fprintf(os.Stderr, "         --strict             Exit 0 only when no high/critical finding exists\n")
		fmt.Fprintf(os.Stderr, "    -i,  --interactive         Browse results interactively\n")
		fmt.Fprintf(os.Stderr, "    -c,  --categories <list>   Run only these categories: security, linux, performance\n")
		fmt.Fprintf(os.Stderr, "         --config <file>      Optional YAML config file\n")
		fmt.Fprintf(os.Stderr, "         --concurrency <n>    Worker pool size (default: auto)\n")
		fmt.Fprintf(os.Stderr, "         --timeout <dur>      Per-check timeout (default: 5s)\n")
		fmt.Fprintf(os.Stderr, "         --no-color           Disable colored output\n")
		fmt.Fprintf(os.Stderr, "         --debug              Enable debug diagnostic output\n")
		fmt.Fprintf(os.Stderr, "         --version            Print version and exit\n")
		fmt.Fprintf(os.Stderr, "\n  Exit codes:\n")
		fmt.Fprintf(os.Stderr, "    0  verdict pass (or non-strict run completed)\n")
		fmt.Fprintf(os.Stderr, "    1  strict verdict fail\n")
		fmt.Fprintf(os.Stderr, "    2  configuration error (unknown category or format)\n")
		fmt.Fprintf(os.Stderr, "    3  engine startup error (no checks selected)\n")
		fmt.Fprintf(os.Stderr, "    4  report rendering error\n")
		fmt.Fprintf(os.Stderr, "\n  Examples:\n")
		fmt.Fprintf(os.Stderr, "    vigil                                Audit everything, text report\n")
		fmt.Fprintf(os.Stderr, "    vigil --categories security          Security checks only\n")
		fmt.Fprintf(os.Stderr, "    vigil --format json > audit.json     JSON for downstream tooling\n")
		fmt.Fprintf(os.Stderr, "    vigil --strict && deploy.sh          Gate a deploy on the verdict\n")
		fmt.Fprintf(os.Stderr, "    vigil --interactive                  Page through findings\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(exitConfig)
	}
	os.Exit(run(cfg))
}

// run executes the audit with the given configuration and returns an exit code.
func run(cfg *Config) int {
	if cfg.ShowVersion {
		fmt.Fprintf(os.Stdout, "vigil v%s\n", version)
		return exitPass
	}

	if code := applyConfigFile(cfg); code >= 0 {
		return code
	}

	// All validation happens here, before any probe executes.
	categories, code := validateConfig(cfg)
	if code >= 0 {
		return code
	}

	if cfg.NoColor || cfg.Format != output.FormatText || output.IsDumbTerm() {
		color.NoColor = true
	}

	logger := logging.New(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	reg := registry.New()
	if err := checks.RegisterAll(reg); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Invalid check catalog: %v\n", err)
		return exitConfig
	}

	selected := reg.Select(categories)

	// SIGINT stops dispatching new checks; in-flight checks finish up to
	// their own timeout.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now()
	facts := probe.Collect(ctx, logger)

	eng := engine.New(facts, logger, engine.Options{
		Concurrency:  cfg.Concurrency,
		CheckTimeout: cfg.Timeout,
	})
	results, err := eng.Run(ctx, selected)
	if err != nil {
		if errors.Is(err, engine.ErrNoChecks) {
			fmt.Fprintf(os.Stderr, "  ✗ No checks selected for categories %q\n", cfg.Categories)
			return exitStartup
		}
		fmt.Fprintf(os.Stderr, "  ✗ Engine failure: %v\n", err)
		return exitStartup
	}

	rep := report.Aggregate(hostSummary(facts, startedAt), results, cfg.Strict)

	if cfg.Interactive {
		ctrl := interactive.New(rep)
		if err := ctrl.Run(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Interactive session error: %v\n", err)
		}
		return verdictExitCode(rep)
	}

	formatter, err := output.ForFormat(cfg.Format, cfg.Verbose, terminalWidth(), output.IsDumbTerm())
	if err != nil {
		// Unreachable after validateConfig; kept as a safety net.
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return exitConfig
	}
	if err := formatter.Write(os.Stdout, rep); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to render report: %v\n", err)
		return exitRender
	}

	return verdictExitCode(rep)
}

// applyConfigFile merges file values under CLI flags: a flag left at its
// default takes the file's value. Returns -1 on success or an exit code.
func applyConfigFile(cfg *Config) int {
	if cfg.ConfigFile == "" {
		return -1
	}

	fileCfg, err := config.Load(cfg.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return exitConfig
	}

	if cfg.Concurrency == 0 {
		cfg.Concurrency = fileCfg.Concurrency
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fileCfg.CheckTimeout()
	}
	if cfg.Categories == "" {
		cfg.Categories = fileCfg.Categories
	}
	if fileCfg.NoColor {
		cfg.NoColor = true
	}
	return -1
}

// validateConfig checks flag combinations and values. Returns the parsed
// category set and -1, or nil and an exit code on configuration errors.
func validateConfig(cfg *Config) (map[types.Category]bool, int) {
	switch cfg.Format {
	case output.FormatText, output.FormatJSON:
	default:
		fmt.Fprintf(os.Stderr, "  ✗ Invalid --format value %q (must be text or json)\n", cfg.Format)
		return nil, exitConfig
	}

	if cfg.Interactive && cfg.Format == output.FormatJSON {
		fmt.Fprintf(os.Stderr, "  ✗ --interactive and --format json are mutually exclusive\n")
		return nil, exitConfig
	}

	categories, err := types.ParseCategorySet(cfg.Categories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Invalid --categories flag: %v\n", err)
		if suggestions := suggestCategories(cfg.Categories); len(suggestions) > 0 {
			fmt.Fprintf(os.Stderr, "\n  Did you mean:\n")
			for _, s := range suggestions {
				fmt.Fprintf(os.Stderr, "    • %s\n", s)
			}
		}
		return nil, exitConfig
	}

	return categories, -1
}

// hostSummary builds the report's host identity from collected facts,
// degrading to direct lookups when fact collection failed.
func hostSummary(facts *probe.Context, startedAt time.Time) types.HostSummary {
	summary := types.HostSummary{Timestamp: startedAt}
	if facts.Host != nil {
		summary.Hostname = facts.Host.Hostname
		summary.OS = facts.Host.OS
		return summary
	}
	if h, err := os.Hostname(); err == nil {
		summary.Hostname = h
	}
	summary.OS = "unknown"
	return summary
}

// verdictExitCode maps the report verdict to a process exit code. Without
// strict mode the run producing a report is itself the success condition.
func verdictExitCode(rep *types.AuditReport) int {
	if rep.Verdict.StrictEnabled && rep.Verdict.Status == types.VerdictFail {
		return exitVerdict
	}
	return exitPass
}

// terminalWidth returns the stdout terminal width, or 0 when stdout is not
// a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return 0
}
