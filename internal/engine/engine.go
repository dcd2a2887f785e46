// Package engine runs selected checks concurrently and isolates their
// failures. One misbehaving check degrades one line of the report, never
// the whole audit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opsgate/vigil/internal/probe"
	"github.com/opsgate/vigil/internal/registry"
	"github.com/opsgate/vigil/internal/types"
)

// ErrNoChecks is returned when the engine is asked to run an empty
// selection. Callers map it to the startup-failure exit code.
var ErrNoChecks = errors.New("no checks selected")

// DefaultCheckTimeout bounds each individual check evaluation.
const DefaultCheckTimeout = 5 * time.Second

// maxDefaultConcurrency caps the default pool size: checks are I/O and
// subprocess bound, so piling on workers past this buys nothing.
const maxDefaultConcurrency = 8

// DefaultConcurrency returns the default worker pool size.
func DefaultConcurrency() int {
	n := runtime.GOMAXPROCS(0)
	if n > maxDefaultConcurrency {
		n = maxDefaultConcurrency
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Options tunes the engine.
type Options struct {
	// Concurrency is the worker pool size. Zero selects the default.
	Concurrency int

	// CheckTimeout is the per-check evaluation deadline. Zero selects the default.
	CheckTimeout time.Duration
}

// Engine executes checks against a collected probe context.
type Engine struct {
	facts *probe.Context
	log   *zap.Logger
	opts  Options
}

// New creates an engine. A nil logger disables engine logging.
func New(facts *probe.Context, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency()
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = DefaultCheckTimeout
	}
	return &Engine{facts: facts, log: logger, opts: opts}
}

// Run executes all checks with bounded concurrency and returns one result
// per check in the given (registry) order, regardless of completion order.
// Results land in disjoint index-addressed slots, so workers never contend.
//
// Cancelling ctx stops dispatching new checks; checks already in flight
// finish up to their own timeout rather than being killed mid-probe, so
// external commands are never abandoned in an undefined state.
func (e *Engine) Run(ctx context.Context, checks []registry.Check) ([]types.CheckResult, error) {
	if len(checks) == 0 {
		return nil, ErrNoChecks
	}

	results := make([]types.CheckResult, len(checks))
	sem := make(chan struct{}, e.opts.Concurrency)
	var wg sync.WaitGroup

	for i, c := range checks {
		wg.Add(1)
		go func(slot int, chk registry.Check) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[slot] = e.runOne(ctx, chk)
		}(i, c)
	}

	wg.Wait()
	return results, nil
}

// runOne evaluates a single check within its timeout and converts every
// failure mode — panic, timeout, cancellation — into a typed outcome.
func (e *Engine) runOne(runCtx context.Context, chk registry.Check) types.CheckResult {
	result := types.CheckResult{
		CheckID:        chk.ID,
		Category:       chk.Category,
		Severity:       chk.Severity,
		StaticSeverity: chk.Severity,
		Title:          chk.Title,
		Remediation:    chk.Remediation,
		StartedAt:      time.Now(),
	}

	// The run was cancelled before this check was dispatched. Absence of a
	// result is never valid, so it still gets a terminal outcome.
	if runCtx.Err() != nil {
		return e.finish(result, types.ProbeError("audit cancelled before check started"))
	}

	e.log.Debug("check dispatched", zap.String("check", chk.ID))

	// Deliberately not derived from runCtx: an in-flight check runs to its
	// own deadline even when the overall run is cancelled.
	evalCtx, cancel := context.WithTimeout(context.Background(), e.opts.CheckTimeout)
	defer cancel()

	outcomes := make(chan types.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomes <- types.ProbeError(fmt.Sprintf("check panicked: %v", r))
			}
		}()
		outcomes <- chk.Eval(evalCtx, e.facts)
	}()

	var outcome types.Outcome
	select {
	case outcome = <-outcomes:
	case <-evalCtx.Done():
		outcome = types.ProbeError(fmt.Sprintf("timeout after %s", e.opts.CheckTimeout))
	}

	if outcome.Kind == types.OutcomeProbeError {
		e.log.Warn("check probe failed",
			zap.String("check", chk.ID),
			zap.String("reason", outcome.Detail))
	} else {
		e.log.Debug("check completed",
			zap.String("check", chk.ID),
			zap.String("outcome", string(outcome.Kind)))
	}

	return e.finish(result, outcome)
}

// finish applies an outcome to a result and seals timing. Warn and Fail
// outcomes replace the static severity with the observed one.
func (e *Engine) finish(result types.CheckResult, outcome types.Outcome) types.CheckResult {
	result.Outcome = outcome.Kind
	result.Detail = outcome.Detail
	if outcome.Kind == types.OutcomeWarn || outcome.Kind == types.OutcomeFail {
		result.Severity = outcome.Severity
	}
	result.Duration = time.Since(result.StartedAt)
	result.DurationMS = result.Duration.Milliseconds()
	return result
}
