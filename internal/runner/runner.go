// Package runner orchestrates a conformance run: path expansion, parallel
// per-file checking, optional fixing with write-back, and deterministic
// report assembly.
package runner

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/diag"
	"github.com/styleguard/styleguard/internal/engine"
	"github.com/styleguard/styleguard/internal/fixer"
	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/pkg/logger"
)

// parseFailureRuleID tags the synthetic violation reported for a file
// that could not be parsed.
const parseFailureRuleID = "internal.parse-error"

// Options configures a run.
type Options struct {
	// Fix applies safe fixes and writes changed files back.
	Fix bool

	// DryRun suppresses write-back; fixed content is kept on the report
	// only. Used by --diff.
	DryRun bool

	// Workers bounds concurrent file checks; zero means one per CPU.
	Workers int

	// FixIterations bounds the fix loop per file.
	FixIterations int

	// Policy carries enablement and severity overrides.
	Policy diag.Policy

	// RuleOptions maps rule ids to decoded option structs.
	RuleOptions map[string]any
}

// Runner checks files against the rule catalog.
type Runner struct {
	registry *rule.Registry
	adapters map[lang.Language]ast.Adapter
	log      logger.Logger
	opts     Options

	engine     *engine.Engine
	aggregator *diag.Aggregator
}

// New creates a runner. adapters must cover every language the registry's
// rules apply to.
func New(registry *rule.Registry, adapters map[lang.Language]ast.Adapter, opts Options, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Runner{
		registry:   registry,
		adapters:   adapters,
		log:        log,
		opts:       opts,
		engine:     engine.New(registry, opts.RuleOptions, log),
		aggregator: diag.NewAggregator(opts.Policy),
	}
}

// Run expands args and checks every matched file. Worker completion order
// never affects the report: files are re-sorted by path at the end.
// Cancelling ctx stops dispatching new files; files already in flight
// finish.
func (r *Runner) Run(ctx context.Context, args []string) (*diag.RunReport, error) {
	files, err := ExpandPaths(args)
	if err != nil {
		return nil, err
	}

	workers := r.opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report diag.RunReport
	)

	sem := semaphore.NewWeighted(int64(workers))

	for _, path := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: stop dispatching, keep what finished.
			break
		}

		wg.Add(1)

		go func(path string) {
			defer sem.Release(1)
			defer wg.Done()

			fr := r.checkFile(path)

			mu.Lock()
			report.Files = append(report.Files, fr)
			mu.Unlock()
		}(path)
	}

	wg.Wait()
	report.Sort()

	if err := ctx.Err(); err != nil {
		return &report, errors.Wrap(err, "run interrupted")
	}

	return &report, nil
}

// checkFile runs the whole per-file pipeline. Failures here never abort
// the run; they surface as violations in the file's report.
func (r *Runner) checkFile(path string) diag.FileReport {
	fr := diag.FileReport{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		fr.ParseFailed = true
		fr.Violations = []rule.Violation{ioFailure(path, err)}

		return fr
	}

	fr.Source = src

	violations, err := r.checkSource(path, src)
	if err != nil {
		fr.ParseFailed = true
		fr.Violations = []rule.Violation{parseFailure(path, src, err)}

		return fr
	}

	fr.Violations = violations

	if !r.opts.Fix {
		return fr
	}

	res, err := fixer.New(checkerFunc(r.checkSource), r.opts.FixIterations).Fix(path, src, violations)
	if err != nil {
		r.log.Error("fix failed", "path", path, "error", err)

		return fr
	}

	fr.Violations = res.Remaining
	fr.AppliedFixes = res.Applied
	fr.SkippedFixes = res.Skipped

	if res.Applied == 0 {
		return fr
	}

	fr.Fixed = res.Output

	if !r.opts.DryRun {
		if err := writeBack(path, res.Output); err != nil {
			r.log.Error("write-back failed", "path", path, "error", err)
		}
	}

	return fr
}

// checkSource parses and checks one file's content. It is also the
// re-check hook the fixer calls between passes.
func (r *Runner) checkSource(path string, src []byte) ([]rule.Violation, error) {
	l, ok := lang.FromPath(path)
	if !ok {
		return nil, errors.Newf("no adapter for %s", path)
	}

	adapter, ok := r.adapters[l]
	if !ok {
		return nil, errors.Newf("no adapter registered for language %s", l)
	}

	tree, err := adapter.Parse(path, src)
	if err != nil {
		return nil, err
	}

	return r.aggregator.Aggregate(r.engine.Check(tree)), nil
}

// checkerFunc adapts a function to the fixer's Checker interface.
type checkerFunc func(path string, src []byte) ([]rule.Violation, error)

func (f checkerFunc) Check(path string, src []byte) ([]rule.Violation, error) {
	return f(path, src)
}

// writeBack replaces a file's content, preserving its permissions.
func writeBack(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}

	return errors.Wrapf(os.WriteFile(path, content, info.Mode().Perm()), "writing %s", path)
}

// parseFailure builds the synthetic violation for an unparseable file.
// The file is excluded from rule checking; the violation is error
// severity so the run fails.
func parseFailure(path string, src []byte, err error) rule.Violation {
	span := ast.Span{}

	var perr *ast.ParseError
	if errors.As(err, &perr) {
		span = ast.Span{Start: perr.Offset, End: perr.Offset}
		if span.End < len(src) {
			span.End++
		}
	}

	return rule.Violation{
		RuleID:   parseFailureRuleID,
		Path:     path,
		Span:     span,
		Severity: rule.SeverityError,
		Message:  "cannot parse file: " + err.Error(),
	}
}

// ioFailure builds the synthetic violation for an unreadable file.
func ioFailure(path string, err error) rule.Violation {
	return rule.Violation{
		RuleID:   parseFailureRuleID,
		Path:     path,
		Severity: rule.SeverityError,
		Message:  "cannot read file: " + err.Error(),
	}
}
