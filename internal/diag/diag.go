// Package diag aggregates raw rule output into deterministic, policy-aware
// reports. The aggregator owns everything that happens to a violation
// after a rule emits it: enablement filtering, severity overrides,
// deduplication and ordering.
package diag

import (
	"sort"

	"github.com/styleguard/styleguard/internal/rule"
)

// Policy carries the per-rule reporting decisions from configuration.
type Policy struct {
	// Disabled holds ids of rules whose violations are dropped.
	Disabled map[string]bool

	// Severities maps rule ids to an overriding severity.
	Severities map[string]rule.Severity
}

// Aggregator applies a policy to raw violations.
type Aggregator struct {
	policy Policy
}

// NewAggregator creates an aggregator with the given policy.
func NewAggregator(policy Policy) *Aggregator {
	return &Aggregator{policy: policy}
}

// Aggregate filters, overrides, dedupes and orders one file's violations.
// Violations are copied before any override so rule output stays
// untouched. Duplicates share a rule id and an identical span; the first
// reported wins. Ordering is by span start, then rule id.
func (a *Aggregator) Aggregate(violations []rule.Violation) []rule.Violation {
	type key struct {
		ruleID     string
		start, end int
	}

	seen := make(map[key]bool, len(violations))
	out := make([]rule.Violation, 0, len(violations))

	for _, v := range violations {
		if a.policy.Disabled[v.RuleID] {
			continue
		}

		k := key{ruleID: v.RuleID, start: v.Span.Start, end: v.Span.End}
		if seen[k] {
			continue
		}

		seen[k] = true

		if sev, ok := a.policy.Severities[v.RuleID]; ok {
			v.Severity = sev
		}

		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}

		return out[i].RuleID < out[j].RuleID
	})

	return out
}

// FileReport is the aggregated outcome for one checked file.
type FileReport struct {
	Path       string
	Source     []byte
	Violations []rule.Violation

	// ParseFailed is set when the file could not be parsed. The single
	// violation then describes the parse error and no rules ran.
	ParseFailed bool

	// Fixed holds the rewritten source after a fix run, nil when no fixes
	// were applied to this file.
	Fixed []byte

	// AppliedFixes counts edits actually applied across fix iterations.
	AppliedFixes int

	// SkippedFixes counts fixable violations skipped due to overlap.
	SkippedFixes int
}

// HasErrors reports whether any error-severity violation remains.
func (f *FileReport) HasErrors() bool {
	for _, v := range f.Violations {
		if v.Severity == rule.SeverityError {
			return true
		}
	}

	return false
}

// RunReport is the aggregated outcome of a whole run, ordered by path.
type RunReport struct {
	Files []FileReport
}

// Sort orders the files by path so reports are reproducible regardless of
// worker completion order.
func (r *RunReport) Sort() {
	sort.Slice(r.Files, func(i, j int) bool {
		return r.Files[i].Path < r.Files[j].Path
	})
}

// HasErrors reports whether any file has error-severity violations.
func (r *RunReport) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].HasErrors() {
			return true
		}
	}

	return false
}

// AllParseFailed reports whether every file in the run failed to parse.
// An empty run reports false.
func (r *RunReport) AllParseFailed() bool {
	if len(r.Files) == 0 {
		return false
	}

	for i := range r.Files {
		if !r.Files[i].ParseFailed {
			return false
		}
	}

	return true
}

// Counts returns the total number of error and warning violations.
func (r *RunReport) Counts() (numErrors, warnings int) {
	for i := range r.Files {
		for _, v := range r.Files[i].Violations {
			if v.Severity == rule.SeverityError {
				numErrors++
			} else {
				warnings++
			}
		}
	}

	return numErrors, warnings
}
