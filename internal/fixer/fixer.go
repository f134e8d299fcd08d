// Package fixer applies violation edits to source text. Each pass selects
// a maximal non-overlapping set of edits, applies them back to front, then
// re-checks the rewritten source; the loop runs until the file is clean of
// fixable violations or the iteration bound is hit.
package fixer

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/rule"
)

// DefaultMaxIterations bounds the fix loop. Well-behaved fixes converge in
// one or two passes; the bound guards against a fix that keeps
// reintroducing another rule's violation.
const DefaultMaxIterations = 10

// ErrOverlappingEdits is returned when ApplyEdits is handed a conflicting
// set. Selection is supposed to prevent this.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Checker re-checks rewritten source between fix passes.
type Checker interface {
	// Check parses and checks src as if it were the contents of path.
	Check(path string, src []byte) ([]rule.Violation, error)
}

// Result describes one file's fix run.
type Result struct {
	// Output is the final source after all passes.
	Output []byte

	// Applied counts edits applied across all passes.
	Applied int

	// Skipped counts fixable violations passed over in the last pass
	// because their edit overlapped an already-selected one. Conflicts
	// that a later pass resolved are not counted.
	Skipped int

	// Iterations is the number of check-fix passes performed.
	Iterations int

	// Remaining holds the violations still present in Output.
	Remaining []rule.Violation
}

// Fixer runs the iterative fix loop.
type Fixer struct {
	checker       Checker
	maxIterations int
}

// New creates a fixer. maxIterations values below one fall back to the
// default bound.
func New(checker Checker, maxIterations int) *Fixer {
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}

	return &Fixer{checker: checker, maxIterations: maxIterations}
}

// Fix repeatedly applies fixes to src until no fixable violations remain
// or the iteration bound is reached. The initial violations must come from
// checking src itself; later passes re-check internally.
func (f *Fixer) Fix(path string, src []byte, violations []rule.Violation) (*Result, error) {
	res := &Result{Output: src, Remaining: violations}

	for res.Iterations < f.maxIterations {
		selected, skipped := Select(res.Remaining)
		if len(selected) == 0 {
			break
		}

		out, err := ApplyEdits(res.Output, selected)
		if err != nil {
			return nil, errors.Wrapf(err, "applying fixes to %s", path)
		}

		res.Output = out
		res.Applied += len(selected)
		res.Skipped = skipped
		res.Iterations++

		remaining, err := f.checker.Check(path, res.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "re-checking %s after fixes", path)
		}

		res.Remaining = remaining
	}

	return res, nil
}

// Select picks a maximal set of non-overlapping edits from the violations,
// greedily by span start; on equal starts the earlier-reported violation
// wins. It returns the chosen edits and the count of fixable violations
// skipped due to overlap.
func Select(violations []rule.Violation) (selected []rule.Edit, skipped int) {
	fixable := make([]rule.Violation, 0, len(violations))

	for _, v := range violations {
		if v.Fixable() {
			fixable = append(fixable, v)
		}
	}

	sort.SliceStable(fixable, func(i, j int) bool {
		return fixable[i].Edit.Span.Start < fixable[j].Edit.Span.Start
	})

	for _, v := range fixable {
		span := v.Edit.Span
		if len(selected) > 0 && span.Overlaps(selected[len(selected)-1].Span) {
			skipped++

			continue
		}

		selected = append(selected, *v.Edit)
	}

	return selected, skipped
}

// ApplyEdits rewrites src with a non-overlapping edit set. Edits are
// applied from the end of the file backwards so earlier offsets stay
// valid.
func ApplyEdits(src []byte, edits []rule.Edit) ([]byte, error) {
	ordered := make([]rule.Edit, len(edits))
	copy(ordered, edits)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Span.Start < ordered[j].Span.Start
	})

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Span.Overlaps(ordered[i-1].Span) {
			return nil, errors.Wrapf(ErrOverlappingEdits,
				"[%d,%d) and [%d,%d)",
				ordered[i-1].Span.Start, ordered[i-1].Span.End,
				ordered[i].Span.Start, ordered[i].Span.End)
		}
	}

	out := make([]byte, len(src))
	copy(out, src)

	for i := len(ordered) - 1; i >= 0; i-- {
		e := ordered[i]
		if e.Span.Start < 0 || e.Span.End > len(out) || e.Span.Start > e.Span.End {
			return nil, errors.Newf("edit span [%d,%d) out of bounds for %d bytes", e.Span.Start, e.Span.End, len(out))
		}

		rewritten := make([]byte, 0, len(out)-e.Span.Len()+len(e.NewText))
		rewritten = append(rewritten, out[:e.Span.Start]...)
		rewritten = append(rewritten, e.NewText...)
		rewritten = append(rewritten, out[e.Span.End:]...)
		out = rewritten
	}

	return out, nil
}
