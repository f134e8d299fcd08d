// Package rule defines the conformance rule contract and the rule
// registry. Rules are pure and independent: no rule may observe another
// rule's output, which is what allows any-order, parallel execution.
package rule

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/pkg/logger"
)

// Severity classifies how a violation affects the exit signal. Only
// error-severity violations remaining after a fix pass make a run fail.
type Severity string

const (
	// SeverityError marks violations that fail the run.
	SeverityError Severity = "error"

	// SeverityWarning marks violations that are reported but do not
	// fail the run.
	SeverityWarning Severity = "warning"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning
}

// Edit is a concrete textual replacement over a byte range of the original
// source. Two edits whose spans overlap are in conflict and are never both
// applied in the same pass.
type Edit struct {
	Span    ast.Span
	NewText string
}

// Violation is a reported instance of a rule's condition at a source
// range. Violations are immutable after creation; the aggregator copies
// them when applying severity overrides.
type Violation struct {
	RuleID   string
	Path     string
	Span     ast.Span
	Message  string
	Severity Severity

	// Edit is the fix for this violation, nil when the rule has no safe
	// rewrite. Edits are produced only at check time, anchored in the
	// concrete syntax of the source that was checked.
	Edit *Edit
}

// Fixable reports whether the violation carries a fix.
func (v Violation) Fixable() bool {
	return v.Edit != nil
}

// Context threads per-file state to a rule's Check. The walk context is
// scoped to the current subtree; everything else is immutable for the
// file's pass.
type Context struct {
	Path    string
	Source  []byte
	Tree    *ast.Tree
	Walk    *ast.WalkContext
	Options any
	Logger  logger.Logger
}

// Text returns the source text covered by a span.
func (c *Context) Text(s ast.Span) string {
	return c.Tree.Text(s)
}

// Rule is a single, independent, statically-registered conformance check
// for one documented convention.
type Rule interface {
	// ID returns the unique rule id, e.g. "css.no-id-selector".
	ID() string

	// Languages returns the languages the rule applies to.
	Languages() []lang.Language

	// Category groups related rules for listing, e.g. "selectors".
	Category() string

	// Severity returns the default severity; config may override it.
	Severity() Severity

	// Description explains the convention the rule enforces.
	Description() string

	// Matches reports whether the rule wants to check this node.
	Matches(n *ast.Node) bool

	// Check inspects a matched node and returns zero or more violations.
	// Check must be side-effect free.
	Check(n *ast.Node, rc *Context) []Violation
}

// Configurable is implemented by rules that accept typed options. The
// returned value is a pointer to the rule's closed option struct carrying
// defaults; the config loader decodes user options over a copy of it and
// validates eagerly at load time.
type Configurable interface {
	DefaultOptions() any
}

// ErrDuplicateRule is returned when two rules register the same id.
var ErrDuplicateRule = errors.New("duplicate rule id")

// Registry is the static catalog of rules, keyed by id.
type Registry struct {
	byID map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds a rule to the catalog.
func (r *Registry) Register(rules ...Rule) error {
	for _, rl := range rules {
		if _, exists := r.byID[rl.ID()]; exists {
			return errors.Wrapf(ErrDuplicateRule, "%s", rl.ID())
		}

		r.byID[rl.ID()] = rl
	}

	return nil
}

// Get returns the rule with the given id.
func (r *Registry) Get(id string) (Rule, bool) {
	rl, ok := r.byID[id]

	return rl, ok
}

// All returns every registered rule, sorted by id for deterministic
// iteration.
func (r *Registry) All() []Rule {
	rules := make([]Rule, 0, len(r.byID))
	for _, rl := range r.byID {
		rules = append(rules, rl)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})

	return rules
}

// ForLanguage returns the rules applicable to a language, sorted by id.
func (r *Registry) ForLanguage(l lang.Language) []Rule {
	rules := make([]Rule, 0, len(r.byID))

	for _, rl := range r.byID {
		for _, rlLang := range rl.Languages() {
			if rlLang == l {
				rules = append(rules, rl)

				break
			}
		}
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})

	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	return len(r.byID)
}
