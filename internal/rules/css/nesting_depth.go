package css

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

const defaultMaxNestingDepth = 3

// NestingDepthOptions configures css.nesting-depth.
type NestingDepthOptions struct {
	// MaxDepth is the deepest allowed selector-block nesting level.
	MaxDepth int `koanf:"max_depth" json:"max_depth" mapstructure:"max_depth"`
}

// Validate checks option values at config-load time.
func (o *NestingDepthOptions) Validate() error {
	if o.MaxDepth < 1 {
		return errors.Newf("max_depth must be at least 1, got %d", o.MaxDepth)
	}

	return nil
}

// NestingDepth flags selector blocks nested deeper than the limit.
// Conditional wrappers such as @media and @supports do not count toward
// depth; only selector rulesets do.
type NestingDepth struct {
	baseRule
}

// NewNestingDepth creates the css.nesting-depth rule.
func NewNestingDepth() *NestingDepth {
	return &NestingDepth{baseRule{
		id:          "css.nesting-depth",
		category:    "structure",
		severity:    rule.SeverityError,
		languages:   stylesheetLanguages,
		description: "Limit selector nesting depth (default 3 levels).",
	}}
}

// DefaultOptions returns the rule's option defaults.
func (*NestingDepth) DefaultOptions() any {
	return &NestingDepthOptions{MaxDepth: defaultMaxNestingDepth}
}

// Matches selects ruleset nodes.
func (*NestingDepth) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindRuleset
}

// Check flags the ruleset when its own depth exceeds the limit. Each
// too-deep block is flagged exactly once; ancestors within the limit are
// untouched.
func (r *NestingDepth) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	maxDepth := defaultMaxNestingDepth
	if opts, ok := rc.Options.(*NestingDepthOptions); ok {
		maxDepth = opts.MaxDepth
	}

	depth := rc.Walk.Depth(ast.KindRuleset) + 1
	if depth <= maxDepth {
		return nil
	}

	span := n.Span
	if len(n.Children) > 0 && n.Children[0].Kind == ast.KindSelectorList {
		span = n.Children[0].Span
	}

	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     span,
		Severity: r.severity,
		Message:  fmt.Sprintf("selector block nested %d levels deep, maximum is %d", depth, maxDepth),
	}}
}
