package css

import (
	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// NoExtend flags @extend directives. Extends produce surprising selector
// explosions; the guide prefers mixins.
type NoExtend struct {
	baseRule
}

// NewNoExtend creates the css.no-extend rule.
func NewNoExtend() *NoExtend {
	return &NoExtend{baseRule{
		id:          "css.no-extend",
		category:    "sass",
		severity:    rule.SeverityError,
		languages:   scssOnly,
		description: "Disallow @extend; use a mixin instead.",
	}}
}

// Matches selects @extend nodes.
func (*NoExtend) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindExtend
}

// Check reports one violation per @extend.
func (r *NoExtend) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "@extend is not allowed; replace with an @include of a mixin",
	}}
}
