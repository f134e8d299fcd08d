package css

import (
	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// NoIDSelector flags id selectors. IDs defeat reuse and win specificity
// wars; the guide mandates classes. There is no fix: no safe class rename
// can be inferred from an id.
type NoIDSelector struct {
	baseRule
}

// NewNoIDSelector creates the css.no-id-selector rule.
func NewNoIDSelector() *NoIDSelector {
	return &NoIDSelector{baseRule{
		id:          "css.no-id-selector",
		category:    "selectors",
		severity:    rule.SeverityError,
		languages:   stylesheetLanguages,
		description: "Disallow id selectors; style with classes instead.",
	}}
}

// Matches selects id-selector nodes.
func (*NoIDSelector) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindIDSelector
}

// Check reports one violation per id selector occurrence.
func (r *NoIDSelector) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "id selector '#" + n.Attr("name") + "' is not allowed",
	}}
}
