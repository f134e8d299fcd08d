package css

import (
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// BorderNone flags `border: none` declarations. `0` parses faster and
// reads as the reset it is; the fix rewrites the value in place.
type BorderNone struct {
	baseRule
}

// NewBorderNone creates the css.border-none rule.
func NewBorderNone() *BorderNone {
	return &BorderNone{baseRule{
		id:          "css.border-none",
		category:    "declarations",
		severity:    rule.SeverityWarning,
		languages:   stylesheetLanguages,
		description: "Use `border: 0` instead of `border: none`.",
	}}
}

// Matches selects border declarations.
func (*BorderNone) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindDeclaration && n.Attr("property") == "border"
}

// Check flags a literal `none` value and offers the `0` rewrite.
func (r *BorderNone) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	if !strings.EqualFold(n.Attr("value"), "none") {
		return nil
	}

	v := rule.Violation{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "use `border: 0` instead of `border: none`",
	}

	if span, ok := valueSpan(n, rc, "none"); ok {
		v.Edit = &rule.Edit{Span: span, NewText: "0"}
	}

	return []rule.Violation{v}
}

// valueSpan locates the value text inside a declaration's span so the
// edit touches only the value bytes.
func valueSpan(n *ast.Node, rc *rule.Context, value string) (ast.Span, bool) {
	raw := rc.Text(n.Span)

	colon := strings.Index(raw, ":")
	if colon < 0 {
		return ast.Span{}, false
	}

	idx := strings.Index(strings.ToLower(raw[colon:]), strings.ToLower(value))
	if idx < 0 {
		return ast.Span{}, false
	}

	start := n.Span.Start + colon + idx

	return ast.Span{Start: start, End: start + len(value)}, true
}
