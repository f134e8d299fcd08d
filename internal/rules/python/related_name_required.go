package python

import (
	"regexp"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

var relationFieldRe = regexp.MustCompile(`(?:^|\.)(ForeignKey|OneToOneField|ManyToManyField)$`)

// RelatedNameRequired flags relation fields declared without an explicit
// related_name argument. Relying on the implicit `<model>_set` reverse
// accessor hides the relationship from readers of the target model.
type RelatedNameRequired struct {
	baseRule
}

// NewRelatedNameRequired creates the python.related-name-required rule.
func NewRelatedNameRequired() *RelatedNameRequired {
	return &RelatedNameRequired{baseRule{
		id:          "python.related-name-required",
		category:    "models",
		severity:    rule.SeverityError,
		description: "Relation fields declare an explicit related_name.",
	}}
}

// Matches selects assignments whose value calls a relation field
// constructor.
func (*RelatedNameRequired) Matches(n *ast.Node) bool {
	if n.Kind != ast.KindAssign {
		return false
	}

	call := n.Attr("call")
	if call == "" {
		return false
	}

	return relationFieldRe.MatchString(call)
}

// Check reports relation fields missing related_name. Only fields inside
// a class body count; module-level assignments are left alone.
func (r *RelatedNameRequired) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	if n.Ancestors(ast.KindClassDef) == 0 {
		return nil
	}

	if strings.Contains(n.Attr("value"), "related_name") {
		return nil
	}

	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  n.Attr("target") + " is missing related_name",
	}}
}
