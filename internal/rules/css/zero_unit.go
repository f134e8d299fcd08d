package css

import (
	"regexp"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// zeroUnitRe matches a zero length such as 0px or 0.0em as a standalone
// word in a declaration value.
var zeroUnitRe = regexp.MustCompile(`(^|[\s(,])(-?0(?:\.0+)?)(px|em|rem|ex|ch|vw|vh|vmin|vmax|cm|mm|in|pt|pc|q)\b`)

// ZeroUnit flags units on zero lengths. `0px` and `0` are the same
// length; the guide drops the unit. Durations and angles keep theirs, so
// only length units are matched.
type ZeroUnit struct {
	baseRule
}

// NewZeroUnit creates the css.zero-unit rule.
func NewZeroUnit() *ZeroUnit {
	return &ZeroUnit{baseRule{
		id:          "css.zero-unit",
		category:    "declarations",
		severity:    rule.SeverityWarning,
		languages:   stylesheetLanguages,
		description: "Omit length units on zero values.",
	}}
}

// Matches selects declarations.
func (*ZeroUnit) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindDeclaration
}

// Check flags each zero length carrying a unit and rewrites it without
// one.
func (r *ZeroUnit) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	raw := rc.Text(n.Span)

	colon := strings.Index(raw, ":")
	if colon < 0 {
		return nil
	}

	var violations []rule.Violation

	value := raw[colon:]
	for _, m := range zeroUnitRe.FindAllStringSubmatchIndex(value, -1) {
		// Group 2 is the number, group 3 the unit.
		numStart := m[4]
		unitEnd := m[7]

		start := n.Span.Start + colon + numStart
		end := n.Span.Start + colon + unitEnd

		violations = append(violations, rule.Violation{
			RuleID:   r.id,
			Path:     rc.Path,
			Span:     ast.Span{Start: start, End: end},
			Severity: r.severity,
			Message:  "zero length '" + value[numStart:unitEnd] + "' should be written as '0'",
			Edit: &rule.Edit{
				Span:    ast.Span{Start: start, End: end},
				NewText: "0",
			},
		})
	}

	return violations
}
