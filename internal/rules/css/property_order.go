package css

import (
	"sort"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// Block children are ordered in three buckets: plain declarations first,
// then @include invocations, then nested selector blocks.
const (
	bucketDeclaration = 0
	bucketInclude     = 1
	bucketNested      = 2
)

// PropertyOrder enforces the bucket order of a rule block's direct
// children. The fix stable-reorders the children, preserving relative
// order within each bucket and leaving the whitespace slots between them
// in place.
type PropertyOrder struct {
	baseRule
}

// NewPropertyOrder creates the css.property-order rule.
func NewPropertyOrder() *PropertyOrder {
	return &PropertyOrder{baseRule{
		id:          "css.property-order",
		category:    "structure",
		severity:    rule.SeverityWarning,
		languages:   stylesheetLanguages,
		description: "Order block contents: declarations, then @includes, then nested blocks.",
	}}
}

// Matches selects ruleset nodes.
func (*PropertyOrder) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindRuleset
}

// Check flags every child whose bucket comes before a bucket already seen
// among its preceding siblings.
func (r *PropertyOrder) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	members := orderMembers(n)
	if len(members) < 2 {
		return nil
	}

	var violations []rule.Violation

	highest := -1
	for _, m := range members {
		if b := bucketOf(m); b < highest {
			violations = append(violations, rule.Violation{
				RuleID:   r.id,
				Path:     rc.Path,
				Span:     m.Span,
				Severity: r.severity,
				Message:  memberLabel(m) + " should come before " + bucketLabel(highest),
			})
		} else {
			highest = b
		}
	}

	if len(violations) == 0 {
		return nil
	}

	// The reorder is only safe when nothing but the members occupies
	// the region; a comment between them has no unambiguous new home.
	if edit, ok := reorderEdit(n, members, rc); ok {
		violations[0].Edit = edit
	}

	return violations
}

// orderMembers returns the block children that participate in ordering.
func orderMembers(n *ast.Node) []*ast.Node {
	members := make([]*ast.Node, 0, len(n.Children))

	for _, child := range n.Children {
		switch child.Kind {
		case ast.KindDeclaration, ast.KindInclude, ast.KindRuleset:
			members = append(members, child)
		}
	}

	return members
}

func bucketOf(n *ast.Node) int {
	switch n.Kind {
	case ast.KindInclude:
		return bucketInclude
	case ast.KindRuleset:
		return bucketNested
	default:
		return bucketDeclaration
	}
}

func memberLabel(n *ast.Node) string {
	switch n.Kind {
	case ast.KindInclude:
		return "@include " + n.Attr("name")
	case ast.KindRuleset:
		return "nested block '" + n.Attr("selectors") + "'"
	default:
		return "declaration '" + n.Attr("property") + "'"
	}
}

func bucketLabel(bucket int) string {
	switch bucket {
	case bucketInclude:
		return "@include invocations"
	case bucketNested:
		return "nested blocks"
	default:
		return "declarations"
	}
}

// reorderEdit builds a single edit that permutes the member texts into
// bucket order while keeping the original separators between the slots.
func reorderEdit(n *ast.Node, members []*ast.Node, rc *rule.Context) (*rule.Edit, bool) {
	region := ast.Span{Start: members[0].Span.Start, End: members[len(members)-1].Span.End}

	// Bail out when a comment (or anything else) sits inside the region.
	for _, child := range n.Children {
		switch child.Kind {
		case ast.KindDeclaration, ast.KindInclude, ast.KindRuleset:
			continue
		}

		if child.Span.Overlaps(region) {
			return nil, false
		}
	}

	sorted := make([]*ast.Node, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bucketOf(sorted[i]) < bucketOf(sorted[j])
	})

	var b strings.Builder

	for i, m := range sorted {
		if i > 0 {
			gap := ast.Span{Start: members[i-1].Span.End, End: members[i].Span.Start}
			b.WriteString(rc.Text(gap))
		}

		text := rc.Text(m.Span)
		// A declaration moved off the block's last slot needs its
		// semicolon back.
		if i < len(sorted)-1 && needsSemicolon(m, text) {
			text += ";"
		}

		b.WriteString(text)
	}

	return &rule.Edit{Span: region, NewText: b.String()}, true
}

func needsSemicolon(n *ast.Node, text string) bool {
	if n.Kind == ast.KindRuleset {
		return false
	}

	return !strings.HasSuffix(strings.TrimSpace(text), ";")
}
