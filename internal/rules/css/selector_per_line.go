package css

import (
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// SelectorPerLine flags grouped selectors that share a line. Each
// selector of a multi-selector rule goes on its own line so diffs stay
// one-selector wide. The fix breaks the line after the comma, matching
// the indentation of the first selector.
type SelectorPerLine struct {
	baseRule
}

// NewSelectorPerLine creates the css.selector-per-line rule.
func NewSelectorPerLine() *SelectorPerLine {
	return &SelectorPerLine{baseRule{
		id:          "css.selector-per-line",
		category:    "selectors",
		severity:    rule.SeverityWarning,
		languages:   stylesheetLanguages,
		description: "Place each selector of a selector group on its own line.",
	}}
}

// Matches selects selector lists.
func (*SelectorPerLine) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindSelectorList && len(n.Children) > 1
}

// Check flags every selector after the first that is not preceded by a
// newline.
func (r *SelectorPerLine) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	var violations []rule.Violation

	indent := lineIndent(rc.Source, n.Span.Start)

	for i := 1; i < len(n.Children); i++ {
		sel := n.Children[i]
		gap := ast.Span{Start: n.Children[i-1].Span.End, End: sel.Span.Start}

		if strings.Contains(rc.Text(gap), "\n") {
			continue
		}

		// The gap holds the comma and any spaces; keep the comma,
		// replace the rest with a line break.
		comma := strings.Index(rc.Text(gap), ",")
		editStart := gap.Start + comma + 1

		violations = append(violations, rule.Violation{
			RuleID:   r.id,
			Path:     rc.Path,
			Span:     sel.Span,
			Severity: r.severity,
			Message:  "selector '" + sel.Attr("text") + "' should start on its own line",
			Edit: &rule.Edit{
				Span:    ast.Span{Start: editStart, End: sel.Span.Start},
				NewText: "\n" + indent,
			},
		})
	}

	return violations
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(src []byte, offset int) string {
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}

	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return string(src[start:end])
}
