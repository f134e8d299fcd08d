package python

import (
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// ModelMetaPosition flags a nested Meta class that does not immediately
// follow the last field declaration with exactly one blank line between
// them. Keeping Meta pinned after the fields makes model files scannable
// top to bottom: fields, Meta, then methods.
type ModelMetaPosition struct {
	baseRule
}

// NewModelMetaPosition creates the python.model-meta-position rule.
func NewModelMetaPosition() *ModelMetaPosition {
	return &ModelMetaPosition{baseRule{
		id:          "python.model-meta-position",
		category:    "models",
		severity:    rule.SeverityWarning,
		description: "Meta follows the last field with exactly one blank line.",
	}}
}

// Matches selects class definitions.
func (*ModelMetaPosition) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindClassDef
}

// Check locates a nested Meta class and validates its position.
func (r *ModelMetaPosition) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	var meta *ast.Node

	for _, child := range n.Children {
		if child.Kind == ast.KindClassDef && child.Attr("name") == "Meta" {
			meta = child

			break
		}
	}

	if meta == nil {
		return nil
	}

	var lastField *ast.Node

	for _, child := range n.Children {
		if child.Kind == ast.KindAssign {
			lastField = child
		}
	}

	if lastField == nil {
		return nil
	}

	if lastField.Span.Start > meta.Span.Start {
		return []rule.Violation{{
			RuleID:   r.id,
			Path:     rc.Path,
			Span:     meta.Span,
			Severity: r.severity,
			Message:  "Meta must come after the last field declaration",
		}}
	}

	// Anything between the last field and Meta breaks the layout.
	for _, child := range n.Children {
		if child == lastField || child == meta {
			continue
		}

		if child.Span.Start > lastField.Span.End && child.Span.End < meta.Span.Start {
			return []rule.Violation{{
				RuleID:   r.id,
				Path:     rc.Path,
				Span:     meta.Span,
				Severity: r.severity,
				Message:  "Meta must immediately follow the last field declaration",
			}}
		}
	}

	if blankLines(rc.Text(ast.Span{Start: lastField.Span.End, End: meta.Span.Start})) != 1 {
		return []rule.Violation{{
			RuleID:   r.id,
			Path:     rc.Path,
			Span:     meta.Span,
			Severity: r.severity,
			Message:  "exactly one blank line must separate the last field from Meta",
		}}
	}

	return nil
}

// blankLines counts empty lines in the separator text between two
// statements.
func blankLines(sep string) int {
	count := 0

	for _, line := range strings.Split(sep, "\n") {
		if strings.TrimSpace(line) == "" {
			count++
		}
	}

	// The first segment is the tail of the field's line and the last is
	// Meta's indentation; both always look blank here.
	return count - 2
}
