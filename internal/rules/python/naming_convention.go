package python

import (
	"regexp"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

var (
	// snakeCaseRe accepts snake_case with optional leading/trailing
	// underscores (covers _private and __dunder__ names).
	snakeCaseRe = regexp.MustCompile(`^_{0,2}[a-z][a-z0-9_]*_{0,2}$`)

	// upperSnakeRe accepts module-level constants.
	upperSnakeRe = regexp.MustCompile(`^_{0,2}[A-Z][A-Z0-9_]*$`)

	// pascalCaseRe accepts class names.
	pascalCaseRe = regexp.MustCompile(`^_?[A-Z][A-Za-z0-9]*$`)
)

// NamingConvention flags bound identifiers that break the case rules:
// snake_case for functions, variables and fields (UPPER_SNAKE allowed for
// constants), PascalCase for classes. No fix: renaming needs every usage
// site.
type NamingConvention struct {
	baseRule
}

// NewNamingConvention creates the python.naming-convention rule.
func NewNamingConvention() *NamingConvention {
	return &NamingConvention{baseRule{
		id:          "python.naming-convention",
		category:    "naming",
		severity:    rule.SeverityError,
		description: "snake_case for functions/variables/fields, PascalCase for classes.",
	}}
}

// Matches selects binding statements.
func (*NamingConvention) Matches(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindAssign, ast.KindFuncDef, ast.KindClassDef:
		return true
	default:
		return false
	}
}

// Check validates the bound name against the kind's case rule.
func (r *NamingConvention) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	var (
		name string
		ok   bool
		want string
	)

	switch n.Kind {
	case ast.KindClassDef:
		name = n.Attr("name")
		ok = pascalCaseRe.MatchString(name)
		want = "PascalCase"

	case ast.KindFuncDef:
		name = n.Attr("name")
		ok = snakeCaseRe.MatchString(name)
		want = "snake_case"

	default:
		name = n.Attr("target")
		// Attribute assignments bind the final segment.
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}

		ok = snakeCaseRe.MatchString(name) || upperSnakeRe.MatchString(name)
		want = "snake_case"
	}

	if ok || name == "" {
		return nil
	}

	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "name '" + name + "' should be " + want,
	}}
}
