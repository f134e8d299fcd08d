package python

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// QuoteStyleOptions configures the preferred quote character.
type QuoteStyleOptions struct {
	// Prefer is "single" or "double".
	Prefer string `koanf:"prefer" json:"prefer" mapstructure:"prefer"`
}

// Validate checks the option values.
func (o *QuoteStyleOptions) Validate() error {
	if o.Prefer != "single" && o.Prefer != "double" {
		return errors.Newf("prefer must be %q or %q, got %q", "single", "double", o.Prefer)
	}

	return nil
}

// QuoteStyle flags string literals quoted with the non-preferred
// character. Triple-quoted strings are exempt; docstrings keep their
// conventional double quotes either way.
type QuoteStyle struct {
	baseRule
}

// NewQuoteStyle creates the python.quote-style rule.
func NewQuoteStyle() *QuoteStyle {
	return &QuoteStyle{baseRule{
		id:          "python.quote-style",
		category:    "style",
		severity:    rule.SeverityWarning,
		description: "String literals use the configured quote character.",
	}}
}

// DefaultOptions returns the defaults for this rule.
func (*QuoteStyle) DefaultOptions() any {
	return &QuoteStyleOptions{Prefer: "single"}
}

// Matches selects non-triple string literals.
func (*QuoteStyle) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindString && n.Attr("triple") == ""
}

// Check flags literals with the wrong outer quote. A fix is offered only
// when swapping the quotes cannot change the string's value: the body
// must contain neither the preferred quote nor any backslash escape.
func (r *QuoteStyle) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	opts, ok := rc.Options.(*QuoteStyleOptions)
	if !ok {
		opts = &QuoteStyleOptions{Prefer: "single"}
	}

	want := byte('\'')
	if opts.Prefer == "double" {
		want = '"'
	}

	if n.Attr("quote") == string(want) {
		return nil
	}

	v := rule.Violation{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "string should use " + opts.Prefer + " quotes",
	}

	text := rc.Text(n.Span)
	prefix := n.Attr("prefix")
	body := text[len(prefix)+1 : len(text)-1]

	if !strings.ContainsAny(body, string(want)+`\`) {
		v.Edit = &rule.Edit{
			Span:    n.Span,
			NewText: prefix + string(want) + body + string(want),
		}
	}

	return []rule.Violation{v}
}
