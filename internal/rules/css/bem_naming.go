package css

import (
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// defaultBEMPattern accepts block, block__element, block--modifier and
// block__element--modifier names built from lowercase words joined by
// single hyphens.
const defaultBEMPattern = `^[a-z][a-z0-9]*(?:-[a-z0-9]+)*` +
	`(?:__[a-z0-9]+(?:-[a-z0-9]+)*)?` +
	`(?:--[a-z0-9]+(?:-[a-z0-9]+)*)?$`

// BEMNamingOptions configures css.bem-naming.
type BEMNamingOptions struct {
	// Pattern is the regular expression class names must match.
	Pattern string `koanf:"pattern" json:"pattern" mapstructure:"pattern"`
}

// Validate compiles the pattern eagerly so a bad config fails the run
// before any file is processed.
func (o *BEMNamingOptions) Validate() error {
	if _, err := regexp.Compile(o.Pattern); err != nil {
		return errors.Wrap(err, "invalid bem pattern")
	}

	return nil
}

// BEMNaming flags class selectors that do not follow the BEM naming
// scheme. There is no fix: renaming a class safely needs every usage
// site, which is outside a single stylesheet.
type BEMNaming struct {
	baseRule
}

// NewBEMNaming creates the css.bem-naming rule.
func NewBEMNaming() *BEMNaming {
	return &BEMNaming{baseRule{
		id:          "css.bem-naming",
		category:    "selectors",
		severity:    rule.SeverityWarning,
		languages:   stylesheetLanguages,
		description: "Class names follow block__element--modifier naming.",
	}}
}

// DefaultOptions returns the rule's option defaults.
func (*BEMNaming) DefaultOptions() any {
	return &BEMNamingOptions{Pattern: defaultBEMPattern}
}

// Matches selects class selectors.
func (*BEMNaming) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindClassSelector
}

// Check flags class names that miss the pattern.
func (r *BEMNaming) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	pattern := defaultBEMPattern
	if opts, ok := rc.Options.(*BEMNamingOptions); ok && opts.Pattern != "" {
		pattern = opts.Pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		// Validated at config load; an invalid default is a bug.
		return nil
	}

	name := n.Attr("name")
	if re.MatchString(name) {
		return nil
	}

	return []rule.Violation{{
		RuleID:   r.id,
		Path:     rc.Path,
		Span:     n.Span,
		Severity: r.severity,
		Message:  "class '." + name + "' does not follow BEM naming",
	}}
}
