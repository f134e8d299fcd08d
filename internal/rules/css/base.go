// Package css implements the stylesheet rule catalog.
package css

import (
	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/internal/rule"
)

// stylesheetLanguages is shared by rules that apply to CSS and SCSS alike.
var stylesheetLanguages = []lang.Language{lang.CSS, lang.SCSS}

// scssOnly is for rules about Sass constructs with no CSS equivalent.
var scssOnly = []lang.Language{lang.SCSS}

// baseRule carries the static metadata every rule exposes.
type baseRule struct {
	id          string
	category    string
	severity    rule.Severity
	languages   []lang.Language
	description string
}

func (b baseRule) ID() string                 { return b.id }
func (b baseRule) Category() string           { return b.category }
func (b baseRule) Severity() rule.Severity    { return b.severity }
func (b baseRule) Languages() []lang.Language { return b.languages }
func (b baseRule) Description() string        { return b.description }

// All returns the full stylesheet rule catalog.
func All() []rule.Rule {
	return []rule.Rule{
		NewNoIDSelector(),
		NewSelectorPerLine(),
		NewPropertyOrder(),
		NewNestingDepth(),
		NewNoExtend(),
		NewBorderNone(),
		NewZeroUnit(),
		NewBEMNaming(),
	}
}
