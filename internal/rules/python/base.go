// Package python implements the Python/Django rule catalog.
package python

import (
	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/internal/rule"
)

var pythonOnly = []lang.Language{lang.Python}

// baseRule carries the static metadata every rule exposes.
type baseRule struct {
	id          string
	category    string
	severity    rule.Severity
	description string
}

func (b baseRule) ID() string                 { return b.id }
func (b baseRule) Category() string           { return b.category }
func (b baseRule) Severity() rule.Severity    { return b.severity }
func (baseRule) Languages() []lang.Language   { return pythonOnly }
func (b baseRule) Description() string        { return b.description }

// All returns the full Python rule catalog.
func All() []rule.Rule {
	return []rule.Rule{
		NewImportGrouping(),
		NewNamingConvention(),
		NewModelMetaPosition(),
		NewRelatedNameRequired(),
		NewQuoteStyle(),
	}
}
