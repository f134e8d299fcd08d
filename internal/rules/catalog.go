// Package rules assembles the built-in rule catalog.
package rules

import (
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/internal/rules/css"
	"github.com/styleguard/styleguard/internal/rules/python"
)

// DefaultRegistry builds a registry holding every built-in rule.
func DefaultRegistry() (*rule.Registry, error) {
	reg := rule.NewRegistry()

	catalog := css.All()
	catalog = append(catalog, python.All()...)

	for _, r := range catalog {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
