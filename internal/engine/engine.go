// Package engine runs the rule catalog over a parsed tree. One pre-order
// walk dispatches every applicable rule; rules never see each other's
// output, so dispatch order cannot change results.
package engine

import (
	"fmt"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/pkg/logger"
)

// Engine checks trees against a rule registry.
type Engine struct {
	registry *rule.Registry
	options  map[string]any
	log      logger.Logger
}

// New creates an engine. options maps rule ids to their decoded, validated
// option structs; rules absent from the map run with their defaults.
func New(registry *rule.Registry, options map[string]any, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Engine{registry: registry, options: options, log: log}
}

// crashRuleID tags the diagnostic reported when a rule panics, the same
// way parse failures carry their own internal tag.
const crashRuleID = "internal.rule-crash"

// Check walks the tree once and returns every violation produced by the
// applicable rules, in visit order. A panicking rule is contained: the
// crash is reported as a warning-severity diagnostic on the node it
// crashed on, and the rule keeps running on other nodes.
func (e *Engine) Check(tree *ast.Tree) []rule.Violation {
	rules := e.registry.ForLanguage(tree.Language)
	if len(rules) == 0 {
		return nil
	}

	var violations []rule.Violation

	ast.Walk(tree.Root, func(n *ast.Node, wc *ast.WalkContext) {
		for _, rl := range rules {
			if !rl.Matches(n) {
				continue
			}

			rc := &rule.Context{
				Path:    tree.Path,
				Source:  tree.Source,
				Tree:    tree,
				Walk:    wc,
				Options: e.ruleOptions(rl),
				Logger:  e.log,
			}

			found, crashed := e.checkNode(rl, n, rc)
			violations = append(violations, found...)

			if crashed != nil {
				violations = append(violations, *crashed)
			}
		}
	})

	return violations
}

// checkNode invokes a single rule with panic containment.
func (e *Engine) checkNode(rl rule.Rule, n *ast.Node, rc *rule.Context) (found []rule.Violation, crashed *rule.Violation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("rule panicked", "rule", rl.ID(), "path", rc.Path, "panic", r)

			crashed = &rule.Violation{
				RuleID:   crashRuleID,
				Path:     rc.Path,
				Span:     n.Span,
				Severity: rule.SeverityWarning,
				Message:  fmt.Sprintf("rule %s crashed: %v", rl.ID(), r),
			}
		}
	}()

	return rl.Check(n, rc), nil
}

// ruleOptions resolves the options for a rule: configured value when
// present, otherwise the rule's own defaults.
func (e *Engine) ruleOptions(rl rule.Rule) any {
	if opts, ok := e.options[rl.ID()]; ok {
		return opts
	}

	if cfg, ok := rl.(rule.Configurable); ok {
		return cfg.DefaultOptions()
	}

	return nil
}
