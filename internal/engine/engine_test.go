package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/engine"
	"github.com/styleguard/styleguard/internal/lang"
	"github.com/styleguard/styleguard/internal/rule"
)

// fakeRule is a configurable test double.
type fakeRule struct {
	id        string
	languages []lang.Language
	matches   func(*ast.Node) bool
	checkFn   func(*ast.Node, *rule.Context) []rule.Violation
	defaults  any
}

func (f *fakeRule) ID() string                 { return f.id }
func (f *fakeRule) Languages() []lang.Language { return f.languages }
func (*fakeRule) Category() string             { return "test" }
func (*fakeRule) Severity() rule.Severity      { return rule.SeverityWarning }
func (*fakeRule) Description() string          { return "test rule" }

func (f *fakeRule) Matches(n *ast.Node) bool {
	if f.matches == nil {
		return true
	}

	return f.matches(n)
}

func (f *fakeRule) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	return f.checkFn(n, rc)
}

func (f *fakeRule) DefaultOptions() any { return f.defaults }

func cssTree() *ast.Tree {
	root := &ast.Node{Kind: ast.KindStylesheet, Span: ast.Span{Start: 0, End: 10}}
	root.AddChild(&ast.Node{Kind: ast.KindRuleset, Span: ast.Span{Start: 0, End: 10}})

	return &ast.Tree{
		Language: lang.CSS,
		Path:     "a.css",
		Source:   []byte("0123456789"),
		Root:     root,
	}
}

var _ = Describe("Engine", func() {
	It("dispatches only rules for the tree's language", func() {
		cssRule := &fakeRule{
			id:        "css.test",
			languages: []lang.Language{lang.CSS},
			checkFn: func(n *ast.Node, _ *rule.Context) []rule.Violation {
				return []rule.Violation{{RuleID: "css.test", Span: n.Span}}
			},
		}
		pyRule := &fakeRule{
			id:        "python.test",
			languages: []lang.Language{lang.Python},
			checkFn: func(n *ast.Node, _ *rule.Context) []rule.Violation {
				return []rule.Violation{{RuleID: "python.test", Span: n.Span}}
			},
		}

		reg := rule.NewRegistry()
		Expect(reg.Register(cssRule, pyRule)).To(Succeed())

		violations := engine.New(reg, nil, nil).Check(cssTree())

		for _, v := range violations {
			Expect(v.RuleID).To(Equal("css.test"))
		}

		Expect(violations).NotTo(BeEmpty())
	})

	It("consults Matches before Check", func() {
		checked := 0
		rl := &fakeRule{
			id:        "css.rulesets-only",
			languages: []lang.Language{lang.CSS},
			matches:   func(n *ast.Node) bool { return n.Kind == ast.KindRuleset },
			checkFn: func(*ast.Node, *rule.Context) []rule.Violation {
				checked++

				return nil
			},
		}

		reg := rule.NewRegistry()
		Expect(reg.Register(rl)).To(Succeed())

		engine.New(reg, nil, nil).Check(cssTree())
		Expect(checked).To(Equal(1))
	})

	It("contains a crash to the rule and node it happened on", func() {
		calls := 0
		panicking := &fakeRule{
			id:        "css.crashy",
			languages: []lang.Language{lang.CSS},
			checkFn: func(n *ast.Node, _ *rule.Context) []rule.Violation {
				calls++
				if n.Kind == ast.KindRuleset {
					panic("boom")
				}

				return []rule.Violation{{RuleID: "css.crashy", Span: n.Span}}
			},
		}
		healthy := &fakeRule{
			id:        "css.healthy",
			languages: []lang.Language{lang.CSS},
			checkFn: func(n *ast.Node, _ *rule.Context) []rule.Violation {
				return []rule.Violation{{RuleID: "css.healthy", Span: n.Span}}
			},
		}

		reg := rule.NewRegistry()
		Expect(reg.Register(panicking, healthy)).To(Succeed())

		violations := engine.New(reg, nil, nil).Check(cssTree())

		Expect(calls).To(Equal(2), "the rule keeps running on other nodes")

		var crashReports, crashyReports, healthyReports int

		for _, v := range violations {
			switch v.RuleID {
			case "internal.rule-crash":
				crashReports++
				Expect(v.Severity).To(Equal(rule.SeverityWarning))
				Expect(v.Message).To(ContainSubstring("css.crashy"))
				Expect(v.Message).To(ContainSubstring("boom"))
			case "css.crashy":
				crashyReports++
			case "css.healthy":
				healthyReports++
			}
		}

		Expect(crashReports).To(Equal(1), "one diagnostic per crashed node")
		Expect(crashyReports).To(Equal(1), "the crash is scoped to one node")
		Expect(healthyReports).To(Equal(2), "other rules keep running")
	})

	It("threads configured options, falling back to rule defaults", func() {
		var seen []any

		rl := &fakeRule{
			id:        "css.opts",
			languages: []lang.Language{lang.CSS},
			defaults:  "default",
			checkFn: func(_ *ast.Node, rc *rule.Context) []rule.Violation {
				seen = append(seen, rc.Options)

				return nil
			},
		}

		reg := rule.NewRegistry()
		Expect(reg.Register(rl)).To(Succeed())

		engine.New(reg, nil, nil).Check(cssTree())
		Expect(seen).To(ContainElement("default"))

		seen = nil
		engine.New(reg, map[string]any{"css.opts": "configured"}, nil).Check(cssTree())
		Expect(seen).To(ContainElement("configured"))
	})
})
