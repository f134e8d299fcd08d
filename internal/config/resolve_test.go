package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/styleguard/styleguard/internal/config"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/internal/rules"
	csrules "github.com/styleguard/styleguard/internal/rules/css"
	"github.com/styleguard/styleguard/pkg/config"
)

var _ = Describe("Resolve", func() {
	var registry *rule.Registry

	BeforeEach(func() {
		var err error

		registry, err = rules.DefaultRegistry()
		Expect(err).NotTo(HaveOccurred())
	})

	boolPtr := func(b bool) *bool { return &b }

	It("resolves an empty config to defaults", func() {
		res, err := internalconfig.Resolve(config.Default(), registry)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Policy.Disabled).To(BeEmpty())
		Expect(res.Policy.Severities).To(BeEmpty())
		Expect(res.FixIterations).To(Equal(10))
	})

	It("rejects unknown rule ids", func() {
		cfg := config.Default()
		cfg.Rules["css.no-such-rule"] = config.RuleConfig{Enabled: boolPtr(false)}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(MatchError(internalconfig.ErrUnknownRule))
	})

	It("rejects invalid severities", func() {
		cfg := config.Default()
		cfg.Rules["css.border-none"] = config.RuleConfig{Severity: "fatal"}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(MatchError(internalconfig.ErrInvalidSeverity))
	})

	It("collects disabled rules and severity overrides", func() {
		cfg := config.Default()
		cfg.Rules["css.no-id-selector"] = config.RuleConfig{Enabled: boolPtr(false)}
		cfg.Rules["css.border-none"] = config.RuleConfig{Severity: "error"}

		res, err := internalconfig.Resolve(cfg, registry)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Policy.Disabled).To(HaveKey("css.no-id-selector"))
		Expect(res.Policy.Severities).To(HaveKeyWithValue("css.border-none", rule.SeverityError))
	})

	It("decodes rule options onto the rule's option struct", func() {
		cfg := config.Default()
		cfg.Rules["css.nesting-depth"] = config.RuleConfig{
			Options: map[string]any{"max_depth": int64(2)},
		}

		res, err := internalconfig.Resolve(cfg, registry)
		Expect(err).NotTo(HaveOccurred())

		opts, ok := res.Options["css.nesting-depth"].(*csrules.NestingDepthOptions)
		Expect(ok).To(BeTrue())
		Expect(opts.MaxDepth).To(Equal(2))
	})

	It("rejects unknown option keys", func() {
		cfg := config.Default()
		cfg.Rules["css.nesting-depth"] = config.RuleConfig{
			Options: map[string]any{"max_depht": 2},
		}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(MatchError(internalconfig.ErrInvalidOptions))
	})

	It("rejects options that fail validation", func() {
		cfg := config.Default()
		cfg.Rules["css.nesting-depth"] = config.RuleConfig{
			Options: map[string]any{"max_depth": 0},
		}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(MatchError(internalconfig.ErrInvalidOptions))
	})

	It("rejects options on rules that accept none", func() {
		cfg := config.Default()
		cfg.Rules["css.no-id-selector"] = config.RuleConfig{
			Options: map[string]any{"anything": true},
		}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(MatchError(internalconfig.ErrInvalidOptions))
	})

	It("never mutates the rule's own defaults", func() {
		cfg := config.Default()
		cfg.Rules["css.nesting-depth"] = config.RuleConfig{
			Options: map[string]any{"max_depth": int64(1)},
		}

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).NotTo(HaveOccurred())

		fresh, ok := csrules.NewNestingDepth().DefaultOptions().(*csrules.NestingDepthOptions)
		Expect(ok).To(BeTrue())
		Expect(fresh.MaxDepth).To(Equal(3))
	})

	It("rejects a non-positive fix iteration bound", func() {
		cfg := config.Default()
		cfg.Global.FixIterations = 0

		_, err := internalconfig.Resolve(cfg, registry)
		Expect(err).To(HaveOccurred())
	})
})
