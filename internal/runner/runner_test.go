package runner_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/lang"
	langcss "github.com/styleguard/styleguard/internal/lang/css"
	langpython "github.com/styleguard/styleguard/internal/lang/python"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/internal/rules"
	"github.com/styleguard/styleguard/internal/runner"
)

var _ = Describe("Runner", func() {
	var dir string

	adapters := map[lang.Language]ast.Adapter{
		lang.CSS:    langcss.New(lang.CSS),
		lang.SCSS:   langcss.New(lang.SCSS),
		lang.Python: langpython.New(),
	}

	newRunner := func(opts runner.Options) *runner.Runner {
		registry, err := rules.DefaultRegistry()
		Expect(err).NotTo(HaveOccurred())

		return runner.New(registry, adapters, opts, nil)
	}

	write := func(rel, content string, mode os.FileMode) string {
		path := filepath.Join(dir, rel)
		Expect(os.WriteFile(path, []byte(content), mode)).To(Succeed())

		return path
	}

	ruleIDs := func(violations []rule.Violation) []string {
		ids := make([]string, 0, len(violations))
		for _, v := range violations {
			ids = append(ids, v.RuleID)
		}

		return ids
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("reports violations per file", func() {
		path := write("menu.scss", "#menu { border: none; }\n", 0o644)

		report, err := newRunner(runner.Options{}).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Files).To(HaveLen(1))

		fr := report.Files[0]
		Expect(fr.Path).To(Equal(path))
		Expect(fr.ParseFailed).To(BeFalse())
		Expect(ruleIDs(fr.Violations)).To(ContainElements("css.no-id-selector", "css.border-none"))
		Expect(report.HasErrors()).To(BeTrue())
	})

	It("orders the report by path regardless of worker completion", func() {
		b := write("b.scss", "#b { color: red; }\n", 0o644)
		a := write("a.scss", "#a { color: red; }\n", 0o644)
		c := write("c.scss", "#c { color: red; }\n", 0o644)

		report, err := newRunner(runner.Options{Workers: 3}).Run(context.Background(), []string{c, b, a})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Files).To(HaveLen(3))
		Expect(report.Files[0].Path).To(Equal(a))
		Expect(report.Files[1].Path).To(Equal(b))
		Expect(report.Files[2].Path).To(Equal(c))
	})

	It("surfaces parse failures as error violations", func() {
		path := write("broken.scss", "a { color: red;\n", 0o644)

		report, err := newRunner(runner.Options{}).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())

		fr := report.Files[0]
		Expect(fr.ParseFailed).To(BeTrue())
		Expect(fr.Violations).To(HaveLen(1))
		Expect(fr.Violations[0].RuleID).To(Equal("internal.parse-error"))
		Expect(fr.Violations[0].Severity).To(Equal(rule.SeverityError))
		Expect(report.HasErrors()).To(BeTrue())
	})

	It("applies fixes and writes the file back", func() {
		path := write("menu.scss", "#menu { border: none; }\n", 0o644)

		opts := runner.Options{Fix: true, FixIterations: 10}

		report, err := newRunner(opts).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())

		fr := report.Files[0]
		Expect(fr.AppliedFixes).To(Equal(1))
		Expect(ruleIDs(fr.Violations)).To(ContainElement("css.no-id-selector"))
		Expect(ruleIDs(fr.Violations)).NotTo(ContainElement("css.border-none"))

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("#menu { border: 0; }\n"))
	})

	It("preserves file permissions on write-back", func() {
		path := write("menu.scss", "a { border: none; }\n", 0o640)

		opts := runner.Options{Fix: true, FixIterations: 10}

		_, err := newRunner(opts).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o640)))
	})

	It("keeps files untouched in dry-run mode", func() {
		source := "a { border: none; }\n"
		path := write("menu.scss", source, 0o644)

		opts := runner.Options{Fix: true, DryRun: true, FixIterations: 10}

		report, err := newRunner(opts).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())

		fr := report.Files[0]
		Expect(fr.Fixed).To(Equal([]byte("a { border: 0; }\n")))

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal(source))
	})

	It("honors the enablement and severity policy", func() {
		path := write("menu.scss", "#menu { border: none; }\n", 0o644)

		opts := runner.Options{}
		opts.Policy.Disabled = map[string]bool{"css.no-id-selector": true}
		opts.Policy.Severities = map[string]rule.Severity{"css.border-none": rule.SeverityError}

		report, err := newRunner(opts).Run(context.Background(), []string{path})
		Expect(err).NotTo(HaveOccurred())

		fr := report.Files[0]
		Expect(ruleIDs(fr.Violations)).NotTo(ContainElement("css.no-id-selector"))
		Expect(fr.Violations).To(ContainElement(HaveField("Severity", rule.SeverityError)))
	})

	It("stops dispatching when the context is cancelled", func() {
		path := write("menu.scss", "a { color: red; }\n", 0o644)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := newRunner(runner.Options{}).Run(ctx, []string{path})
		Expect(err).To(MatchError(context.Canceled))
		Expect(report.Files).To(BeEmpty())
	})
})
