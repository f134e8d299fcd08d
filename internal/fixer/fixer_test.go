package fixer_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/fixer"
	"github.com/styleguard/styleguard/internal/rule"
)

func violation(start, end int, newText string) rule.Violation {
	return rule.Violation{
		RuleID:   "test.rule",
		Severity: rule.SeverityWarning,
		Span:     ast.Span{Start: start, End: end},
		Edit:     &rule.Edit{Span: ast.Span{Start: start, End: end}, NewText: newText},
	}
}

var _ = Describe("Select", func() {
	It("keeps non-overlapping edits and counts skipped conflicts", func() {
		violations := []rule.Violation{
			violation(0, 4, "a"),
			violation(2, 6, "b"), // overlaps the first
			violation(6, 8, "c"),
		}

		selected, skipped := fixer.Select(violations)
		Expect(selected).To(HaveLen(2))
		Expect(skipped).To(Equal(1))
		Expect(selected[0].Span).To(Equal(ast.Span{Start: 0, End: 4}))
		Expect(selected[1].Span).To(Equal(ast.Span{Start: 6, End: 8}))
	})

	It("ignores violations without edits", func() {
		violations := []rule.Violation{
			{RuleID: "test.rule", Span: ast.Span{Start: 0, End: 4}},
		}

		selected, skipped := fixer.Select(violations)
		Expect(selected).To(BeEmpty())
		Expect(skipped).To(BeZero())
	})

	It("selects by span start regardless of report order", func() {
		violations := []rule.Violation{
			violation(6, 8, "late"),
			violation(0, 4, "early"),
		}

		selected, _ := fixer.Select(violations)
		Expect(selected[0].NewText).To(Equal("early"))
	})
})

var _ = Describe("ApplyEdits", func() {
	It("applies replacements without shifting earlier offsets", func() {
		src := []byte("border: none; margin: 0px;")

		out, err := fixer.ApplyEdits(src, []rule.Edit{
			{Span: ast.Span{Start: 8, End: 12}, NewText: "0"},
			{Span: ast.Span{Start: 22, End: 25}, NewText: "0"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("border: 0; margin: 0;"))
	})

	It("supports pure insertions", func() {
		out, err := fixer.ApplyEdits([]byte("ab"), []rule.Edit{
			{Span: ast.Span{Start: 1, End: 1}, NewText: "-"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("a-b"))
	})

	It("rejects overlapping edit sets", func() {
		_, err := fixer.ApplyEdits([]byte("abcdef"), []rule.Edit{
			{Span: ast.Span{Start: 0, End: 3}, NewText: "x"},
			{Span: ast.Span{Start: 2, End: 5}, NewText: "y"},
		})

		Expect(err).To(MatchError(fixer.ErrOverlappingEdits))
	})

	It("rejects out-of-bounds spans", func() {
		_, err := fixer.ApplyEdits([]byte("ab"), []rule.Edit{
			{Span: ast.Span{Start: 1, End: 9}, NewText: "x"},
		})

		Expect(err).To(HaveOccurred())
	})

	It("leaves the input slice untouched", func() {
		src := []byte("abc")

		_, err := fixer.ApplyEdits(src, []rule.Edit{
			{Span: ast.Span{Start: 0, End: 3}, NewText: "xyz"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(src)).To(Equal("abc"))
	})
})

// replaceChecker flags every occurrence of old and offers new as the fix.
type replaceChecker struct {
	old, new string
}

func (c *replaceChecker) Check(_ string, src []byte) ([]rule.Violation, error) {
	var violations []rule.Violation

	text := string(src)
	offset := 0

	for {
		i := strings.Index(text[offset:], c.old)
		if i < 0 {
			return violations, nil
		}

		start := offset + i
		violations = append(violations, violation(start, start+len(c.old), c.new))
		offset = start + len(c.old)
	}
}

var _ = Describe("Fixer", func() {
	It("converges and reports the applied count", func() {
		checker := &replaceChecker{old: "none", new: "0"}
		src := []byte("border: none; outline: none;")

		initial, err := checker.Check("a.css", src)
		Expect(err).NotTo(HaveOccurred())

		res, err := fixer.New(checker, 0).Fix("a.css", src, initial)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(res.Output)).To(Equal("border: 0; outline: 0;"))
		Expect(res.Applied).To(Equal(2))
		Expect(res.Iterations).To(Equal(1))
		Expect(res.Remaining).To(BeEmpty())
	})

	It("is idempotent: fixing fixed output changes nothing", func() {
		checker := &replaceChecker{old: "none", new: "0"}
		src := []byte("border: none;")

		initial, _ := checker.Check("a.css", src)
		first, err := fixer.New(checker, 0).Fix("a.css", src, initial)
		Expect(err).NotTo(HaveOccurred())

		again, _ := checker.Check("a.css", first.Output)
		second, err := fixer.New(checker, 0).Fix("a.css", first.Output, again)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Output).To(Equal(first.Output))
		Expect(second.Applied).To(BeZero())
	})

	It("does not count a conflict the next pass resolves as skipped", func() {
		src := []byte("abcdef")
		initial := []rule.Violation{
			violation(0, 4, "AAAA"),
			violation(2, 6, "BBBB"), // conflicts in the first pass only
		}
		checker := &scriptedChecker{responses: [][]rule.Violation{
			{violation(2, 6, "BBBB")},
			nil,
		}}

		res, err := fixer.New(checker, 0).Fix("a.css", src, initial)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Applied).To(Equal(2))
		Expect(res.Skipped).To(BeZero())
		Expect(res.Iterations).To(Equal(2))
	})

	It("reports a persistent conflict as one skipped fix", func() {
		src := []byte("abcdef")
		conflict := []rule.Violation{
			violation(0, 4, "AAAA"),
			violation(2, 6, "BBBB"),
		}
		checker := &scriptedChecker{responses: [][]rule.Violation{
			conflict, conflict, conflict,
		}}

		res, err := fixer.New(checker, 3).Fix("a.css", src, conflict)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(3))
		Expect(res.Skipped).To(Equal(1), "the same conflict is not counted once per pass")
	})

	It("stops at the iteration bound when fixes oscillate", func() {
		// Each pass rewrites "ab" to "ba", which the next pass flags again.
		checker := &oscillatingChecker{}
		src := []byte("ab")

		initial, _ := checker.Check("a.css", src)
		res, err := fixer.New(checker, 3).Fix("a.css", src, initial)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(3))
		Expect(res.Remaining).NotTo(BeEmpty())
	})
})

// scriptedChecker returns canned violation sets, one per re-check call.
type scriptedChecker struct {
	responses [][]rule.Violation
	calls     int
}

func (c *scriptedChecker) Check(_ string, _ []byte) ([]rule.Violation, error) {
	if c.calls >= len(c.responses) {
		return nil, nil
	}

	r := c.responses[c.calls]
	c.calls++

	return r, nil
}

// oscillatingChecker always reports a fix that swaps the two bytes.
type oscillatingChecker struct{}

func (*oscillatingChecker) Check(_ string, src []byte) ([]rule.Violation, error) {
	swapped := string([]byte{src[1], src[0]})

	return []rule.Violation{violation(0, 2, swapped)}, nil
}
