package python_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/lang/python"
)

func parse(src string) *ast.Tree {
	tree, err := python.New().Parse("test.py", []byte(src))
	Expect(err).NotTo(HaveOccurred())

	return tree
}

func findAll(root *ast.Node, kind ast.Kind) []*ast.Node {
	var nodes []*ast.Node

	ast.Walk(root, func(n *ast.Node, _ *ast.WalkContext) {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	})

	return nodes
}

var _ = Describe("Adapter", func() {
	Describe("imports", func() {
		It("parses plain imports", func() {
			tree := parse("import os\nimport sys\n")

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(2))
			Expect(imports[0].Attr("style")).To(Equal("import"))
			Expect(imports[0].Attr("module")).To(Equal("os"))
		})

		It("parses from-imports with name lists", func() {
			tree := parse("from django.db import models, transaction\n")

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(1))
			Expect(imports[0].Attr("style")).To(Equal("from"))
			Expect(imports[0].Attr("module")).To(Equal("django.db"))
			Expect(imports[0].Attr("names")).To(Equal("models, transaction"))
		})

		It("joins parenthesized import continuations into one statement", func() {
			src := "from django.db import (\n    models,\n    transaction,\n)\n"
			tree := parse(src)

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(1))
			Expect(imports[0].Attr("module")).To(Equal("django.db"))
			Expect(imports[0].Attr("names")).To(ContainSubstring("models"))
		})

		It("marks relative imports", func() {
			tree := parse("from .models import Article\n")

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(1))
			Expect(imports[0].Attr("relative")).To(Equal("true"))
		})

		It("marks imports inside try blocks as guarded", func() {
			src := "try:\n    import ujson\nexcept ImportError:\n    import json\n\nimport os\n"
			tree := parse(src)

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(3))
			Expect(imports[0].Attr("guarded")).To(Equal("true"))
			Expect(imports[1].Attr("guarded")).To(Equal("true"))
			Expect(imports[2].Attr("guarded")).To(BeEmpty())
		})

		It("marks imports carrying comments", func() {
			tree := parse("import os  # noqa\n")

			imports := findAll(tree.Root, ast.KindImport)
			Expect(imports).To(HaveLen(1))
			Expect(imports[0].Attr("has-comment")).To(Equal("true"))
		})
	})

	Describe("definitions", func() {
		It("nests methods under their class", func() {
			src := "class Article:\n    def save(self):\n        pass\n\ndef helper():\n    pass\n"
			tree := parse(src)

			classes := findAll(tree.Root, ast.KindClassDef)
			Expect(classes).To(HaveLen(1))
			Expect(classes[0].Attr("name")).To(Equal("Article"))

			funcs := findAll(tree.Root, ast.KindFuncDef)
			Expect(funcs).To(HaveLen(2))
			Expect(funcs[0].Parent).To(Equal(classes[0]))
			Expect(funcs[1].Parent).To(Equal(tree.Root))
		})

		It("records base classes", func() {
			tree := parse("class Article(models.Model):\n    pass\n")

			classes := findAll(tree.Root, ast.KindClassDef)
			Expect(classes).To(HaveLen(1))
			Expect(classes[0].Attr("bases")).To(Equal("models.Model"))
		})

		It("parses async defs", func() {
			tree := parse("async def fetch():\n    pass\n")

			funcs := findAll(tree.Root, ast.KindFuncDef)
			Expect(funcs).To(HaveLen(1))
			Expect(funcs[0].Attr("name")).To(Equal("fetch"))
		})
	})

	Describe("assignments", func() {
		It("records target, value and call attributes", func() {
			src := "class Article(models.Model):\n    author = models.ForeignKey('User', related_name='articles')\n"
			tree := parse(src)

			assigns := findAll(tree.Root, ast.KindAssign)
			Expect(assigns).To(HaveLen(1))
			Expect(assigns[0].Attr("target")).To(Equal("author"))
			Expect(assigns[0].Attr("call")).To(Equal("models.ForeignKey"))
		})

		It("handles annotated assignments", func() {
			tree := parse("MAX_SIZE: int = 10\n")

			assigns := findAll(tree.Root, ast.KindAssign)
			Expect(assigns).To(HaveLen(1))
			Expect(assigns[0].Attr("target")).To(Equal("MAX_SIZE"))
			Expect(assigns[0].Attr("value")).To(Equal("10"))
		})

		It("does not treat comparisons as assignments", func() {
			tree := parse("x == 10\n")

			Expect(findAll(tree.Root, ast.KindAssign)).To(BeEmpty())
		})
	})

	Describe("strings", func() {
		It("records quote style and prefix", func() {
			tree := parse(`name = "hello"` + "\n")

			strs := findAll(tree.Root, ast.KindString)
			Expect(strs).To(HaveLen(1))
			Expect(strs[0].Attr("quote")).To(Equal(`"`))
		})

		It("marks triple-quoted strings", func() {
			tree := parse("def f():\n    \"\"\"Docstring.\"\"\"\n    pass\n")

			strs := findAll(tree.Root, ast.KindString)
			Expect(strs).To(HaveLen(1))
			Expect(strs[0].Attr("triple")).To(Equal("true"))
		})

		It("attaches literals to their containing statement node", func() {
			src := "class Article:\n    name = 'x'\n"
			tree := parse(src)

			strs := findAll(tree.Root, ast.KindString)
			Expect(strs).To(HaveLen(1))
			Expect(strs[0].Parent.Kind).To(Equal(ast.KindAssign))
		})

		It("keeps raw string backslashes intact", func() {
			tree := parse(`pattern = r'\d+'` + "\n")

			strs := findAll(tree.Root, ast.KindString)
			Expect(strs).To(HaveLen(1))
			Expect(strs[0].Attr("prefix")).To(Equal("r"))
			Expect(tree.Text(strs[0].Span)).To(Equal(`r'\d+'`))
		})
	})

	Describe("errors", func() {
		It("rejects unbalanced brackets", func() {
			_, err := python.New().Parse("bad.py", []byte("x = (1, 2\n"))
			Expect(err).To(MatchError(ast.ErrParse))
		})

		It("rejects unterminated strings", func() {
			_, err := python.New().Parse("bad.py", []byte("x = 'oops\n"))
			Expect(err).To(MatchError(ast.ErrParse))
		})
	})
})
