// Package python provides the lossless Python adapter. It is scoped to
// the constructs the rule catalog inspects: imports, class and function
// definitions, assignments and string literals. Everything else passes
// through untouched, which is what keeps fixes byte-safe.
package python

import (
	"regexp"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/lang"
)

// Adapter parses Python sources into trees.
type Adapter struct{}

// New creates a Python adapter.
func New() *Adapter {
	return &Adapter{}
}

// Language returns lang.Python.
func (*Adapter) Language() lang.Language {
	return lang.Python
}

var (
	importRe = regexp.MustCompile(`^import\s+(.+)$`)
	fromRe   = regexp.MustCompile(`^from\s+([.\w]+)\s+import\s+(.+)$`)
	classRe  = regexp.MustCompile(`^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	defRe    = regexp.MustCompile(`^(?:async\s+)?def\s+(\w+)\s*\(`)
	assignRe = regexp.MustCompile(`^([A-Za-z_][\w.]*)\s*(?::\s*[^=]+?)?\s*=\s*([^=].*)$`)
	callRe   = regexp.MustCompile(`^([\w.]+)\s*\(`)
)

// Parse builds a tree from src.
func (*Adapter) Parse(path string, src []byte) (*ast.Tree, error) {
	sc := newScanner(src)
	if err := sc.scan(); err != nil {
		return nil, err
	}

	tree := &ast.Tree{
		Language: lang.Python,
		Path:     path,
		Source:   src,
		Root: &ast.Node{
			Kind: ast.KindModule,
			Span: ast.Span{Start: 0, End: len(src)},
		},
	}

	b := &treeBuilder{src: src, root: tree.Root}
	b.build(sc.stmts)
	extendSpans(tree.Root)
	b.attachStrings(sc.strings)

	return tree, nil
}

// treeBuilder turns the flat statement list into a nested tree using
// indentation. Only class and function definitions open blocks the rules
// care about.
type treeBuilder struct {
	src  []byte
	root *ast.Node

	// stack holds open block nodes with the indentation of their def
	// statement; deeper statements attach to the innermost block.
	stack []blockFrame

	// guard tracks try/except regions so imports inside them can be
	// tagged as guarded.
	guard []int
}

type blockFrame struct {
	node   *ast.Node
	indent int
}

func (b *treeBuilder) build(stmts []stmt) {
	for _, st := range stmts {
		text := b.stmtText(st)

		b.closeBlocks(st.indent, text)

		parent := b.root
		if len(b.stack) > 0 {
			parent = b.stack[len(b.stack)-1].node
		}

		node := b.classify(st, text)
		if node != nil {
			parent.AddChild(node)
		}

		switch {
		case node != nil && (node.Kind == ast.KindClassDef || node.Kind == ast.KindFuncDef):
			b.stack = append(b.stack, blockFrame{node: node, indent: st.indent})
		case isTryOpener(text):
			b.guard = append(b.guard, st.indent)
		}
	}
}

// closeBlocks pops block and guard frames the current statement has
// dedented out of.
func (b *treeBuilder) closeBlocks(indent int, text string) {
	for len(b.stack) > 0 && indent <= b.stack[len(b.stack)-1].indent {
		b.stack = b.stack[:len(b.stack)-1]
	}

	for len(b.guard) > 0 && indent <= b.guard[len(b.guard)-1] {
		if indent == b.guard[len(b.guard)-1] && isGuardClause(text) {
			break
		}

		b.guard = b.guard[:len(b.guard)-1]
	}
}

func (b *treeBuilder) classify(st stmt, text string) *ast.Node {
	switch {
	case strings.HasPrefix(text, "import ") || strings.HasPrefix(text, "from "):
		return b.importNode(st, text)

	case strings.HasPrefix(text, "class "):
		if m := classRe.FindStringSubmatch(text); m != nil {
			return &ast.Node{
				Kind:  ast.KindClassDef,
				Span:  st.span,
				Attrs: map[string]string{"name": m[1], "bases": strings.TrimSpace(m[2])},
			}
		}

	case strings.HasPrefix(text, "def ") || strings.HasPrefix(text, "async def "):
		if m := defRe.FindStringSubmatch(text); m != nil {
			return &ast.Node{
				Kind:  ast.KindFuncDef,
				Span:  st.span,
				Attrs: map[string]string{"name": m[1]},
			}
		}

	default:
		if m := assignRe.FindStringSubmatch(text); m != nil {
			attrs := map[string]string{
				"target": m[1],
				"value":  strings.TrimSpace(m[2]),
			}

			if call := callRe.FindStringSubmatch(attrs["value"]); call != nil {
				attrs["call"] = call[1]
			}

			return &ast.Node{Kind: ast.KindAssign, Span: st.span, Attrs: attrs}
		}
	}

	return nil
}

func (b *treeBuilder) importNode(st stmt, text string) *ast.Node {
	attrs := map[string]string{}

	if len(b.guard) > 0 {
		attrs["guarded"] = "true"
	}

	if len(st.comments) > 0 {
		attrs["has-comment"] = "true"
	}

	if m := fromRe.FindStringSubmatch(normalizeImport(text)); m != nil {
		attrs["style"] = "from"
		attrs["module"] = m[1]
		attrs["names"] = strings.TrimSpace(m[2])
	} else if m := importRe.FindStringSubmatch(normalizeImport(text)); m != nil {
		attrs["style"] = "import"
		names := splitNames(m[1])
		attrs["module"] = names[0]
		attrs["names"] = strings.Join(names, ", ")
	} else {
		return nil
	}

	if strings.HasPrefix(attrs["module"], ".") {
		attrs["relative"] = "true"
	}

	return &ast.Node{Kind: ast.KindImport, Span: st.span, Attrs: attrs}
}

// extendSpans widens container spans to cover their bodies. A class or def
// statement's own span ends at its header line; string literals attach by
// span containment, so containers must cover everything nested in them.
func extendSpans(n *ast.Node) {
	for _, child := range n.Children {
		extendSpans(child)

		if n.Kind != ast.KindModule && child.Span.End > n.Span.End {
			n.Span.End = child.Span.End
		}
	}
}

// attachStrings adds string literal nodes to the statement node that
// contains them, falling back to the module root.
func (b *treeBuilder) attachStrings(lits []strLit) {
	for _, lit := range lits {
		node := &ast.Node{
			Kind: ast.KindString,
			Span: lit.span,
			Attrs: map[string]string{
				"quote":  string(lit.quote),
				"prefix": lit.prefix,
			},
		}

		if lit.triple {
			node.Attrs["triple"] = "true"
		}

		host := containingNode(b.root, lit.span)
		host.AddChild(node)
	}
}

// containingNode finds the innermost already-built node whose span covers
// the literal.
func containingNode(n *ast.Node, s ast.Span) *ast.Node {
	for _, child := range n.Children {
		if child.Kind == ast.KindString {
			continue
		}

		if child.Span.Start <= s.Start && s.End <= child.Span.End {
			return containingNode(child, s)
		}
	}

	return n
}

// stmtText returns the statement's source with comments blanked and
// newlines collapsed, for classification only.
func (b *treeBuilder) stmtText(st stmt) string {
	raw := []byte(string(b.src[st.span.Start:st.span.End]))

	for _, c := range st.comments {
		for i := c.Start; i < c.End && i < st.span.End; i++ {
			if i >= st.span.Start {
				raw[i-st.span.Start] = ' '
			}
		}
	}

	text := strings.ReplaceAll(string(raw), "\n", " ")

	return strings.TrimSpace(text)
}

// normalizeImport strips continuation parentheses from "from x import (a, b)".
func normalizeImport(text string) string {
	text = strings.ReplaceAll(text, "(", " ")
	text = strings.ReplaceAll(text, ")", " ")
	text = strings.Join(strings.Fields(text), " ")

	return strings.TrimSuffix(strings.TrimSpace(text), ",")
}

func splitNames(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}

	if len(names) == 0 {
		return []string{""}
	}

	return names
}

func isTryOpener(text string) bool {
	return text == "try:" || strings.HasPrefix(text, "try :")
}

func isGuardClause(text string) bool {
	return strings.HasPrefix(text, "except") ||
		strings.HasPrefix(text, "else") ||
		strings.HasPrefix(text, "finally")
}
