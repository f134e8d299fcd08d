// Package ast provides the language-independent concrete syntax tree the
// rule engine operates on. Trees are produced by per-language adapters and
// are immutable once built; fixes never mutate a live tree, they re-parse.
package ast

import (
	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/lang"
)

// Kind tags a node with its syntactic role.
type Kind string

// CSS/SCSS node kinds.
const (
	KindStylesheet    Kind = "stylesheet"
	KindRuleset       Kind = "ruleset"
	KindSelectorList  Kind = "selector-list"
	KindSelector      Kind = "selector"
	KindIDSelector    Kind = "id-selector"
	KindClassSelector Kind = "class-selector"
	KindDeclaration   Kind = "declaration"
	KindInclude       Kind = "include"
	KindExtend        Kind = "extend"
	KindAtRule        Kind = "at-rule"
	KindComment       Kind = "comment"
)

// Python node kinds.
const (
	KindModule   Kind = "module"
	KindImport   Kind = "import-statement"
	KindClassDef Kind = "class-def"
	KindFuncDef  Kind = "func-def"
	KindAssign   Kind = "assignment"
	KindString   Kind = "string"
)

// Span is a half-open byte range [Start, End) into the source the tree was
// parsed from.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte, or whether
// both are zero-width at the same offset.
func (s Span) Overlaps(o Span) bool {
	if s.Start == o.Start && s.Len() == 0 && o.Len() == 0 {
		return true
	}

	return s.Start < o.End && o.Start < s.End
}

// Node is a single concrete-syntax node. Children are in document order.
// The Parent pointer is set by the adapter and never changes afterwards.
type Node struct {
	Kind     Kind
	Span     Span
	Attrs    map[string]string
	Children []*Node
	Parent   *Node
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}

	return n.Attrs[key]
}

// AddChild appends child and sets its parent pointer.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Ancestors counts enclosing nodes of the given kind.
func (n *Node) Ancestors(kind Kind) int {
	count := 0

	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			count++
		}
	}

	return count
}

// Tree is the parse result for one file. The tree owns its source bytes;
// spans index into Source.
type Tree struct {
	Language lang.Language
	Path     string
	Source   []byte
	Root     *Node
}

// Text returns the source bytes covered by the span.
func (t *Tree) Text(s Span) string {
	if s.Start < 0 || s.End > len(t.Source) || s.Start > s.End {
		return ""
	}

	return string(t.Source[s.Start:s.End])
}

// ErrParse is the sentinel for per-file parse failures. A parse failure
// isolates to the offending file and never aborts the run.
var ErrParse = errors.New("parse error")

// ParseError describes where and why a parse attempt failed.
type ParseError struct {
	Offset  int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap makes ParseError match ErrParse via errors.Is.
func (*ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a ParseError at the given byte offset.
func NewParseError(offset int, message string) *ParseError {
	return &ParseError{Offset: offset, Message: message}
}

// Adapter parses source bytes into a Tree. Adapters must be lossless:
// every byte of the input is covered by the tree so that regions untouched
// by a fix stay byte-identical in the output.
type Adapter interface {
	// Language returns the language this adapter parses.
	Language() lang.Language

	// Parse builds a tree from src. On failure it returns an error
	// matching ErrParse.
	Parse(path string, src []byte) (*Tree, error)
}
