// Package css provides the lossless CSS/SCSS adapter. Tokenization uses
// the tdewolff css lexer; block structure is built here from brace and
// semicolon tokens so SCSS nesting, @include and @extend are represented.
package css

import (
	"bytes"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/lang"
)

// Adapter parses CSS and SCSS sources into trees. SCSS is a superset of
// CSS, so a single adapter serves both languages.
type Adapter struct {
	language lang.Language
}

// New creates an adapter for the given stylesheet language.
func New(l lang.Language) *Adapter {
	return &Adapter{language: l}
}

// Language returns the adapter's language.
func (a *Adapter) Language() lang.Language {
	return a.language
}

// token is one lexed token with its byte span in the original source.
type token struct {
	tt   cssparse.TokenType
	span ast.Span
}

// Parse builds a tree from src. The tree covers every input byte, so a
// fix that touches one node leaves the rest of the output byte-identical.
func (a *Adapter) Parse(path string, src []byte) (*ast.Tree, error) {
	tokens, err := a.lex(src)
	if err != nil {
		return nil, err
	}

	tree := &ast.Tree{
		Language: a.language,
		Path:     path,
		Source:   src,
		Root: &ast.Node{
			Kind: ast.KindStylesheet,
			Span: ast.Span{Start: 0, End: len(src)},
		},
	}

	p := &blockParser{src: src, tokens: tokens}
	if err := p.parseBlock(tree.Root, false); err != nil {
		return nil, err
	}

	return tree, nil
}

// lex tokenizes the source, tracking byte offsets. Sass line comments are
// masked with spaces beforehand (same length, offsets preserved) because
// the CSS lexer does not know them.
func (a *Adapter) lex(src []byte) ([]token, error) {
	masked := maskLineComments(src)

	lexer := cssparse.NewLexer(parse.NewInput(bytes.NewReader(masked)))
	tokens := make([]token, 0, 256)
	offset := 0

	for {
		tt, data := lexer.Next()
		if tt == cssparse.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return nil, ast.NewParseError(offset, err.Error())
			}

			return tokens, nil
		}

		if tt == cssparse.BadStringToken || tt == cssparse.BadURLToken {
			return nil, ast.NewParseError(offset, "malformed "+tt.String())
		}

		tokens = append(tokens, token{
			tt:   tt,
			span: ast.Span{Start: offset, End: offset + len(data)},
		})
		offset += len(data)
	}
}

// maskLineComments replaces `// ...` comments with spaces of the same
// length. Masking is skipped inside strings, block comments, and
// parentheses, which keeps url(http://...) intact.
func maskLineComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	var (
		inString  byte
		inBlock   bool
		parenDeep int
	)

	for i := 0; i < len(out); i++ {
		c := out[i]

		switch {
		case inBlock:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				inBlock = false
				i++
			}
		case inString != 0:
			if c == '\\' {
				i++
			} else if c == inString {
				inString = 0
			}
		case c == '"' || c == '\'':
			inString = c
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			inBlock = true
			i++
		case c == '(':
			parenDeep++
		case c == ')':
			if parenDeep > 0 {
				parenDeep--
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '/' && parenDeep == 0:
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		}
	}

	return out
}

// blockParser builds the node tree from the flat token stream.
type blockParser struct {
	src    []byte
	tokens []token
	pos    int
}

func (p *blockParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *blockParser) skipWhitespace() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].tt == cssparse.WhitespaceToken {
		p.pos++
	}
}

// parseBlock consumes statements until the closing brace (nested) or end
// of input (top level), attaching child nodes to parent.
func (p *blockParser) parseBlock(parent *ast.Node, nested bool) error {
	for {
		p.skipWhitespace()

		tok, ok := p.peek()
		if !ok {
			if nested {
				return ast.NewParseError(len(p.src), "unexpected end of input, unclosed block")
			}

			return nil
		}

		switch tok.tt {
		case cssparse.RightBraceToken:
			if !nested {
				return ast.NewParseError(tok.span.Start, "unexpected '}'")
			}

			return nil

		case cssparse.CommentToken:
			parent.AddChild(&ast.Node{Kind: ast.KindComment, Span: tok.span})
			p.pos++

		default:
			if err := p.parseStatement(parent); err != nil {
				return err
			}
		}
	}
}

// parseStatement gathers prelude tokens until '{', ';' or '}' and decides
// what the statement is.
func (p *blockParser) parseStatement(parent *ast.Node) error {
	start := p.pos
	depth := 0

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch tok.tt {
		case cssparse.LeftParenthesisToken, cssparse.LeftBracketToken, cssparse.FunctionToken:
			depth++
		case cssparse.RightParenthesisToken, cssparse.RightBracketToken:
			depth--
		case cssparse.LeftBraceToken:
			if depth == 0 {
				return p.finishBlockStatement(parent, start)
			}
		case cssparse.SemicolonToken:
			if depth == 0 {
				p.pos++
				p.addSimpleStatement(parent, p.tokens[start:p.pos])

				return nil
			}
		case cssparse.RightBraceToken:
			if depth == 0 {
				// Last declaration in a block may omit its semicolon.
				p.addSimpleStatement(parent, p.tokens[start:p.pos])

				return nil
			}
		}

		p.pos++
	}

	p.addSimpleStatement(parent, p.tokens[start:p.pos])

	return nil
}

// finishBlockStatement handles a statement that opens a block: a ruleset
// or a block at-rule. p.pos points at the '{'.
func (p *blockParser) finishBlockStatement(parent *ast.Node, start int) error {
	prelude := p.tokens[start:p.pos]
	p.pos++ // consume '{'

	var node *ast.Node

	if len(prelude) > 0 && prelude[0].tt == cssparse.AtKeywordToken {
		name := p.text(prelude[0].span)
		node = &ast.Node{
			Kind: ast.KindAtRule,
			Attrs: map[string]string{
				"name":    strings.ToLower(name),
				"prelude": strings.TrimSpace(p.textBetween(prelude[1:])),
			},
		}
	} else {
		node = &ast.Node{
			Kind:  ast.KindRuleset,
			Attrs: map[string]string{"selectors": strings.TrimSpace(p.textBetween(prelude))},
		}
		p.attachSelectorList(node, prelude)
	}

	node.Span.Start = spanStart(prelude, p.pos-1, p.tokens)
	parent.AddChild(node)

	if err := p.parseBlock(node, true); err != nil {
		return err
	}

	closing, ok := p.peek()
	if !ok {
		return ast.NewParseError(len(p.src), "unexpected end of input, unclosed block")
	}

	p.pos++ // consume '}'
	node.Span.End = closing.span.End

	return nil
}

// addSimpleStatement classifies a braceless statement: declaration,
// @include, @extend, or a plain at-rule such as @import.
func (p *blockParser) addSimpleStatement(parent *ast.Node, tokens []token) {
	tokens = trimWhitespace(tokens)
	if len(tokens) == 0 {
		return
	}

	span := ast.Span{Start: tokens[0].span.Start, End: tokens[len(tokens)-1].span.End}

	// The slice may end with the statement's ';'. The span keeps it so
	// edits cover the whole statement; attrs are computed without it.
	if tokens[len(tokens)-1].tt == cssparse.SemicolonToken {
		tokens = tokens[:len(tokens)-1]
	}

	tokens = trimWhitespace(tokens)
	if len(tokens) == 0 {
		return
	}

	if tokens[0].tt == cssparse.AtKeywordToken {
		name := strings.ToLower(p.text(tokens[0].span))

		switch name {
		case "@include":
			parent.AddChild(&ast.Node{
				Kind:  ast.KindInclude,
				Span:  span,
				Attrs: map[string]string{"name": includeName(tokens[1:], p.src)},
			})
		case "@extend":
			parent.AddChild(&ast.Node{
				Kind:  ast.KindExtend,
				Span:  span,
				Attrs: map[string]string{"target": strings.TrimSpace(p.textBetween(tokens[1:]))},
			})
		default:
			parent.AddChild(&ast.Node{
				Kind:  ast.KindAtRule,
				Span:  span,
				Attrs: map[string]string{"name": name, "prelude": strings.TrimSpace(p.textBetween(tokens[1:]))},
			})
		}

		return
	}

	property, value := splitDeclaration(tokens, p.src)
	parent.AddChild(&ast.Node{
		Kind:  ast.KindDeclaration,
		Span:  span,
		Attrs: map[string]string{"property": property, "value": value},
	})
}

// attachSelectorList splits the prelude into selectors on top-level
// commas and records id/class selector occurrences.
func (p *blockParser) attachSelectorList(ruleset *ast.Node, prelude []token) {
	prelude = trimWhitespace(prelude)
	if len(prelude) == 0 {
		return
	}

	list := &ast.Node{
		Kind: ast.KindSelectorList,
		Span: ast.Span{Start: prelude[0].span.Start, End: prelude[len(prelude)-1].span.End},
	}
	ruleset.AddChild(list)

	depth := 0
	segment := make([]token, 0, len(prelude))

	flush := func() {
		seg := trimWhitespace(segment)
		if len(seg) == 0 {
			segment = segment[:0]

			return
		}

		sel := &ast.Node{
			Kind:  ast.KindSelector,
			Span:  ast.Span{Start: seg[0].span.Start, End: seg[len(seg)-1].span.End},
			Attrs: map[string]string{"text": strings.TrimSpace(p.textBetween(seg))},
		}
		list.AddChild(sel)
		p.attachSelectorParts(sel, seg)
		segment = segment[:0]
	}

	for _, tok := range prelude {
		switch tok.tt {
		case cssparse.LeftParenthesisToken, cssparse.LeftBracketToken, cssparse.FunctionToken:
			depth++
		case cssparse.RightParenthesisToken, cssparse.RightBracketToken:
			depth--
		case cssparse.CommaToken:
			if depth == 0 {
				flush()

				continue
			}
		}

		segment = append(segment, tok)
	}

	flush()
}

// attachSelectorParts records #id and .class occurrences inside one
// selector.
func (p *blockParser) attachSelectorParts(sel *ast.Node, tokens []token) {
	for i, tok := range tokens {
		switch {
		case tok.tt == cssparse.HashToken:
			sel.AddChild(&ast.Node{
				Kind:  ast.KindIDSelector,
				Span:  tok.span,
				Attrs: map[string]string{"name": strings.TrimPrefix(p.text(tok.span), "#")},
			})
		case tok.tt == cssparse.DelimToken && p.text(tok.span) == "." &&
			i+1 < len(tokens) && tokens[i+1].tt == cssparse.IdentToken &&
			tokens[i+1].span.Start == tok.span.End:
			sel.AddChild(&ast.Node{
				Kind:  ast.KindClassSelector,
				Span:  ast.Span{Start: tok.span.Start, End: tokens[i+1].span.End},
				Attrs: map[string]string{"name": p.text(tokens[i+1].span)},
			})
		}
	}
}

func (p *blockParser) text(s ast.Span) string {
	return string(p.src[s.Start:s.End])
}

// textBetween returns the raw source covering a token run.
func (p *blockParser) textBetween(tokens []token) string {
	if len(tokens) == 0 {
		return ""
	}

	return string(p.src[tokens[0].span.Start:tokens[len(tokens)-1].span.End])
}

func trimWhitespace(tokens []token) []token {
	for len(tokens) > 0 && tokens[0].tt == cssparse.WhitespaceToken {
		tokens = tokens[1:]
	}

	for len(tokens) > 0 && tokens[len(tokens)-1].tt == cssparse.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}

	return tokens
}

func spanStart(prelude []token, bracePos int, all []token) int {
	if trimmed := trimWhitespace(prelude); len(trimmed) > 0 {
		return trimmed[0].span.Start
	}

	return all[bracePos].span.Start
}

// splitDeclaration separates "property: value" at the first colon.
func splitDeclaration(tokens []token, src []byte) (property, value string) {
	for i, tok := range tokens {
		if tok.tt == cssparse.ColonToken {
			before := trimWhitespace(tokens[:i])
			after := trimWhitespace(tokens[i+1:])

			if len(before) > 0 {
				property = strings.ToLower(string(src[before[0].span.Start:before[len(before)-1].span.End]))
			}

			if len(after) > 0 {
				value = string(src[after[0].span.Start : after[len(after)-1].span.End])
				value = strings.TrimSuffix(strings.TrimSpace(value), ";")
				value = strings.TrimSpace(value)
			}

			return property, value
		}
	}

	return "", ""
}

// includeName extracts the mixin name from an @include invocation.
func includeName(tokens []token, src []byte) string {
	tokens = trimWhitespace(tokens)
	if len(tokens) == 0 {
		return ""
	}

	name := string(src[tokens[0].span.Start:tokens[0].span.End])

	return strings.TrimSuffix(name, "(")
}
