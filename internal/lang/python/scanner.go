package python

import (
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
)

// stmt is one logical source line: physical lines joined over open
// brackets, backslash continuations and triple-quoted strings.
type stmt struct {
	span   ast.Span
	indent int
	// comments records trailing or embedded comment spans so the
	// import-grouping fixer can refuse regions it cannot regenerate
	// losslessly.
	comments []ast.Span
}

// strLit is one string literal with its quoting details.
type strLit struct {
	span   ast.Span
	quote  byte
	triple bool
	prefix string
}

// scanner performs a single lossless pass over the file, finding logical
// statement boundaries, string literals and comments while tracking
// bracket depth.
type scanner struct {
	src []byte
	pos int

	stmts    []stmt
	strings  []strLit
	comments []ast.Span
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src}
}

//nolint:gocognit // the scanner is one state machine; splitting it obscures the states
func (s *scanner) scan() error {
	var (
		depth      int
		stmtStart  = -1
		stmtIndent int
		lineStart  int
		stmtCmts   []ast.Span
	)

	endStatement := func(end int) {
		if stmtStart >= 0 {
			s.stmts = append(s.stmts, stmt{
				span:     ast.Span{Start: stmtStart, End: trimRight(s.src, stmtStart, end)},
				indent:   stmtIndent,
				comments: stmtCmts,
			})
			stmtStart = -1
			stmtCmts = nil
		}
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\n':
			if depth == 0 {
				endStatement(s.pos)
			}

			s.pos++
			lineStart = s.pos

		case c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n':
			s.pos += 2
			lineStart = s.pos

		case c == '#':
			span := s.scanComment()
			s.comments = append(s.comments, span)

			if stmtStart >= 0 {
				stmtCmts = append(stmtCmts, span)
			}

		case c == '\'' || c == '"' || isStringPrefixStart(s.src, s.pos):
			lit, err := s.scanString()
			if err != nil {
				return err
			}

			if stmtStart < 0 {
				stmtStart = lit.span.Start
				stmtIndent = lit.span.Start - lineStart
			}

			s.strings = append(s.strings, lit)

		case c == '(' || c == '[' || c == '{':
			s.markStart(&stmtStart, &stmtIndent, lineStart)
			depth++
			s.pos++

		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				return ast.NewParseError(s.pos, "unbalanced closing bracket")
			}

			s.markStart(&stmtStart, &stmtIndent, lineStart)
			depth--
			s.pos++

		case c == ' ' || c == '\t' || c == '\r':
			s.pos++

		default:
			s.markStart(&stmtStart, &stmtIndent, lineStart)
			s.pos++
		}
	}

	if depth != 0 {
		return ast.NewParseError(len(s.src), "unexpected end of file inside brackets")
	}

	endStatement(len(s.src))

	return nil
}

func (s *scanner) markStart(stmtStart, stmtIndent *int, lineStart int) {
	if *stmtStart < 0 {
		*stmtStart = s.pos
		*stmtIndent = s.pos - lineStart
	}
}

func (s *scanner) scanComment() ast.Span {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}

	return ast.Span{Start: start, End: s.pos}
}

// scanString consumes a string literal (including any r/b/f/u prefix and
// triple quoting) starting at s.pos.
func (s *scanner) scanString() (strLit, error) {
	start := s.pos

	prefixEnd := s.pos
	for prefixEnd < len(s.src) && isPrefixLetter(s.src[prefixEnd]) {
		prefixEnd++
	}

	prefix := string(s.src[s.pos:prefixEnd])
	quote := s.src[prefixEnd]
	raw := strings.ContainsAny(prefix, "rR")

	triple := prefixEnd+2 < len(s.src) &&
		s.src[prefixEnd+1] == quote && s.src[prefixEnd+2] == quote

	s.pos = prefixEnd + 1
	if triple {
		s.pos += 2
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\\' && !raw:
			s.pos += 2

		case c == quote:
			if !triple {
				s.pos++

				return strLit{
					span:   ast.Span{Start: start, End: s.pos},
					quote:  quote,
					prefix: prefix,
				}, nil
			}

			if s.pos+2 < len(s.src) && s.src[s.pos+1] == quote && s.src[s.pos+2] == quote {
				s.pos += 3

				return strLit{
					span:   ast.Span{Start: start, End: s.pos},
					quote:  quote,
					triple: true,
					prefix: prefix,
				}, nil
			}

			s.pos++

		case c == '\n' && !triple:
			return strLit{}, ast.NewParseError(s.pos, "unterminated string literal")

		default:
			s.pos++
		}
	}

	return strLit{}, ast.NewParseError(len(s.src), "unterminated string literal")
}

// isStringPrefixStart reports whether pos begins a prefixed string such as
// r"..." or f'...'. Prefix letters followed by anything else are ordinary
// identifiers.
func isStringPrefixStart(src []byte, pos int) bool {
	if pos > 0 && isIdentByte(src[pos-1]) {
		return false
	}

	i := pos
	for i < len(src) && isPrefixLetter(src[i]) {
		i++
	}

	return i > pos && i-pos <= 2 && i < len(src) && (src[i] == '\'' || src[i] == '"')
}

func isPrefixLetter(b byte) bool {
	switch b {
	case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
		return true
	default:
		return false
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// trimRight shrinks end past trailing spaces, tabs and carriage returns.
func trimRight(src []byte, start, end int) int {
	for end > start {
		switch src[end-1] {
		case ' ', '\t', '\r':
			end--
		default:
			return end
		}
	}

	return end
}
