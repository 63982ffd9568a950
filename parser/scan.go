package parser

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dhamidi/flatcss/css"
)

type scanMode int

const (
	trackParens scanMode = 1 << iota
	trackQuotes
)

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

// scanTo returns the offset of the first rune of stops found at or after
// from, ignoring runes inside parentheses and quoted strings when the mode
// asks for it. It returns len(input) when no stop rune is found. The
// cursor is not moved.
func (p *Parser) scanTo(from int, mode scanMode, stops string) int {
	depth := 0
	var quote rune
	for i := from; i < len(p.input); i++ {
		ch := p.input[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote || ch == '\n' {
				quote = 0
			}
		case mode&trackQuotes != 0 && (ch == '"' || ch == '\''):
			quote = ch
		case mode&trackParens != 0 && ch == '(':
			depth++
		case mode&trackParens != 0 && ch == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.ContainsRune(stops, ch):
			return i
		}
	}
	return len(p.input)
}

// readName reads an at-rule name up to '{', '(', ';' or whitespace.
func (p *Parser) readName() string {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '{' || ch == '(' || ch == ';' || unicode.IsSpace(ch) {
			break
		}
		p.pos++
	}
	return string(p.input[start:p.pos])
}

// position converts a rune offset into a line and column.
func (p *Parser) position(offset int) css.Position {
	idx := sort.Search(len(p.lineStarts), func(i int) bool {
		return p.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return css.Position{
		Line:   idx + p.startLine,
		Column: offset - p.lineStarts[idx] + 1,
		Offset: offset,
	}
}

func indexLines(input []rune) []int {
	starts := []int{0}
	for i, ch := range input {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// stripComments blanks out block comments, keeping their newlines in
// place so offsets, lines and columns still match the source.
// Comment markers inside quoted strings are left alone, as is an
// unterminated comment.
func stripComments(src []rune) []rune {
	out := make([]rune, len(src))
	copy(out, src)

	var quote rune
	for i := 0; i < len(out); i++ {
		ch := out[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote || ch == '\n' {
				quote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			quote = ch
			continue
		}
		if ch != '/' || i+1 >= len(out) || out[i+1] != '*' {
			continue
		}
		end := commentEnd(out, i+2)
		if end < 0 {
			break
		}
		for j := i; j < end; j++ {
			if out[j] != '\n' {
				out[j] = ' '
			}
		}
		i = end - 1
	}
	return out
}

// commentEnd returns the offset just past the "*/" closing a comment whose
// body starts at from, or -1.
func commentEnd(src []rune, from int) int {
	for i := from; i+1 < len(src); i++ {
		if src[i] == '*' && src[i+1] == '/' {
			return i + 2
		}
	}
	return -1
}
