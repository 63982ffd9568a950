package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/flatcss/css"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	ErrUnterminatedBlock ErrorKind = iota
	ErrMalformedDeclaration
	ErrUnexpectedSyntax
	ErrExpected
	ErrTrailingInput
	ErrUnknownAtRule
)

var errorKindNames = [...]string{
	ErrUnterminatedBlock:    "unterminated-block",
	ErrMalformedDeclaration: "malformed-declaration",
	ErrUnexpectedSyntax:     "unexpected-syntax",
	ErrExpected:             "expected",
	ErrTrailingInput:        "trailing-input",
	ErrUnknownAtRule:        "unknown-at-rule",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// snippetLength bounds the source excerpt attached to a ParseError.
const snippetLength = 30

// ParseError reports the first structural error found in the input.
// Snippet is an excerpt of at most snippetLength runes around the failure
// and Caret is the failure's rune offset within it.
type ParseError struct {
	Kind    ErrorKind
	Message string
	File    string
	Pos     css.Position
	Snippet string
	Caret   int
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Excerpt renders the snippet on one line with a caret under the failure.
func (e *ParseError) Excerpt() string {
	var sb strings.Builder
	for _, ch := range e.Snippet {
		switch ch {
		case '\n', '\r', '\t':
			sb.WriteRune(' ')
		default:
			sb.WriteRune(ch)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", e.Caret))
	sb.WriteString("^")
	return sb.String()
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...any) error {
	return p.errorAt(kind, p.pos, format, args...)
}

func (p *Parser) errorAt(kind ErrorKind, offset int, format string, args ...any) error {
	snippet, caret := p.snippet(offset)
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    p.file,
		Pos:     p.position(offset),
		Snippet: snippet,
		Caret:   caret,
	}
}

// snippet returns up to snippetLength runes centered on offset, widened
// towards the other side when offset is near either end of the input.
func (p *Parser) snippet(offset int) (string, int) {
	n := len(p.input)
	start := max(0, offset-snippetLength/2)
	end := min(n, offset+(snippetLength+1)/2)
	if end-start < snippetLength {
		if start == 0 {
			end = min(n, snippetLength)
		} else if end == n {
			start = max(0, n-snippetLength)
		}
	}
	return string(p.input[start:end]), offset - start
}

// describe names the rune at the cursor for error messages.
func (p *Parser) describe() string {
	if p.atEOF() {
		return "end of input"
	}
	return fmt.Sprintf("'%c'", p.peek())
}
