// Package parser turns nested CSS into a css.Node forest.
//
// The grammar is parsed by recursive descent directly over the source
// runes; there is no separate tokenizer. A nested rule and a declaration
// both start with arbitrary text, so each body item is classified by a
// lookahead for the first of '{', ';' or '}'. Parsing stops at the first
// error, which is always a *ParseError.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/flatcss/css"
)

type Option func(*Parser)

// WithFile sets the file name reported in errors.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithStartLine sets the line number of the first line of input. It is
// used for stylesheets embedded in a larger document.
func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithStrictAtRules rejects at-rules that are neither a known inline nor a
// known block at-rule. By default unknown at-rules parse as blocks.
func WithStrictAtRules() Option {
	return func(p *Parser) {
		p.strictAtRules = true
	}
}

// Parser holds the options and cursor of a single parse. A Parser may be
// reused but not shared between goroutines.
type Parser struct {
	file          string
	startLine     int
	strictAtRules bool

	input      []rune
	lineStarts []int
	pos        int
}

func New(opts ...Option) *Parser {
	p := &Parser{startLine: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses source into a forest of top-level nodes.
func Parse(source string, opts ...Option) ([]css.Node, error) {
	return New(opts...).Parse(source)
}

// ParseReader reads r to the end and parses its contents.
func ParseReader(r io.Reader, opts ...Option) ([]css.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(string(data), opts...)
}

func (p *Parser) Parse(source string) ([]css.Node, error) {
	p.input = stripComments([]rune(source))
	p.lineStarts = indexLines(p.input)
	p.pos = 0

	var nodes []css.Node
	for {
		p.skipWhitespace()
		if p.atEOF() {
			break
		}

		var node css.Node
		var err error
		if p.peek() == '@' {
			node, err = p.parseAtRule()
		} else {
			node, err = p.parseRule()
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	p.skipWhitespace()
	if !p.atEOF() {
		return nil, p.errorf(ErrTrailingInput, "unexpected trailing input, found %s", p.describe())
	}
	return nodes, nil
}

func isInlineAtRule(name string) bool {
	switch strings.ToLower(name) {
	case "charset", "import", "namespace":
		return true
	}
	return false
}

func isBlockAtRule(name string) bool {
	switch strings.ToLower(name) {
	case "media", "supports", "document", "page", "font-face", "keyframes",
		"viewport", "counter-style", "font-feature-values", "swash", "ornaments",
		"annotation", "stylistic", "styleset", "character-variant",
		"layer", "scope", "property", "container":
		return true
	}
	return false
}

func (p *Parser) parseAtRule() (css.Node, error) {
	start := p.pos
	if err := p.expect('@', ""); err != nil {
		return nil, err
	}
	p.skipWhitespace()
	nameStart := p.pos
	name := p.readName()
	p.skipWhitespace()

	if isInlineAtRule(name) {
		return p.parseInlineAtRule(name, start)
	}
	if p.strictAtRules && !isBlockAtRule(name) {
		return nil, p.errorAt(ErrUnknownAtRule, nameStart, "unknown at-rule '@%s'", name)
	}
	return p.parseBlockAtRule(name, start)
}

func (p *Parser) parseInlineAtRule(name string, start int) (css.Node, error) {
	end := p.scanTo(p.pos, trackQuotes|trackParens, ";")
	rule := css.NewAtRule(name, string(p.input[p.pos:end]), false)
	p.pos = end

	if err := p.expect(';', atRuleContext(rule)); err != nil {
		return nil, err
	}
	rule.Span = p.span(start)
	return rule, nil
}

func (p *Parser) parseBlockAtRule(name string, start int) (css.Node, error) {
	end := p.scanTo(p.pos, trackParens, "{")
	rule := css.NewAtRule(name, string(p.input[p.pos:end]), true)
	p.pos = end

	context := atRuleContext(rule)
	if err := p.expect('{', context); err != nil {
		return nil, err
	}
	children, err := p.parseBlock(context)
	if err != nil {
		return nil, err
	}
	rule.Children = children
	if err := p.expect('}', context); err != nil {
		return nil, err
	}
	rule.Span = p.span(start)
	return rule, nil
}

func atRuleContext(rule css.AtRule) string {
	if rule.Params == "" {
		return "@" + rule.Name
	}
	return "@" + rule.Name + " " + rule.Params
}

func (p *Parser) parseRule() (css.Node, error) {
	start := p.pos
	end := p.scanTo(p.pos, trackQuotes|trackParens, "{")
	rule := css.NewRule(string(p.input[p.pos:end]))
	p.pos = end

	if err := p.expect('{', rule.Selector); err != nil {
		return nil, err
	}
	children, err := p.parseBlock(rule.Selector)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if decl, ok := child.(css.Declaration); ok {
			rule.Declarations = append(rule.Declarations, decl)
		} else {
			rule.Children = append(rule.Children, child)
		}
	}
	if err := p.expect('}', rule.Selector); err != nil {
		return nil, err
	}
	rule.Span = p.span(start)
	return rule, nil
}

// parseBlock parses the items of a '{ ... }' body up to, but not
// including, the closing brace.
func (p *Parser) parseBlock(context string) ([]css.Node, error) {
	var children []css.Node
	for {
		p.skipWhitespace()
		if p.peek() == '}' {
			return children, nil
		}
		if p.atEOF() {
			return nil, p.errorf(ErrUnterminatedBlock, "unterminated block '%s': unexpected end of input", context)
		}

		var child css.Node
		var err error
		switch {
		case p.peek() == '@':
			child, err = p.parseAtRule()
		case p.isNextSelectorBlock():
			child, err = p.parseRule()
		default:
			var ok bool
			child, ok, err = p.parseDeclaration()
			if err == nil && !ok {
				continue
			}
		}
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

// isNextSelectorBlock reports whether the text at the cursor opens a nested
// rule, that is whether '{' comes before any ';' or '}'.
func (p *Parser) isNextSelectorBlock() bool {
	end := p.scanTo(p.pos, trackQuotes|trackParens, "{;}")
	return end < len(p.input) && p.input[end] == '{'
}

// parseDeclaration parses "property: value;". A lone ';' yields ok false.
func (p *Parser) parseDeclaration() (css.Node, bool, error) {
	start := p.pos
	end := p.scanTo(p.pos, trackQuotes|trackParens, ";}")
	segment := strings.TrimSpace(string(p.input[start:end]))

	if end >= len(p.input) {
		return nil, false, p.errorAt(ErrUnexpectedSyntax, start,
			"unexpected syntax in '%s': expected ';', '{' or '}', found end of input", segment)
	}
	if p.input[end] != ';' {
		return nil, false, p.errorAt(ErrUnexpectedSyntax, start,
			"unexpected syntax in '%s': expected ';', found '%c'", segment, p.input[end])
	}
	if segment == "" {
		p.pos = end + 1
		return nil, false, nil
	}

	property, value, ok := strings.Cut(segment, ":")
	if !ok {
		return nil, false, p.errorAt(ErrMalformedDeclaration, start,
			"malformed declaration '%s': expected 'property: value;'", segment)
	}
	p.pos = end + 1

	decl := css.NewDeclaration(property, value)
	decl.Span = p.span(start)
	return decl, true, nil
}

// expect skips whitespace and consumes ch.
func (p *Parser) expect(ch rune, context string) error {
	p.skipWhitespace()
	if p.atEOF() || p.peek() != ch {
		if context != "" {
			return p.errorf(ErrExpected, "expected '%c', found %s after '%s'", ch, p.describe(), context)
		}
		return p.errorf(ErrExpected, "expected '%c', found %s", ch, p.describe())
	}
	p.pos++
	return nil
}

func (p *Parser) span(start int) css.Span {
	return css.Span{Start: p.position(start), End: p.position(p.pos)}
}
