package lsp

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/flatcss/css"
	"github.com/dhamidi/flatcss/flatten"
	"github.com/dhamidi/flatcss/parser"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "flatcss"

// document is an open text document and the result of parsing it.
type document struct {
	text  string
	lines []string
	nodes []css.Node
	err   error
}

func newDocument(path, text string) *document {
	nodes, err := parser.Parse(text, parser.WithFile(path))
	return &document{
		text:  text,
		lines: strings.Split(text, "\n"),
		nodes: nodes,
		err:   err,
	}
}

// toProtocol converts a 1-based rune position into an LSP position, whose
// character offset counts UTF-16 code units.
func (d *document) toProtocol(pos css.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	char := 0
	if line < len(d.lines) {
		runes := []rune(d.lines[line])
		n := pos.Column - 1
		if n > len(runes) {
			n = len(runes)
		}
		if n > 0 {
			char = len(utf16.Encode(runes[:n]))
		}
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

// fromProtocol converts an LSP position to a 1-based line and rune column.
func (d *document) fromProtocol(pos protocol.Position) (int, int) {
	line := int(pos.Line)
	if line >= len(d.lines) {
		return line + 1, 1
	}
	units := 0
	col := 1
	for _, r := range d.lines[line] {
		if units >= int(pos.Character) {
			break
		}
		units += utf16.RuneLen(r)
		col++
	}
	return line + 1, col
}

func (d *document) toRange(span css.Span) protocol.Range {
	return protocol.Range{Start: d.toProtocol(span.Start), End: d.toProtocol(span.End)}
}

// diagnostics returns one diagnostic for a parse failure, or an empty
// list which clears earlier ones.
func (d *document) diagnostics() []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}

	var perr *parser.ParseError
	if !errors.As(d.err, &perr) {
		return diags
	}

	pos := d.toProtocol(perr.Pos)
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	code := protocol.IntegerOrString{Value: perr.Kind.String()}
	diags = append(diags, protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  perr.Message,
	})
	return diags
}

// symbols mirrors the node tree. Rules carry their flat selector as detail.
func (d *document) symbols() []protocol.DocumentSymbol {
	return d.symbolsOf(d.nodes, "")
}

func (d *document) symbolsOf(nodes []css.Node, parent string) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, n := range nodes {
		switch n := n.(type) {
		case css.Rule:
			resolved := flatten.ResolveSelector(n.Selector, parent)
			detail := resolved
			r := d.toRange(n.Span)
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           n.Selector,
				Detail:         &detail,
				Kind:           protocol.SymbolKindClass,
				Range:          r,
				SelectionRange: protocol.Range{Start: r.Start, End: r.Start},
				Children:       d.symbolsOf(n.Children, resolved),
			})
		case css.AtRule:
			name := "@" + n.Name
			var detail *string
			if n.Params != "" {
				params := n.Params
				detail = &params
			}
			kind := protocol.SymbolKindNamespace
			if !n.IsBlock {
				kind = protocol.SymbolKindKey
			}
			r := d.toRange(n.Span)
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           name,
				Detail:         detail,
				Kind:           kind,
				Range:          r,
				SelectionRange: protocol.Range{Start: r.Start, End: r.Start},
				Children:       d.symbolsOf(n.Children, parent),
			})
		}
	}
	return symbols
}

// ruleAt finds the rule whose selector starts on line at or before col.
// When several rules start on the line the rightmost one wins.
func (d *document) ruleAt(line, col int) (css.Rule, string, bool) {
	var (
		found    css.Rule
		selector string
		ok       bool
	)

	var visit func(nodes []css.Node, parent string)
	visit = func(nodes []css.Node, parent string) {
		for _, n := range nodes {
			switch n := n.(type) {
			case css.Rule:
				if n.Span.Start.Line > line || n.Span.End.Line < line {
					continue
				}
				resolved := flatten.ResolveSelector(n.Selector, parent)
				if n.Span.Start.Line == line && n.Span.Start.Column <= col {
					found, selector, ok = n, resolved, true
				}
				visit(n.Children, resolved)
			case css.AtRule:
				visit(n.Children, parent)
			}
		}
	}
	visit(d.nodes, "")

	return found, selector, ok
}

func (d *document) hover(pos protocol.Position) *protocol.Hover {
	line, col := d.fromProtocol(pos)
	rule, selector, ok := d.ruleAt(line, col)
	if !ok {
		return nil
	}
	start := d.toProtocol(rule.Span.Start)
	end := start
	end.Character += protocol.UInteger(len(utf16.Encode([]rune(rule.Selector))))
	r := protocol.Range{Start: start, End: end}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```css\n" + selector + "\n```",
		},
		Range: &r,
	}
}
