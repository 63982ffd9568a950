package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/flatcss/css"
	"github.com/dhamidi/flatcss/flatten"
	"github.com/dhamidi/flatcss/parser"
)

// FlattenCSS parses nested CSS and returns the flat stylesheet.
func FlattenCSS(source []byte, opts ...parser.Option) ([]byte, error) {
	nodes, err := parser.Parse(string(source), opts...)
	if err != nil {
		return nil, err
	}
	return []byte(flatten.Join(flatten.Flatten(nodes, ""))), nil
}

// PrettyPrintCSS parses nested CSS and prints it back, still nested, with
// one item per line and two-space indentation. Comments are dropped.
func PrettyPrintCSS(source []byte, opts ...parser.Option) ([]byte, error) {
	nodes, err := parser.Parse(string(source), opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := NewCSSPrettyPrinter(&buf).Print(nodes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type CSSPrettyPrinter struct {
	w         io.Writer
	sb        strings.Builder
	indent    int
	indentStr string
}

func NewCSSPrettyPrinter(w io.Writer) *CSSPrettyPrinter {
	return &CSSPrettyPrinter{
		w:         w,
		indentStr: "  ",
	}
}

func (p *CSSPrettyPrinter) Encode(nodes []css.Node) error {
	return p.Print(nodes)
}

// Print writes nodes with a blank line between top-level items.
func (p *CSSPrettyPrinter) Print(nodes []css.Node) error {
	p.sb.Reset()
	for i, node := range nodes {
		if i > 0 {
			p.sb.WriteString("\n")
		}
		p.printNode(node)
	}
	_, err := io.WriteString(p.w, p.sb.String())
	return err
}

func (p *CSSPrettyPrinter) printNode(node css.Node) {
	switch n := node.(type) {
	case css.Declaration:
		p.line(n.Property + ": " + n.Value + ";")
	case css.Rule:
		p.line(n.Selector + " {")
		p.indent++
		for _, d := range n.Declarations {
			p.printNode(d)
		}
		for _, c := range n.Children {
			p.printNode(c)
		}
		p.indent--
		p.line("}")
	case css.AtRule:
		header := "@" + n.Name
		if n.Params != "" {
			header += " " + n.Params
		}
		if !n.IsBlock {
			p.line(header + ";")
			return
		}
		p.line(header + " {")
		p.indent++
		for _, c := range n.Children {
			p.printNode(c)
		}
		p.indent--
		p.line("}")
	}
}

func (p *CSSPrettyPrinter) line(s string) {
	p.sb.WriteString(strings.Repeat(p.indentStr, p.indent))
	p.sb.WriteString(s)
	p.sb.WriteString("\n")
}
