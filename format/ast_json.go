package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/flatcss/css"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(nodes []css.Node) error {
	text, err := e.MarshalText(nodes)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(nodes []css.Node) ([]byte, error) {
	return json.MarshalIndent(NodesToJSON(nodes), "", "  ")
}

// ASTJSONNode is the JSON shape of a css.Node.
type ASTJSONNode struct {
	Kind         string         `json:"kind"`
	Span         *ASTJSONSpan   `json:"span,omitempty"`
	Selector     string         `json:"selector,omitempty"`
	Name         string         `json:"name,omitempty"`
	Params       string         `json:"params,omitempty"`
	Block        bool           `json:"block,omitempty"`
	Property     string         `json:"property,omitempty"`
	Value        string         `json:"value,omitempty"`
	Declarations []*ASTJSONNode `json:"declarations,omitempty"`
	Children     []*ASTJSONNode `json:"children,omitempty"`
}

type ASTJSONSpan struct {
	Start ASTJSONPosition `json:"start"`
	End   ASTJSONPosition `json:"end"`
}

type ASTJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NodesToJSON converts a forest; it never returns nil so an empty
// stylesheet encodes as [].
func NodesToJSON(nodes []css.Node) []*ASTJSONNode {
	out := make([]*ASTJSONNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeToJSON(n))
	}
	return out
}

func nodeToJSON(node css.Node) *ASTJSONNode {
	switch n := node.(type) {
	case css.Declaration:
		return &ASTJSONNode{
			Kind:     "declaration",
			Span:     spanToJSON(n.Span),
			Property: n.Property,
			Value:    n.Value,
		}
	case css.Rule:
		jn := &ASTJSONNode{
			Kind:     "rule",
			Span:     spanToJSON(n.Span),
			Selector: n.Selector,
		}
		for _, d := range n.Declarations {
			jn.Declarations = append(jn.Declarations, nodeToJSON(d))
		}
		if len(n.Children) > 0 {
			jn.Children = NodesToJSON(n.Children)
		}
		return jn
	case css.AtRule:
		jn := &ASTJSONNode{
			Kind:   "at-rule",
			Span:   spanToJSON(n.Span),
			Name:   n.Name,
			Params: n.Params,
			Block:  n.IsBlock,
		}
		if len(n.Children) > 0 {
			jn.Children = NodesToJSON(n.Children)
		}
		return jn
	}
	return &ASTJSONNode{Kind: "unknown"}
}

func spanToJSON(s css.Span) *ASTJSONSpan {
	if s.Start.Line == 0 && s.End.Line == 0 {
		return nil
	}
	return &ASTJSONSpan{
		Start: ASTJSONPosition{Line: s.Start.Line, Column: s.Start.Column},
		End:   ASTJSONPosition{Line: s.End.Line, Column: s.End.Column},
	}
}
