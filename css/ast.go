// Package css defines the syntax tree shared by the nested CSS parser and
// the flattener.
package css

import "strings"

// Position is a location in source text. Line and Column are 1-based,
// Offset is a 0-based rune offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span covers a node from its first rune to just past its last one.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by Declaration, Rule and AtRule.
type Node interface {
	node()
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
	Span     Span
}

func (Declaration) node() {}

// NewDeclaration returns a declaration with both fields trimmed.
func NewDeclaration(property, value string) Declaration {
	return Declaration{
		Property: strings.TrimSpace(property),
		Value:    strings.TrimSpace(value),
	}
}

// Rule is a selector block. Declarations holds the rule's own
// declarations; Children holds nested rules and at-rules.
type Rule struct {
	Selector     string
	Declarations []Declaration
	Children     []Node
	Span         Span
}

func (Rule) node() {}

// NewRule returns an empty rule for the trimmed selector.
func NewRule(selector string) Rule {
	return Rule{Selector: strings.TrimSpace(selector)}
}

// AtRule is an at-rule such as @media or @import. Name excludes the '@'.
// Inline at-rules (IsBlock false) never have children. Block at-rules may
// interleave declarations with nested rules and at-rules in Children.
type AtRule struct {
	Name     string
	Params   string
	IsBlock  bool
	Children []Node
	Span     Span
}

func (AtRule) node() {}

// NewAtRule returns an at-rule with name and params trimmed.
func NewAtRule(name, params string, isBlock bool) AtRule {
	return AtRule{
		Name:    strings.TrimSpace(name),
		Params:  strings.TrimSpace(params),
		IsBlock: isBlock,
	}
}

// Walk visits nodes in preorder. A rule's declarations are visited before
// its children. If fn returns false the node's descendants are skipped.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case Rule:
			for _, d := range n.Declarations {
				fn(d)
			}
			Walk(n.Children, fn)
		case AtRule:
			Walk(n.Children, fn)
		}
	}
}
