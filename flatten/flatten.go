// Package flatten turns a nested css.Node forest into flat CSS text.
package flatten

import (
	"strings"

	"github.com/dhamidi/flatcss/css"
)

const indentUnit = "  "

// Flatten returns the flat CSS for nodes, nested under parentSelector, as
// a sequence of fragments in source order. Each fragment is one complete
// block or statement ending in a newline.
//
// Rules emit their own declarations first, then their nested rules.
// At-rules are emitted where they occur, with their bodies flattened
// under the same parent selector. A run of declarations found among the
// children of an at-rule is wrapped in a single block for the parent
// selector, or emitted bare when there is no parent selector.
func Flatten(nodes []css.Node, parentSelector string) []string {
	var out []string
	var block strings.Builder
	open := false

	closeBlock := func() {
		if !open {
			return
		}
		if parentSelector != "" {
			block.WriteString("}\n")
		}
		out = append(out, block.String())
		block.Reset()
		open = false
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case css.Rule:
			closeBlock()
			selector := ResolveSelector(n.Selector, parentSelector)
			if len(n.Declarations) > 0 {
				out = append(out, renderRule(selector, n.Declarations))
			}
			out = append(out, Flatten(n.Children, selector)...)

		case css.AtRule:
			closeBlock()
			inner := Flatten(n.Children, parentSelector)
			if !n.IsBlock {
				out = append(out, atRuleHeader(n)+";\n")
				continue
			}
			out = append(out, atRuleHeader(n)+" {\n"+indent(strings.Join(inner, ""))+"}\n")

		case css.Declaration:
			if !open {
				if parentSelector != "" {
					block.WriteString(parentSelector + " {\n")
				}
				open = true
			}
			if parentSelector != "" {
				block.WriteString(indentUnit)
			}
			block.WriteString(renderDeclaration(n))
		}
	}
	closeBlock()

	return out
}

// Join concatenates fragments into a stylesheet with a blank line between
// top-level blocks and a single trailing newline.
func Join(fragments []string) string {
	s := strings.TrimRight(strings.Join(fragments, "\n"), "\n")
	if s == "" {
		return ""
	}
	return s + "\n"
}

func renderRule(selector string, decls []css.Declaration) string {
	var sb strings.Builder
	sb.WriteString(selector)
	sb.WriteString(" {\n")
	for _, d := range decls {
		sb.WriteString(indentUnit)
		sb.WriteString(renderDeclaration(d))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func renderDeclaration(d css.Declaration) string {
	return d.Property + ": " + d.Value + ";\n"
}

func atRuleHeader(n css.AtRule) string {
	if n.Params == "" {
		return "@" + n.Name
	}
	return "@" + n.Name + " " + n.Params
}

// indent prefixes every non-empty line of s with one indentation unit.
func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line != "" && line != "\n" {
			sb.WriteString(indentUnit)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
