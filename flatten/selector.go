package flatten

import "strings"

// ResolveSelector computes the flat selector for child nested in parent.
// Both are split into selector lists on top-level commas and combined
// pairwise: a child part containing '&' has every '&' replaced by the
// parent part, any other child part is appended to the parent part as a
// descendant. An empty parent yields the child list unchanged.
//
//	ResolveSelector("&:hover, .c", ".a, .b") == ".a:hover, .a .c, .b:hover, .b .c"
func ResolveSelector(child, parent string) string {
	parents := SplitSelectorList(parent)
	children := SplitSelectorList(child)

	result := make([]string, 0, len(parents)*len(children))
	for _, p := range parents {
		for _, c := range children {
			if strings.Contains(c, "&") {
				result = append(result, strings.ReplaceAll(c, "&", p))
			} else {
				result = append(result, strings.TrimSpace(p+" "+c))
			}
		}
	}
	return strings.Join(result, ", ")
}

// SplitSelectorList splits a selector list on commas that are not inside
// parentheses, brackets or quotes, trimming each part. The empty string
// yields a single empty part.
func SplitSelectorList(s string) []string {
	var parts []string
	depth := 0
	var quote rune
	escaped := false
	start := 0

	for i, ch := range s {
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
