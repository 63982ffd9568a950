package flatten

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveSelector(t *testing.T) {
	tests := []struct {
		child  string
		parent string
		want   string
	}{
		{".icon", ".button", ".button .icon"},
		{"&:hover", ".button", ".button:hover"},
		{"&:hover, .c", ".a, .b", ".a:hover, .a .c, .b:hover, .b .c"},
		{".a", "", ".a"},
		{".a, .b", "", ".a, .b"},
		{"& + &", ".x", ".x + .x"},
		{".theme-dark &", ".card", ".theme-dark .card"},
		{"> .child", ".list", ".list > .child"},
		{":is(.a, .b) &", ".c", ":is(.a, .b) .c"},
		{"&", ".only", ".only"},
		{"  .spaced  ", "  .outer ", ".outer .spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.parent+" / "+tt.child, func(t *testing.T) {
			if got := ResolveSelector(tt.child, tt.parent); got != tt.want {
				t.Errorf("ResolveSelector(%q, %q) = %q, want %q", tt.child, tt.parent, got, tt.want)
			}
		})
	}
}

func TestResolveSelectorCrossProduct(t *testing.T) {
	parents := []string{".p1", ".p2", ".p3"}
	children := []string{"&.c1", ".c2", "&:hover", ".c4"}

	for p := 1; p <= len(parents); p++ {
		for c := 1; c <= len(children); c++ {
			parent := strings.Join(parents[:p], ", ")
			child := strings.Join(children[:c], ", ")

			got := SplitSelectorList(ResolveSelector(child, parent))
			if len(got) != p*c {
				t.Errorf("%d x %d selectors resolved to %d: %v", p, c, len(got), got)
			}
			for i, sel := range got {
				pp := parents[i/c]
				cc := children[i%c]
				var want string
				if strings.Contains(cc, "&") {
					want = strings.ReplaceAll(cc, "&", pp)
				} else {
					want = pp + " " + cc
				}
				if sel != want {
					t.Errorf("selector %d = %q, want %q", i, sel, want)
				}
			}
		}
	}
}

func TestSplitSelectorList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{""}},
		{".a", []string{".a"}},
		{".a, .b ,.c", []string{".a", ".b", ".c"}},
		{":is(.a, .b), .c", []string{":is(.a, .b)", ".c"}},
		{`a[title="x, y"], b`, []string{`a[title="x, y"]`, "b"}},
		{`.a\,b, .c`, []string{`.a\,b`, ".c"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SplitSelectorList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSelectorList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
