package main

import (
	"errors"
	"testing"

	"github.com/dhamidi/flatcss/parser"
)

func TestFlattenDocument(t *testing.T) {
	html := "<style>.a { &:hover { b: c; } }</style>\n<style>.d { e: f; }</style>"
	got, err := flattenDocument("page.html", []byte(html), false)
	if err != nil {
		t.Fatalf("flattenDocument error: %v", err)
	}
	want := ".a:hover {\n  b: c;\n}\n\n.d {\n  e: f;\n}\n"
	if got != want {
		t.Errorf("flattenDocument = %q, want %q", got, want)
	}
}

func TestFlattenDocumentErrorLine(t *testing.T) {
	md := "# Styles\n\n```css\n.a {\n  b c;\n}\n```\n"
	_, err := flattenDocument("README.md", []byte(md), false)

	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *parser.ParseError", err)
	}
	if perr.File != "README.md" || perr.Pos.Line != 5 {
		t.Errorf("error at %s:%d, want README.md:5", perr.File, perr.Pos.Line)
	}
}

func TestFlattenDocumentStrict(t *testing.T) {
	src := []byte("@custom { .a { b: c; } }")
	if _, err := flattenDocument("", src, false); err != nil {
		t.Errorf("permissive mode error: %v", err)
	}
	_, err := flattenDocument("", src, true)
	var perr *parser.ParseError
	if !errors.As(err, &perr) || perr.Kind != parser.ErrUnknownAtRule {
		t.Errorf("strict mode error = %v, want unknown-at-rule", err)
	}
}
