// Package extract finds nested CSS embedded in other documents: <style>
// elements in HTML and css/scss fenced code blocks in Markdown.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Source is one stylesheet found in a document. Line is the 1-based line
// of the document on which Text starts.
type Source struct {
	Name string
	Line int
	Text string
}

// FromFile picks the extractor by file extension. Files that are neither
// HTML nor Markdown are returned whole as a single source.
func FromFile(filename string, data []byte) ([]Source, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return HTML(bytes.NewReader(data))
	case ".md", ".markdown":
		return Markdown(data), nil
	default:
		return []Source{{Name: filename, Line: 1, Text: string(data)}}, nil
	}
}

// HTML returns the contents of every <style> element in document order.
func HTML(r io.Reader) ([]Source, error) {
	z := html.NewTokenizer(r)
	line := 1
	inStyle := false
	var sources []Source

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenize html: %w", err)
			}
			return sources, nil
		}
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			inStyle = string(name) == "style"
		case html.TextToken:
			if inStyle {
				sources = append(sources, Source{
					Name: fmt.Sprintf("style #%d", len(sources)+1),
					Line: line,
					Text: raw,
				})
			}
		case html.EndTagToken, html.SelfClosingTagToken:
			inStyle = false
		}

		line += strings.Count(raw, "\n")
	}
}

// Markdown returns every fenced code block tagged css or scss.
func Markdown(src []byte) []Source {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var sources []Source
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch strings.ToLower(string(block.Language(src))) {
		case "css", "scss":
		default:
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		var buf bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		first := lines.At(0).Start
		sources = append(sources, Source{
			Name: fmt.Sprintf("css block #%d", len(sources)+1),
			Line: bytes.Count(src[:first], []byte("\n")) + 1,
			Text: buf.String(),
		})
		return ast.WalkSkipChildren, nil
	})
	return sources
}
