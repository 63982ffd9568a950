// Package grammar holds the EBNF description of the nested CSS dialect
// accepted by package parser.
package grammar

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Start is the production a stylesheet is parsed from.
const Start = "Stylesheet"

//go:embed nested.ebnf
var source string

// Source returns the grammar text.
func Source() string {
	return source
}

// Load parses the grammar.
func Load() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("nested.ebnf", strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Verify checks that every production is defined and reachable from Start.
func Verify() error {
	g, err := Load()
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}
