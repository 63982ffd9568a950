package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/flatcss/extract"
	"github.com/dhamidi/flatcss/flatten"
	"github.com/dhamidi/flatcss/parser"
	"github.com/spf13/cobra"
)

func newFlattenCmd() *cobra.Command {
	var output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten a nested stylesheet",
		Long: `Flatten a nested stylesheet and print the flat CSS.

If no file is provided, reads nested CSS from stdin.
For .html, .htm and .md files the <style> elements or css fenced code
blocks are flattened in document order; errors report document lines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			var data []byte
			var err error

			if len(args) == 0 {
				data, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				data, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			flat, err := flattenDocument(filename, data, strict)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, []byte(flat), 0644)
			}
			_, err = io.WriteString(os.Stdout, flat)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the flat stylesheet to this file")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown at-rules")

	return cmd
}

func flattenDocument(filename string, data []byte, strict bool) (string, error) {
	sources, err := extract.FromFile(filename, data)
	if err != nil {
		return "", err
	}

	var fragments []string
	for _, src := range sources {
		opts := []parser.Option{parser.WithStartLine(src.Line)}
		if filename != "" {
			opts = append(opts, parser.WithFile(filename))
		}
		if strict {
			opts = append(opts, parser.WithStrictAtRules())
		}
		nodes, err := parser.Parse(src.Text, opts...)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, flatten.Flatten(nodes, "")...)
	}
	return flatten.Join(fragments), nil
}
