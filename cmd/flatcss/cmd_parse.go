package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/flatcss/format"
	"github.com/dhamidi/flatcss/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a nested stylesheet and print its syntax tree",
		Long: `Parse a nested stylesheet and print it.

Formats:
  json    syntax tree with source spans (default)
  nested  pretty-printed nested CSS
  flat    flattened CSS`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			nodes, err := parser.ParseReader(f, parser.WithFile(args[0]))
			if err != nil {
				return err
			}
			if err := enc.Encode(nodes); err != nil {
				return err
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json, nested or flat")

	return cmd
}
