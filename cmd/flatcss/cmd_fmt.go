package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/flatcss/format"
	"github.com/dhamidi/flatcss/parser"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a nested stylesheet without flattening it",
		Long: `Pretty-print a nested stylesheet to stdout.

If no file is provided, reads nested CSS from stdin.
Comments are not preserved.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			var opts []parser.Option
			if filename != "" {
				opts = append(opts, parser.WithFile(filename))
			}
			output, err := format.PrettyPrintCSS(source, opts...)
			if err != nil {
				return err
			}

			if fmtOverwrite {
				return os.WriteFile(filename, output, 0644)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
