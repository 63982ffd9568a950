package main

import (
	"fmt"

	"github.com/dhamidi/flatcss/project"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [dir]",
		Short: "Flatten every stylesheet of a project",
		Long: `Flatten every stylesheet under the project's source directory into
its output directory, keeping relative paths.

The project is configured by flatcss.json in dir (default: the current
directory). Without it, sources are read from src/ and written to out/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			p, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			result, err := p.Build()
			if err != nil {
				return err
			}

			for _, out := range result.Written {
				fmt.Println(out)
			}
			for _, ferr := range result.Errors {
				printError(ferr)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d of %d stylesheets failed", len(result.Errors), len(result.Errors)+len(result.Written))
			}
			return nil
		},
	}
}
