package main

import (
	"fmt"
	"reflect"

	"github.com/dhamidi/flatcss/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the EBNF grammar of the nested CSS dialect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check {
				fmt.Print(grammar.Source())
				return nil
			}
			if err := grammar.Verify(); err != nil {
				printGrammarErrors(err)
				return err
			}
			fmt.Printf("grammar ok (start: %s)\n", grammar.Start)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "parse and verify the grammar instead of printing it")

	return cmd
}

// printGrammarErrors lists each error of an ebnf error list.
func printGrammarErrors(err error) {
	for err != nil {
		v := reflect.ValueOf(err)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Println(v.Index(i).Interface())
			}
			return
		}
		next, ok := err.(interface{ Unwrap() error })
		if !ok {
			fmt.Println(err)
			return
		}
		err = next.Unwrap()
	}
}
