package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/degreeaudit/pkg/requirement"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize EXPR",
	Short: "Show how a requirement expression is read",
	Example: `  degreeaudit tokenize "CS 260 or 270"
  degreeaudit tokenize "2 Classes in CS 270 or 275 or 283"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		tokens, err := requirement.Tokenize(expr)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			fmt.Fprintln(out, t)
		}

		ex := requirement.Extract(tokens)
		fmt.Fprintf(out, "\n%s: %s\n", ex.Kind, strings.Join(ex.Courses, ", "))

		node, err := requirement.Parse(tokens)
		if err != nil {
			fmt.Fprintf(out, "tree: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "tree: %s\n", node)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
