package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teipress/teipress/internal/ast"
	"github.com/teipress/teipress/internal/parser"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse MarkdownTeX into a document tree (JSON record form)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}

		doc, err := parser.Parse(string(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		out, err := ast.MarshalDocument(doc)
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		return writeOutput(parseOutput, append(out, '\n'))
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(parseCmd)
}
