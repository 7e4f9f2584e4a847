package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teipress/teipress/internal/parser"
	"github.com/teipress/teipress/internal/tei"
)

var (
	serializeOutput string
	serializeSource string
)

var serializeCmd = &cobra.Command{
	Use:   "serialize <file>",
	Short: "Parse MarkdownTeX and emit canonical TEI XML",
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

		source := serializeSource
		if source == "" && args[0] != "-" {
			source = args[0]
		}
		xml, err := tei.NewSerializer(newLogger()).Serialize(doc, tei.SourceMeta{Source: source})
		if err != nil {
			return fmt.Errorf("serialize %s: %w", args[0], err)
		}
		return writeOutput(serializeOutput, xml)
	},
}

func init() {
	serializeCmd.Flags().StringVarP(&serializeOutput, "output", "o", "", "output file (default stdout)")
	serializeCmd.Flags().StringVar(&serializeSource, "source", "", "source identifier recorded in the TEI header")
	rootCmd.AddCommand(serializeCmd)
}
