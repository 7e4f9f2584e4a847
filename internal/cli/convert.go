package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/teipress/teipress/internal/convert"
)

var (
	convertFrom    string
	convertTo      string
	convertOutput  string
	convertPandoc  string
	convertTimeout time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a document between formats",
	Long: `Convert a document between formats using pandoc. The markdown to
html direction falls back to an in-process renderer when pandoc is not
installed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}

		log := newLogger()
		from := convert.Format(convertFrom)
		to := convert.Format(convertTo)

		var transformer convert.Transformer
		pandoc := convert.NewPandocRunner(convertPandoc, convertTimeout, log)
		switch {
		case pandoc.Available():
			transformer = pandoc
		case from == convert.FormatMarkdown && to == convert.FormatHTML:
			log.Debug("pandoc not found, using in-process markdown renderer")
			transformer = convert.NewMarkdownHTML()
		default:
			return fmt.Errorf("pandoc is required for %s->%s conversion", from, to)
		}

		out, err := transformer.Transform(cmd.Context(), data, from, to)
		if err != nil {
			return err
		}
		return writeOutput(convertOutput, out)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "markdown", "source format")
	convertCmd.Flags().StringVar(&convertTo, "to", "html", "target format")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&convertPandoc, "pandoc", "pandoc", "pandoc binary")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", convert.DefaultTimeout, "per-conversion timeout")
	rootCmd.AddCommand(convertCmd)
}
