package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/teipress/teipress/internal/convert"
	"github.com/teipress/teipress/internal/isomorph"
)

var (
	validateOutput  string
	validatePandoc  string
	validateTidy    string
	validateTimeout time.Duration
	validateWorkers int
	validateStrict  bool
	validateWorkDir string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that HTML structure survives the round trip through TEI",
	Long: `Validate runs each HTML file through the html→tei→html double
conversion and compares structural signatures (section count, heading
sequence, reference set) of the original and derived forms. With more than
one file a batch summary is produced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		pandoc := convert.NewPandocRunner(validatePandoc, validateTimeout, log)
		checker := isomorph.NewChecker(pandoc, pandoc, log)
		checker.WorkDir = validateWorkDir
		if tidy := convert.NewTidyRunner(validateTidy, validateTimeout); tidy.Available() {
			checker.Cleanup = tidy.Normalize
		}

		items := make([]isomorph.Item, 0, len(args))
		for _, path := range args {
			data, err := readInput(path)
			if err != nil {
				return err
			}
			items = append(items, isomorph.Item{Name: path, Data: data})
		}

		var result any
		failed := false
		if len(items) == 1 {
			report := checker.Check(cmd.Context(), items[0].Name, items[0].Data)
			failed = !report.Isomorphic
			result = report
		} else {
			batch := checker.CheckAll(cmd.Context(), items, validateWorkers)
			failed = batch.IsomorphicFiles < batch.Total
			result = batch
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := writeOutput(validateOutput, append(out, '\n')); err != nil {
			return err
		}

		if validateStrict && failed {
			return fmt.Errorf("structural fidelity check failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "report file (default stdout)")
	validateCmd.Flags().StringVar(&validatePandoc, "pandoc", "pandoc", "pandoc binary")
	validateCmd.Flags().StringVar(&validateTidy, "tidy", "tidy", "tidy binary for HTML cleanup")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", convert.DefaultTimeout, "per-transform timeout")
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 4, "parallel checks in batch mode")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when any file is not isomorphic")
	validateCmd.Flags().StringVar(&validateWorkDir, "workdir", "", "keep per-run artifacts under this directory")
	rootCmd.AddCommand(validateCmd)
}
