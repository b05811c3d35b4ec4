package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/report"
)

var lintFormat string

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Scan and lint workflow definitions",
	Long: `Scans the configured paths, runs every lint rule and prints the issues.
Exits non-zero when any error-severity issue or unparsable file is found.

Example:
  wirelint lint
  wirelint lint --format sarif > findings.sarif`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		defer store.Close()

		result, err := newAnalyzer(store).Run(cmd.Context(), analyzer.Options{OrderJobs: true})
		if err != nil {
			return err
		}

		switch lintFormat {
		case "json":
			if err := report.WriteJSON(os.Stdout, result); err != nil {
				return err
			}
		case "sarif":
			cwd, _ := os.Getwd()
			doc, err := report.GenerateSARIF(cwd, result.Issues)
			if err != nil {
				return err
			}
			fmt.Println(string(doc))
		case "text":
			if err := report.WriteText(os.Stdout, result); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (want text, json or sarif)", lintFormat)
		}

		if result.Failed() {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "output format: text, json or sarif")
}
