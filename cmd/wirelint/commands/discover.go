package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/report"
)

var discoverFormat string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List discovered Workflow and Job declarations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		defer store.Close()

		result, err := newAnalyzer(store).Run(cmd.Context(), analyzer.Options{})
		if err != nil {
			return err
		}

		switch discoverFormat {
		case "json":
			if err := report.WriteJSON(os.Stdout, result); err != nil {
				return err
			}
		case "text":
			if err := report.WriteDiscovery(os.Stdout, result); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (want text or json)", discoverFormat)
		}

		if len(result.ParseErrors) > 0 {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "text", "output format: text or json")
}
