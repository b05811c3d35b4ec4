package commands

import (
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/report"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print each workflow's jobs in dependency order",
	Long: `Resolves every workflow's job graph and prints the topological order.
Cycles and unresolved needs references fail only the workflow they belong
to; the command exits non-zero if any workflow failed to order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		defer store.Close()

		result, err := newAnalyzer(store).Run(cmd.Context(), analyzer.Options{OrderJobs: true})
		if err != nil {
			return err
		}

		if err := report.WriteOrders(os.Stdout, result.Orders); err != nil {
			return err
		}

		for _, o := range result.Orders {
			if o.Err != nil {
				return errRunFailed
			}
		}
		if len(result.ParseErrors) > 0 {
			return errRunFailed
		}
		return nil
	},
}
