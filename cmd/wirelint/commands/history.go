package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scan runs recorded in the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		if store == nil {
			return fmt.Errorf("run history requires the cache (remove --no-cache or enable it in config)")
		}
		defer store.Close()

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("read run history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tFILES\tRESOURCES\tISSUES\tERRORS\tRUN")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
				run.StartedAt.Local().Format(time.DateTime),
				run.Files, run.Resources, run.Issues, run.Errors, run.ID)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to show")
}
