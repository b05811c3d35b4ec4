package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wirelint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the enabled lint rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := rules.NewEngine(rules.Options{
			MaxJobsPerFile: cfg.Lint.MaxJobsPerFile,
			Disabled:       cfg.Lint.Disabled,
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCOPE\tDESCRIPTION")
		for _, r := range engine.FileRules() {
			fmt.Fprintf(w, "%s\tfile\t%s\n", r.ID(), r.Description())
		}
		for _, r := range engine.IndexRules() {
			fmt.Fprintf(w, "%s\tcross-file\t%s\n", r.ID(), r.Description())
		}
		return w.Flush()
	},
}
