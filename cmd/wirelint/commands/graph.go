package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/jobgraph"
	"wirelint/internal/report"
)

var (
	graphFormat   string
	graphWorkflow string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render workflow job graphs as DOT or Mermaid",
	Long: `Renders each workflow's job dependency graph. Cycle members and dangling
references are highlighted.

Example:
  wirelint graph --format dot | dot -Tsvg > jobs.svg
  wirelint graph --format mermaid --workflow ci`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		defer store.Close()

		result, err := newAnalyzer(store).Run(cmd.Context(), analyzer.Options{})
		if err != nil {
			return err
		}

		rendered := 0
		for _, wf := range result.Index.Workflows() {
			if graphWorkflow != "" && wf.Name != graphWorkflow {
				continue
			}
			g := jobgraph.Build(wf, result.Index)

			var out string
			switch graphFormat {
			case "dot":
				out, err = report.NewDOTGenerator(g).Generate()
			case "mermaid":
				out, err = report.NewMermaidGenerator(g).Generate()
			default:
				return fmt.Errorf("unknown format %q (want dot or mermaid)", graphFormat)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, out)
			rendered++
		}

		if graphWorkflow != "" && rendered == 0 {
			return fmt.Errorf("no workflow named %q found", graphWorkflow)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "dot", "output format: dot or mermaid")
	graphCmd.Flags().StringVarP(&graphWorkflow, "workflow", "w", "", "render only the named workflow")
}
