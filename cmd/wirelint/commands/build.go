package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/build"
)

var buildOutDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate one manifest per workflow",
	Long: `Discovers every workflow, orders its jobs and writes one manifest file
per workflow into the output directory. Workflows whose ordering fails are
reported and skipped; the rest still build.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()
		defer store.Close()

		builder := build.NewBuilder(
			newAnalyzer(store),
			build.ManifestLoader{},
			build.JSONSerializer{},
			buildOutDir,
		)

		generated, errs := builder.Run(cmd.Context())
		for _, g := range generated {
			fmt.Println(g.Path)
		}
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if len(errs) > 0 {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", ".wirelint/out", "output directory")
}
