package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirelint/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wirelint version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wirelint %s\n", version.Version)
	},
}
