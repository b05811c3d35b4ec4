// Package commands wires the CLI surface: lint, discover, order, graph,
// build, watch, history, rules and version subcommands over the shared
// analyzer.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/cache"
	"wirelint/internal/config"
)

var (
	cfgFile  string
	verbose  bool
	noCache  bool
	maxJobs  int
	scanPath string

	cfg *config.Config
)

// errRunFailed marks a run that completed but found error-severity
// problems. It maps to exit code 1 without a usage dump.
var errRunFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "wirelint",
	Short: "Static analysis for declarative workflow definitions",
	Long: `wirelint scans Python source trees for Workflow and Job declarations
without executing any code, resolves job dependency graphs, orders jobs
topologically and lints the result set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig()
	},
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default wirelint.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the discovery cache")
	rootCmd.PersistentFlags().IntVar(&maxJobs, "max-jobs", 0, "override max jobs per file")
	rootCmd.PersistentFlags().StringVarP(&scanPath, "path", "p", "", "scan path (overrides config scan_paths)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func loadConfig() error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("wirelint.toml"); err == nil {
			path = "wirelint.toml"
		}
	}

	if path == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config %q: %w", path, err)
		}
		cfg = loaded
		slog.Debug("loaded config", "path", path)
	}

	if scanPath != "" {
		cfg.ScanPaths = []string{scanPath}
	}
	if maxJobs > 0 {
		cfg.Lint.MaxJobsPerFile = maxJobs
	}
	return nil
}

// openStore returns the discovery cache, or nil when caching is off.
func openStore() *cache.Store {
	if noCache || !cfg.Cache.Enabled {
		return nil
	}
	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		slog.Warn("cache unavailable, continuing without it", "error", err)
		return nil
	}
	return store
}

func newAnalyzer(store *cache.Store) *analyzer.Analyzer {
	return analyzer.New(cfg, store)
}
