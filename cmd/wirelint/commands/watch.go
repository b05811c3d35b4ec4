package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wirelint/internal/analyzer"
	"wirelint/internal/observability"
	"wirelint/internal/report"
	"wirelint/internal/tui"
	"wirelint/internal/watcher"
)

var watchUseTUI bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan and relint on file changes",
	Long: `Watches the scan paths and reruns the full analysis whenever python
files change. Events are debounced and rescans are rate limited. With
--tui the results are shown in an interactive terminal browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := observability.SetupTracing(ctx)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}
		defer shutdownTracing(context.Background())

		if cfg.Metrics.Addr != "" {
			srv := observability.NewServer(cfg.Metrics.Addr)
			srv.Start()
			defer srv.Stop(context.Background())
		}

		store := openStore()
		defer store.Close()
		a := newAnalyzer(store)

		// A full rescan covers any batch, so pending triggers collapse into
		// one slot.
		rescans := make(chan struct{}, 1)
		trigger := func(paths []string) {
			slog.Debug("files changed", "count", len(paths))
			select {
			case rescans <- struct{}{}:
			default:
			}
		}

		w, err := watcher.NewWatcher(cfg.Watch.Debounce(), cfg.Exclude.Dirs, cfg.Exclude.Files, trigger)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Close()

		if err := w.Watch(cfg.ScanPaths); err != nil {
			return fmt.Errorf("watch paths: %w", err)
		}

		limiter := watcher.NewRescanLimiter(cfg.Watch.RescanPerSecond, cfg.Watch.RescanBurst)

		if watchUseTUI {
			err = runWatchTUI(ctx, a, limiter, rescans)
		} else {
			err = runWatchText(ctx, a, limiter, rescans)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchUseTUI, "tui", false, "interactive terminal browser")
}

func runWatchText(ctx context.Context, a *analyzer.Analyzer, limiter *watcher.RescanLimiter, rescans <-chan struct{}) error {
	emit := func(result *analyzer.Result) {
		if err := report.WriteText(os.Stdout, result); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	}
	return watchLoop(ctx, a, limiter, rescans, emit)
}

func runWatchTUI(ctx context.Context, a *analyzer.Analyzer, limiter *watcher.RescanLimiter, rescans <-chan struct{}) error {
	prog := tui.NewProgram()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := watchLoop(loopCtx, a, limiter, rescans, prog.Push); err != nil && loopCtx.Err() == nil {
			slog.Error("watch loop failed", "error", err)
		}
		prog.Quit()
	}()

	return prog.Run()
}

// watchLoop runs one analysis immediately, then again for every rescan
// trigger, pacing runs through the limiter.
func watchLoop(ctx context.Context, a *analyzer.Analyzer, limiter *watcher.RescanLimiter, rescans <-chan struct{}, emit func(*analyzer.Result)) error {
	runOnce := func() error {
		result, err := a.Run(ctx, analyzer.Options{OrderJobs: true})
		if err != nil {
			return err
		}
		emit(result)
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rescans:
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			if err := runOnce(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Error("rescan failed", "error", err)
			}
		}
	}
}
