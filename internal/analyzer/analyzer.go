// Package analyzer is the aggregation layer: it walks a directory tree,
// fans per-file scanning and linting out over a worker pool, folds
// everything into one symbol index, and runs the cross-file phase behind a
// barrier. Results come back deterministically sorted; one bad file never
// aborts the walk.
package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"wirelint/internal/cache"
	"wirelint/internal/config"
	"wirelint/internal/index"
	"wirelint/internal/jobgraph"
	"wirelint/internal/observability"
	"wirelint/internal/rules"
	"wirelint/internal/scanner"
)

type Analyzer struct {
	cfg     *config.Config
	scanner *scanner.Scanner
	engine  *rules.Engine
	store   *cache.Store // nil when caching is disabled
}

func New(cfg *config.Config, store *cache.Store) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		scanner: scanner.New(),
		engine: rules.NewEngine(rules.Options{
			MaxJobsPerFile: cfg.Lint.MaxJobsPerFile,
			Disabled:       cfg.Lint.Disabled,
		}),
		store: store,
	}
}

// DiscoveryRecord is the caller-facing shape of one discovered resource.
type DiscoveryRecord struct {
	Name   string       `json:"name"`
	Kind   scanner.Kind `json:"kind"`
	File   string       `json:"file"`
	Line   int          `json:"line"`
	Module string       `json:"module"`
}

// FileIssues groups a file's lint issues for per-file reporting.
type FileIssues struct {
	File   string        `json:"file"`
	Issues []rules.Issue `json:"issues"`
}

// WorkflowOrder is the ordering outcome for one workflow. Err is a
// *jobgraph.CycleError or *jobgraph.DanglingError when ordering failed;
// other workflows in the same run are unaffected.
type WorkflowOrder struct {
	Workflow string
	File     string
	Jobs     []string
	Err      error
}

// Result is one run's merged output. Partial results are always populated,
// failures included.
type Result struct {
	Index       *index.Index
	Discovery   []DiscoveryRecord
	Issues      []rules.Issue
	ParseErrors []scanner.ParseError
	Orders      []WorkflowOrder
}

// Failed reports whether the run as a whole should be treated as failing:
// any error-severity issue, ordering failure, or unparsable file.
func (r *Result) Failed() bool {
	if rules.HasErrors(r.Issues) || len(r.ParseErrors) > 0 {
		return true
	}
	for _, o := range r.Orders {
		if o.Err != nil {
			return true
		}
	}
	return false
}

// PerFileIssues splits the merged issue list by file, preserving order.
func (r *Result) PerFileIssues() []FileIssues {
	var out []FileIssues
	for _, issue := range r.Issues {
		if len(out) == 0 || out[len(out)-1].File != issue.File {
			out = append(out, FileIssues{File: issue.File})
		}
		last := &out[len(out)-1]
		last.Issues = append(last.Issues, issue)
	}
	return out
}

// Options select optional run phases.
type Options struct {
	// OrderJobs runs the per-workflow topological orderer after the
	// cross-file barrier.
	OrderJobs bool
}

// Run scans every matching file under the configured paths and lints the
// result set. Per-file work runs in parallel; the cross-file phase starts
// only after every file's resources have been collected.
func (a *Analyzer) Run(ctx context.Context, opts Options) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "analyzer.Run")
	defer span.End()

	started := time.Now()
	defer func() {
		observability.ScanDuration.Observe(time.Since(started).Seconds())
	}()

	files, err := a.collectFiles()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcomes, err := a.scanFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	// Barrier: every per-file result is in hand before cross-file work.
	idx := index.New()
	result := &Result{Index: idx}
	for _, outcome := range outcomes {
		if outcome.scan == nil {
			continue
		}
		idx.AddFile(outcome.scan)
		result.Issues = append(result.Issues, outcome.issues...)
	}

	_, crossSpan := observability.Tracer.Start(ctx, "analyzer.crossFile")
	result.Issues = append(result.Issues, a.engine.CheckIndex(idx)...)
	crossSpan.End()

	rules.SortIssues(result.Issues)
	result.ParseErrors = idx.ParseErrors()

	for _, res := range idx.Resources() {
		result.Discovery = append(result.Discovery, DiscoveryRecord{
			Name:   res.Name,
			Kind:   res.Kind,
			File:   res.Location.File,
			Line:   res.Location.Line,
			Module: res.Module,
		})
		observability.ResourcesDiscovered.WithLabelValues(string(res.Kind)).Inc()
	}

	for _, issue := range result.Issues {
		observability.IssuesReported.WithLabelValues(issue.RuleID).Inc()
	}

	if opts.OrderJobs {
		_, orderSpan := observability.Tracer.Start(ctx, "analyzer.orderJobs")
		for _, wf := range idx.Workflows() {
			g := jobgraph.Build(wf, idx)
			jobs, err := g.Order()
			result.Orders = append(result.Orders, WorkflowOrder{
				Workflow: wf.Name,
				File:     wf.Location.File,
				Jobs:     jobs,
				Err:      err,
			})
		}
		orderSpan.End()
	}

	a.recordRun(result, len(files))
	return result, nil
}

type fileOutcome struct {
	scan   *scanner.FileResult
	issues []rules.Issue
}

// scanFiles runs the per-file phase over a bounded worker pool. Workers
// write only their own slot, so the merge needs no locking.
func (a *Analyzer) scanFiles(ctx context.Context, files []string) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := a.cfg.Workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = a.processFile(files[i])
			}
		}()
	}

	var canceled error
feed:
	for i := range files {
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if canceled != nil {
		return nil, canceled
	}
	return outcomes, nil
}

func (a *Analyzer) processFile(path string) fileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read file", "path", path, "error", err)
		return fileOutcome{}
	}

	observability.FilesScanned.Inc()
	contentHash := cache.HashContent(content)

	var scanned *scanner.FileResult
	if a.store != nil {
		if cached, ok := a.store.Lookup(path, contentHash); ok {
			observability.CacheHits.Inc()
			scanned = cached
		} else {
			observability.CacheMisses.Inc()
		}
	}

	if scanned == nil {
		parseStart := time.Now()
		scanned, err = a.scanner.ScanFile(path, content)
		observability.FileParseDuration.Observe(time.Since(parseStart).Seconds())
		if err != nil {
			slog.Warn("failed to scan file", "path", path, "error", err)
			return fileOutcome{}
		}
		if a.store != nil {
			if err := a.store.Save(contentHash, scanned); err != nil {
				slog.Warn("failed to cache scan result", "path", path, "error", err)
			}
		}
	}

	if scanned.ParseErr != nil {
		observability.ParseFailures.Inc()
		return fileOutcome{scan: scanned}
	}

	return fileOutcome{scan: scanned, issues: a.engine.CheckFile(scanned)}
}

// collectFiles walks the configured scan paths and returns the matching
// python files in sorted order.
func (a *Analyzer) collectFiles() ([]string, error) {
	dirGlobs, err := compileGlobs(a.cfg.Exclude.Dirs)
	if err != nil {
		return nil, fmt.Errorf("exclude dirs: %w", err)
	}
	fileGlobs, err := compileGlobs(a.cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("exclude files: %w", err)
	}

	seen := make(map[string]bool)
	var files []string

	for _, root := range a.cfg.ScanPaths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root {
					for _, g := range dirGlobs {
						if g.Match(base) {
							return filepath.SkipDir
						}
					}
				}
				return nil
			}

			if !strings.HasSuffix(base, ".py") {
				return nil
			}
			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (a *Analyzer) recordRun(result *Result, fileCount int) {
	if a.store == nil {
		return
	}
	run := cache.NewRun()
	run.Files = fileCount
	run.Resources = len(result.Discovery)
	run.Issues = len(result.Issues)
	run.Errors = len(result.ParseErrors)
	for _, issue := range result.Issues {
		if issue.Severity == rules.SeverityError {
			run.Errors++
		}
	}
	if err := a.store.RecordRun(run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}
