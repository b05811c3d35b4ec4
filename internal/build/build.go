// Package build turns discovered workflows into generated output files.
// Discovery and ordering are static; actual materialization of resource
// values is behind the Loader interface so callers can plug in their own
// evaluation strategy without this package ever executing scanned code.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wirelint/internal/analyzer"
	"wirelint/internal/index"
	"wirelint/internal/jobgraph"
	"wirelint/internal/scanner"
)

// Loader materializes one workflow's resource graph from its declaration.
type Loader interface {
	Load(ctx context.Context, wf scanner.Resource, g *jobgraph.Graph) (any, error)
}

// Serializer persists a loaded workflow. Jobs arrive exactly in orderer
// output order.
type Serializer interface {
	Extension() string
	Serialize(wf scanner.Resource, orderedJobs []string, loaded any) ([]byte, error)
}

// GeneratedFile records one written output.
type GeneratedFile struct {
	Workflow string
	Path     string
}

type Builder struct {
	analyzer   *analyzer.Analyzer
	loader     Loader
	serializer Serializer
	outputDir  string
}

func NewBuilder(a *analyzer.Analyzer, loader Loader, serializer Serializer, outputDir string) *Builder {
	return &Builder{analyzer: a, loader: loader, serializer: serializer, outputDir: outputDir}
}

// Run discovers workflows, orders each one's jobs, loads and serializes
// them into the output directory. A workflow whose ordering fails is
// skipped with an error entry; the rest still build.
func (b *Builder) Run(ctx context.Context) ([]GeneratedFile, []error) {
	result, err := b.analyzer.Run(ctx, analyzer.Options{})
	if err != nil {
		return nil, []error{err}
	}

	workflows := result.Index.Workflows()
	if len(workflows) == 0 {
		return nil, []error{fmt.Errorf("no workflows found")}
	}

	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return nil, []error{fmt.Errorf("create output directory %q: %w", b.outputDir, err)}
	}

	var generated []GeneratedFile
	var errs []error
	for _, wf := range workflows {
		file, err := b.buildWorkflow(ctx, wf, result.Index)
		if err != nil {
			errs = append(errs, fmt.Errorf("workflow %q: %w", wf.Name, err))
			continue
		}
		generated = append(generated, file)
	}
	return generated, errs
}

func (b *Builder) buildWorkflow(ctx context.Context, wf scanner.Resource, idx *index.Index) (GeneratedFile, error) {
	g := jobgraph.Build(wf, idx)
	ordered, err := g.Order()
	if err != nil {
		return GeneratedFile{}, err
	}

	loaded, err := b.loader.Load(ctx, wf, g)
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("load: %w", err)
	}

	content, err := b.serializer.Serialize(wf, ordered, loaded)
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("serialize: %w", err)
	}

	name := SanitizeFilename(wf.Name)
	path := filepath.Join(b.outputDir, name+b.serializer.Extension())
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return GeneratedFile{}, fmt.Errorf("write %q: %w", path, err)
	}

	slog.Info("generated workflow output", "workflow", wf.Name, "path", path)
	return GeneratedFile{Workflow: wf.Name, Path: path}, nil
}

// SanitizeFilename converts a workflow name into a safe lowercase filename
// stem: separators become hyphens, everything non-alphanumeric is dropped,
// hyphen runs collapse.
func SanitizeFilename(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		return "workflow"
	}
	return s
}
