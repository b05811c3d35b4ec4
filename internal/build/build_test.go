package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirelint/internal/analyzer"
	"wirelint/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"CI Pipeline":     "ci-pipeline",
		"deploy_to_prod":  "deploy-to-prod",
		"Release!! v2.0":  "release-v20",
		"--weird--name--": "weird-name",
		"":                "workflow",
		"!!!":             "workflow",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuilderGeneratesOrderedManifests(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeSource(t, srcDir, "ci.py", `from wetwire_github import Workflow, Job

test = Job(name="test", needs=[build])
build = Job(name="build")

ci = Workflow(name="CI Pipeline", on={"push": {}}, jobs={"test": test, "build": build})
`)

	cfg := config.Default()
	cfg.ScanPaths = []string{srcDir}
	builder := NewBuilder(analyzer.New(cfg, nil), ManifestLoader{}, JSONSerializer{}, outDir)

	generated, errs := builder.Run(context.Background())
	require.Empty(t, errs)
	require.Len(t, generated, 1)
	assert.Equal(t, filepath.Join(outDir, "ci-pipeline.json"), generated[0].Path)

	data, err := os.ReadFile(generated[0].Path)
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "CI Pipeline", m.Workflow)
	require.Len(t, m.Jobs, 2)

	// Jobs come out in dependency order even though "test" is declared first.
	assert.Equal(t, "build", m.Jobs[0].Key)
	assert.Equal(t, "test", m.Jobs[1].Key)
	assert.Equal(t, []string{"build"}, m.Jobs[1].Needs)
}

func TestBuilderIsolatesBrokenWorkflows(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeSource(t, srcDir, "flows.py", `from wetwire_github import Workflow, Job

a = Job(name="a", needs=[b])
b = Job(name="b", needs=[a])
solo = Job(name="solo")

broken = Workflow(name="broken", on={}, jobs={"a": a, "b": b})
healthy = Workflow(name="healthy", on={}, jobs={"solo": solo})
`)

	cfg := config.Default()
	cfg.ScanPaths = []string{srcDir}
	builder := NewBuilder(analyzer.New(cfg, nil), ManifestLoader{}, JSONSerializer{}, outDir)

	generated, errs := builder.Run(context.Background())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken")

	require.Len(t, generated, 1)
	assert.Equal(t, "healthy", generated[0].Workflow)
}

func TestBuilderFailsWithoutWorkflows(t *testing.T) {
	srcDir := t.TempDir()
	writeSource(t, srcDir, "jobs.py", `from wetwire_github import Job

only = Job(name="only")
`)

	cfg := config.Default()
	cfg.ScanPaths = []string{srcDir}
	builder := NewBuilder(analyzer.New(cfg, nil), ManifestLoader{}, JSONSerializer{}, t.TempDir())

	generated, errs := builder.Run(context.Background())
	assert.Empty(t, generated)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no workflows found")
}
