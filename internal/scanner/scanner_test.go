package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, source string) *FileResult {
	t.Helper()
	result, err := New().ScanFile("workflows/ci.py", []byte(source))
	require.NoError(t, err)
	return result
}

func TestScanFileDiscoversTopLevelResources(t *testing.T) {
	source := `from wetwire_github import Workflow, Job

build = Job(name="build", runs_on="ubuntu-latest")
test = Job(name="test", runs_on="ubuntu-latest", needs=[build])

ci = Workflow(
    name="ci",
    on={"push": {}},
    jobs={"build": build, "test": test},
)
`
	result := scan(t, source)
	require.Nil(t, result.ParseErr)
	require.Len(t, result.Resources, 3)

	buildRes := result.Resources[0]
	assert.Equal(t, "build", buildRes.Name)
	assert.Equal(t, KindJob, buildRes.Kind)
	assert.Equal(t, "ci", buildRes.Module)
	assert.Equal(t, 3, buildRes.Location.Line)
	assert.Empty(t, buildRes.Needs)

	testRes := result.Resources[1]
	assert.Equal(t, []string{"build"}, testRes.Needs)
	assert.True(t, testRes.HasField("runs_on"))

	wf := result.Resources[2]
	assert.Equal(t, KindWorkflow, wf.Kind)
	assert.Equal(t, "ci", wf.Name)
	require.Len(t, wf.Jobs, 2)
	assert.Equal(t, JobBinding{Key: "build", Var: "build", Line: 9}, wf.Jobs[0])
	assert.Equal(t, "test", wf.Jobs[1].Key)
	assert.True(t, wf.HasField("on"))
}

func TestScanFileImportAlias(t *testing.T) {
	source := `from wetwire_github import Job as J

lint = J(name="lint")
`
	result := scan(t, source)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, KindJob, result.Resources[0].Kind)
	assert.Equal(t, "lint", result.Resources[0].Name)
}

func TestScanFileAttributeCallee(t *testing.T) {
	source := `import wetwire_github as wg

deploy = wg.Job(name="deploy")
release = wg.Workflow(name="release", on={}, jobs={})
`
	result := scan(t, source)
	require.Len(t, result.Resources, 2)
	assert.Equal(t, KindJob, result.Resources[0].Kind)
	assert.Equal(t, KindWorkflow, result.Resources[1].Kind)
}

func TestScanFileIgnoresNestedAndComputed(t *testing.T) {
	source := `from wetwire_github import Job, Workflow

def make():
    hidden = Job(name="hidden")
    return hidden

if True:
    conditional = Job(name="conditional")

jobs = [Job(name="inlist")]
not_a_resource = helper()
`
	result := scan(t, source)
	assert.Empty(t, result.Resources)
}

func TestScanFileNeedsForms(t *testing.T) {
	source := `from wetwire_github import Job

a = Job(name="a", needs="build")
b = Job(name="b", needs=build)
c = Job(name="c", needs=["build", test])
d = Job(name="d", needs=get_deps())
`
	result := scan(t, source)
	require.Len(t, result.Resources, 4)
	assert.Equal(t, []string{"build"}, result.Resources[0].Needs)
	assert.Equal(t, []string{"build"}, result.Resources[1].Needs)
	assert.Equal(t, []string{"build", "test"}, result.Resources[2].Needs)

	// Dynamic expressions stay opaque instead of being dropped.
	require.Len(t, result.Resources[3].Needs, 1)
	assert.Equal(t, "get_deps()", result.Resources[3].Needs[0])
}

func TestScanFileParseError(t *testing.T) {
	source := "x = 1\ndef broken(:\n"
	result := scan(t, source)
	require.NotNil(t, result.ParseErr)
	assert.Empty(t, result.Resources)
	assert.Equal(t, "workflows/ci.py", result.ParseErr.File)
	assert.Greater(t, result.ParseErr.Line, 0)
}

func TestScanFileSkipsNonStringJobKeys(t *testing.T) {
	source := `from wetwire_github import Workflow

wf = Workflow(name="wf", on={}, jobs={"ok": a, key_var: b, 3: c})
`
	result := scan(t, source)
	require.Len(t, result.Resources, 1)
	require.Len(t, result.Resources[0].Jobs, 1)
	assert.Equal(t, "ok", result.Resources[0].Jobs[0].Key)
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "ci", moduleName("workflows/ci.py"))
	assert.Equal(t, "deploy", moduleName("deploy.py"))
}

func TestStringLiteral(t *testing.T) {
	assert.Equal(t, "build", stringLiteral(`"build"`))
	assert.Equal(t, "build", stringLiteral(`'build'`))
	assert.Equal(t, "raw", stringLiteral(`r"raw"`))
	assert.Equal(t, "doc", stringLiteral(`"""doc"""`))
}
