package jobgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirelint/internal/index"
	"wirelint/internal/scanner"
)

func jobRes(name string, line int, needs ...string) scanner.Resource {
	return scanner.Resource{
		Name:      name,
		Kind:      scanner.KindJob,
		Location:  scanner.Location{File: "ci.py", Line: line, Column: 1},
		Needs:     needs,
		NeedsLine: line,
	}
}

func workflowRes(name string, keys ...string) scanner.Resource {
	wf := scanner.Resource{
		Name:     name,
		Kind:     scanner.KindWorkflow,
		Location: scanner.Location{File: "ci.py", Line: 1, Column: 1},
	}
	for i, key := range keys {
		wf.Jobs = append(wf.Jobs, scanner.JobBinding{Key: key, Var: key, Line: i + 2})
	}
	return wf
}

func indexOf(t *testing.T, resources ...scanner.Resource) *index.Index {
	t.Helper()
	idx := index.New()
	idx.AddFile(&scanner.FileResult{Path: "ci.py", Resources: resources})
	return idx
}

func TestOrderRespectsEdges(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10),
		jobRes("b", 11, "a"),
		jobRes("c", 12, "a", "b"),
	)
	g := Build(workflowRes("ci", "a", "b", "c"), idx)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestOrderDeclarationOrderBreaksTies(t *testing.T) {
	idx := indexOf(t,
		jobRes("z", 10),
		jobRes("m", 11),
		jobRes("a", 12),
		jobRes("last", 13, "z", "m", "a"),
	)
	wf := workflowRes("ci", "z", "m", "a", "last")

	for i := 0; i < 5; i++ {
		order, err := Build(wf, idx).Order()
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "m", "a", "last"}, order)
	}
}

func TestOrderReportsCycleMembers(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10, "c"),
		jobRes("b", 11, "a"),
		jobRes("c", 12, "b"),
		jobRes("free", 13),
	)
	g := Build(workflowRes("ci", "a", "b", "c", "free"), idx)

	_, err := g.Order()
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "ci", cycleErr.Workflow)
	assert.Equal(t, []string{"a", "b", "c"}, cycleErr.Members)
}

func TestCycleFailureIsolatedPerWorkflow(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10, "b"),
		jobRes("b", 11, "a"),
		jobRes("x", 12),
		jobRes("y", 13, "x"),
	)

	_, err := Build(workflowRes("broken", "a", "b"), idx).Order()
	require.Error(t, err)

	order, err := Build(workflowRes("healthy", "x", "y"), idx).Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, order)
}

func TestOrderReportsDanglingNeeds(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10),
		jobRes("b", 11, "missing"),
	)
	g := Build(workflowRes("ci", "a", "b"), idx)

	dangling := g.Dangling()
	require.Len(t, dangling, 1)
	assert.Equal(t, "b", dangling[0].From)
	assert.Equal(t, "missing", dangling[0].Ref)

	_, err := g.Order()
	var danglingErr *DanglingError
	require.ErrorAs(t, err, &danglingErr)
	assert.Equal(t, "ci", danglingErr.Workflow)
}

func TestCycleMembersIgnoresDangling(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10, "b", "missing"),
		jobRes("b", 11, "a"),
	)
	g := Build(workflowRes("ci", "a", "b"), idx)

	// Order surfaces the dangling reference first.
	_, err := g.Order()
	var danglingErr *DanglingError
	require.ErrorAs(t, err, &danglingErr)

	// The cycle is still visible over the resolved edge set.
	assert.Equal(t, []string{"a", "b"}, g.CycleMembers())
}

func TestCyclesEnumeratesDistinctPaths(t *testing.T) {
	idx := indexOf(t,
		jobRes("a", 10, "b"),
		jobRes("b", 11, "a"),
		jobRes("c", 12, "d"),
		jobRes("d", 13, "c"),
	)
	g := Build(workflowRes("ci", "a", "b", "c", "d"), idx)

	cycles := g.Cycles()
	require.Len(t, cycles, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
	assert.ElementsMatch(t, []string{"c", "d"}, cycles[1])
}

func TestNeedsResolveAgainstVarNames(t *testing.T) {
	idx := index.New()
	idx.AddFile(&scanner.FileResult{Path: "ci.py", Resources: []scanner.Resource{
		jobRes("build_job", 10),
		jobRes("test_job", 11, "build_job"),
	}})

	wf := scanner.Resource{
		Name:     "ci",
		Kind:     scanner.KindWorkflow,
		Location: scanner.Location{File: "ci.py", Line: 1, Column: 1},
		Jobs: []scanner.JobBinding{
			{Key: "build", Var: "build_job", Line: 2},
			{Key: "test", Var: "test_job", Line: 3},
		},
	}
	g := Build(wf, idx)

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "test", edges[0].From)
	assert.Equal(t, "build", edges[0].To)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "test"}, order)
}

func TestUnresolvedBindingStaysUnresolved(t *testing.T) {
	idx := indexOf(t, jobRes("known", 10))
	wf := scanner.Resource{
		Name: "ci",
		Kind: scanner.KindWorkflow,
		Jobs: []scanner.JobBinding{
			{Key: "known", Var: "known", Line: 2},
			{Key: "ghost", Var: "ghost_job", Line: 3},
		},
	}
	g := Build(wf, idx)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].Resolved)
	assert.False(t, nodes[1].Resolved)

	// Unresolved nodes still participate in ordering.
	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"known", "ghost"}, order)
}
