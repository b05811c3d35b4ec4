// Package jobgraph builds per-workflow dependency graphs from discovered
// resources and orders jobs so that every prerequisite precedes its
// dependents. Graphs are plain index-addressed adjacency structures, so
// cycle reporting can enumerate a finite node set without traversal hazards.
package jobgraph

import (
	"fmt"
	"strings"

	"wirelint/internal/index"
	"wirelint/internal/scanner"
)

// Node is one job of a workflow. Name is the job key from the workflow's
// jobs mapping; Resource is the resolved Job declaration when the binding
// variable could be resolved in the scanned file set.
type Node struct {
	Name     string
	Order    int // position in the jobs mapping, the deterministic tie-break
	Resource scanner.Resource
	Resolved bool
}

// Edge is one needs reference. Ref is the opaque reference text as written;
// To is the node it resolved to, empty if the reference is dangling.
type Edge struct {
	From     string
	Ref      string
	To       string
	Location scanner.Location
}

type Graph struct {
	Workflow scanner.Resource

	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
}

// CycleError reports that a workflow's job graph is not a DAG. Members is
// every job left on the unresolved node set, in declaration order, not just
// one representative.
type CycleError struct {
	Workflow string
	Members  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("workflow %q has a dependency cycle involving: %s",
		e.Workflow, strings.Join(e.Members, ", "))
}

// DanglingError reports needs references that do not resolve within the
// workflow's job set.
type DanglingError struct {
	Workflow string
	Edges    []Edge
}

func (e *DanglingError) Error() string {
	refs := make([]string, len(e.Edges))
	for i, edge := range e.Edges {
		refs[i] = fmt.Sprintf("%s -> %q", edge.From, edge.Ref)
	}
	return fmt.Sprintf("workflow %q has unresolved needs references: %s",
		e.Workflow, strings.Join(refs, ", "))
}

// Build constructs the job graph for one discovered workflow. Needs
// references resolve against job keys first, then against the variable
// names bound in the jobs mapping. Unresolved references are kept as
// dangling edges, never silently dropped.
func Build(wf scanner.Resource, idx *index.Index) *Graph {
	g := &Graph{
		Workflow:  wf,
		nodeIndex: make(map[string]int),
	}

	varToKey := make(map[string]string, len(wf.Jobs))
	for _, binding := range wf.Jobs {
		if _, dup := g.nodeIndex[binding.Key]; dup {
			continue
		}
		node := Node{Name: binding.Key, Order: len(g.nodes)}
		if binding.Var != "" {
			if res, ok := idx.LookupJob(binding.Var); ok {
				node.Resource = res
				node.Resolved = true
			}
			varToKey[binding.Var] = binding.Key
		}
		g.nodeIndex[binding.Key] = len(g.nodes)
		g.nodes = append(g.nodes, node)
	}

	for _, node := range g.nodes {
		if !node.Resolved {
			continue
		}
		loc := node.Resource.Location
		if node.Resource.NeedsLine > 0 {
			loc.Line = node.Resource.NeedsLine
		}
		for _, ref := range node.Resource.Needs {
			edge := Edge{From: node.Name, Ref: ref, Location: loc}
			if _, ok := g.nodeIndex[ref]; ok {
				edge.To = ref
			} else if key, ok := varToKey[ref]; ok {
				edge.To = key
			}
			g.edges = append(g.edges, edge)
		}
	}

	return g
}

// Nodes returns the graph's nodes in declaration order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns every needs edge, dangling ones included.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Dangling returns the edges whose reference did not resolve to any node.
func (g *Graph) Dangling() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == "" {
			out = append(out, e)
		}
	}
	return out
}

// Order returns the workflow's job names in a dependency-respecting,
// deterministic sequence (Kahn's method; declaration order breaks ties among
// simultaneously-ready nodes). It fails with a DanglingError if any needs
// reference is unresolved, or a CycleError naming every job on the cyclic
// remainder.
func (g *Graph) Order() ([]string, error) {
	if dangling := g.Dangling(); len(dangling) > 0 {
		return nil, &DanglingError{Workflow: g.Workflow.Name, Edges: dangling}
	}

	order, remaining := g.kahn()
	if len(remaining) > 0 {
		return nil, &CycleError{Workflow: g.Workflow.Name, Members: remaining}
	}
	return order, nil
}

// CycleMembers returns every job left unresolved by Kahn's method over the
// resolved edge set, in declaration order. Empty when the graph is a DAG.
// Dangling edges are ignored here so cycles are still reported when both
// defects are present.
func (g *Graph) CycleMembers() []string {
	_, remaining := g.kahn()
	return remaining
}

func (g *Graph) kahn() (order, remaining []string) {
	inDegree := make([]int, len(g.nodes))
	dependents := make([][]int, len(g.nodes))
	for _, e := range g.edges {
		if e.To == "" {
			continue
		}
		from := g.nodeIndex[e.From] // the dependent job
		to := g.nodeIndex[e.To]     // its prerequisite
		inDegree[from]++
		dependents[to] = append(dependents[to], from)
	}

	// Ready set kept sorted by declaration order; nodes enter it the moment
	// their in-degree reaches zero.
	var ready []int
	insert := func(i int) {
		pos := len(ready)
		for pos > 0 && g.nodes[ready[pos-1]].Order > g.nodes[i].Order {
			pos--
		}
		ready = append(ready, 0)
		copy(ready[pos+1:], ready[pos:])
		ready[pos] = i
	}
	for i := range g.nodes {
		if inDegree[i] == 0 {
			insert(i)
		}
	}

	order = make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, g.nodes[i].Name)
		for _, dep := range dependents[i] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				insert(dep)
			}
		}
	}

	for i, node := range g.nodes {
		if inDegree[i] > 0 {
			remaining = append(remaining, node.Name)
		}
	}
	return order, remaining
}
