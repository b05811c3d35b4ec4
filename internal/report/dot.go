package report

import (
	"fmt"
	"strings"

	"wirelint/internal/jobgraph"
)

// DOTGenerator renders one workflow's job graph as Graphviz DOT. Cycle
// members and edges are highlighted; dangling references appear as dashed
// placeholder nodes so broken graphs are still drawable.
type DOTGenerator struct {
	graph *jobgraph.Graph
}

func NewDOTGenerator(g *jobgraph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph jobs {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString(fmt.Sprintf("  label=%q;\n", d.graph.Workflow.Name))
	buf.WriteString("  labelloc=t;\n\n")

	cycleMembers := make(map[string]bool)
	for _, name := range d.graph.CycleMembers() {
		cycleMembers[name] = true
	}
	cycleEdges := cycleEdgeSet(d.graph, cycleMembers)

	for _, node := range d.graph.Nodes() {
		label := node.Name
		if node.Resolved {
			label = fmt.Sprintf("%s\\n(%s)", node.Name, node.Resource.Name)
		}
		switch {
		case cycleMembers[node.Name]:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", node.Name, label))
		case !node.Resolved:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"gainsboro\", style=\"rounded,filled\", color=\"grey\"];\n", node.Name, label))
		default:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", node.Name, label))
		}
	}

	danglingTargets := make(map[string]bool)
	for _, e := range d.graph.Dangling() {
		if !danglingTargets[e.Ref] {
			danglingTargets[e.Ref] = true
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s?\", style=\"rounded,dashed\", color=\"red\", fontcolor=\"red\"];\n", e.Ref, e.Ref))
		}
	}
	buf.WriteString("\n")

	for _, e := range d.graph.Edges() {
		switch {
		case e.To == "":
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", style=dashed, label=\"MISSING\"];\n", e.Ref, e.From))
		case cycleEdges[e.To+"->"+e.From]:
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", e.To, e.From))
		default:
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.8];\n", e.To, e.From))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// cycleEdgeSet marks prerequisite-to-dependent edges where both ends sit on
// the cyclic remainder.
func cycleEdgeSet(g *jobgraph.Graph, members map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, e := range g.Edges() {
		if e.To != "" && members[e.From] && members[e.To] {
			out[e.To+"->"+e.From] = true
		}
	}
	return out
}
