package report

import (
	"fmt"
	"strings"
	"unicode"

	"wirelint/internal/jobgraph"
)

// MermaidGenerator renders one workflow's job graph as a Mermaid flowchart,
// suitable for embedding in markdown. Edges point from prerequisite to
// dependent, so the drawing reads in execution order.
type MermaidGenerator struct {
	graph *jobgraph.Graph
}

func NewMermaidGenerator(g *jobgraph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	nodes := m.graph.Nodes()
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	for _, e := range m.graph.Dangling() {
		names = append(names, e.Ref)
	}
	ids := makeMermaidIDs(names)

	for _, n := range nodes {
		label := n.Name
		if n.Resolved {
			label = fmt.Sprintf("%s\\n(%s)", n.Name, n.Resource.Name)
		}
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[n.Name], escapeMermaidLabel(label)))
	}

	seenDangling := make(map[string]bool)
	for _, e := range m.graph.Dangling() {
		if seenDangling[e.Ref] {
			continue
		}
		seenDangling[e.Ref] = true
		b.WriteString(fmt.Sprintf("  %s[\"%s?\"]\n", ids[e.Ref], escapeMermaidLabel(e.Ref)))
	}

	b.WriteString("\n")
	var cycleLinks, missingLinks []int
	cycleMembers := make(map[string]bool)
	for _, name := range m.graph.CycleMembers() {
		cycleMembers[name] = true
	}

	linkIndex := 0
	for _, e := range m.graph.Edges() {
		switch {
		case e.To == "":
			b.WriteString(fmt.Sprintf("  %s -.->|missing| %s\n", ids[e.Ref], ids[e.From]))
			missingLinks = append(missingLinks, linkIndex)
		case cycleMembers[e.From] && cycleMembers[e.To]:
			b.WriteString(fmt.Sprintf("  %s -->|cycle| %s\n", ids[e.To], ids[e.From]))
			cycleLinks = append(cycleLinks, linkIndex)
		default:
			b.WriteString(fmt.Sprintf("  %s --> %s\n", ids[e.To], ids[e.From]))
		}
		linkIndex++
	}

	if len(cycleMembers) > 0 {
		cycleIDs := make([]string, 0, len(cycleMembers))
		for _, n := range nodes {
			if cycleMembers[n.Name] {
				cycleIDs = append(cycleIDs, ids[n.Name])
			}
		}
		b.WriteString("\n  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
		b.WriteString("  class " + strings.Join(cycleIDs, ",") + " cycleNode;\n")
	}
	if len(seenDangling) > 0 {
		danglingIDs := make([]string, 0, len(seenDangling))
		for ref := range seenDangling {
			danglingIDs = append(danglingIDs, ids[ref])
		}
		b.WriteString("  classDef missingNode fill:#efefef,stroke:#cc0000,stroke-dasharray:4 3;\n")
		b.WriteString("  class " + strings.Join(danglingIDs, ",") + " missingNode;\n")
	}
	if len(cycleLinks) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinks)))
	}
	if len(missingLinks) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-dasharray:4 3;\n", joinInts(missingLinks)))
	}

	return b.String(), nil
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "n"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func joinInts(v []int) string {
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}
