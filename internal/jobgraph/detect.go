package jobgraph

// Cycles enumerates the distinct dependency cycles in the graph. Each cycle
// is a list of job names in traversal order. Traversal starts from nodes in
// declaration order, so output is stable across runs.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	visited := make([]bool, len(g.nodes))
	onStack := make([]bool, len(g.nodes))

	// prerequisite adjacency: node -> nodes it needs
	needs := make([][]int, len(g.nodes))
	for _, e := range g.edges {
		if e.To == "" {
			continue
		}
		from := g.nodeIndex[e.From]
		needs[from] = append(needs[from], g.nodeIndex[e.To])
	}

	var walk func(curr int, path []int)
	walk = func(curr int, path []int) {
		visited[curr] = true
		onStack[curr] = true
		path = append(path, curr)

		for _, next := range needs[curr] {
			if onStack[next] {
				start := -1
				for i, n := range path {
					if n == next {
						start = i
						break
					}
				}
				if start != -1 {
					cycle := make([]string, 0, len(path)-start)
					for _, n := range path[start:] {
						cycle = append(cycle, g.nodes[n].Name)
					}
					cycles = append(cycles, cycle)
				}
			} else if !visited[next] {
				walk(next, path)
			}
		}

		onStack[curr] = false
	}

	for i := range g.nodes {
		if !visited[i] {
			walk(i, nil)
		}
	}

	return cycles
}
