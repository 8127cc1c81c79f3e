package fingerprint

// EnumeratePaths calls sink once for every simple path (no repeated
// vertices) of 1 to k vertices in g, each represented as an ordered slice
// of vertex indices. Each path is emitted exactly once, in the direction
// whose first vertex index is less than or equal to its last vertex index
// (the "forward" direction, per spec.md §4.2). Emitting both directions
// would double every bit with no benefit, since the canonical coder makes
// direction immaterial to the resulting code.
//
// Implementation is a DFS from every vertex with a visited set, pruning
// when the current path reaches k vertices, matching the guidance in
// spec.md §4.2. The sink is invoked with a slice owned by the enumerator;
// callers that need to retain a path beyond the call must copy it.
func EnumeratePaths(g Graph, k int, sink func(path []int)) {
	if k < 1 {
		return
	}
	n := g.NumVertices()
	visited := make([]bool, n)
	path := make([]int, 0, k)

	var dfs func(v int)
	dfs = func(v int) {
		path = append(path, v)
		visited[v] = true

		if path[0] <= path[len(path)-1] {
			sink(path)
		}

		if len(path) < k {
			for _, nb := range g.Neighbours(v) {
				if !visited[nb] {
					dfs(nb)
				}
			}
		}

		visited[v] = false
		path = path[:len(path)-1]
	}

	for v := 0; v < n; v++ {
		dfs(v)
	}
}
