package fingerprint

import "sort"

// EnumerateSubgraphs calls sink once for every connected induced subgraph
// of g with 1 to k vertices. When trees is false (the "subgraphs" mode)
// the emitted Subgraph carries the full induced edge set. When trees is
// true (the "tree" mode) every distinct spanning tree of each connected
// vertex subset is emitted as its own Subgraph, sharing the vertex set but
// carrying only a spanning-tree edge subset (spec.md §4.3).
//
// Vertex-subset generation follows the ESU (enumerate subgraphs) scheme:
// each subset is grown from a root vertex v by only ever adding neighbours
// whose index is greater than v, using the *exclusive* neighbourhood of
// newly added vertices as the next extension frontier. This produces every
// connected vertex subset exactly once, with no duplicate-set bookkeeping
// required.
func EnumerateSubgraphs(g Graph, k int, trees bool, sink func(Subgraph)) {
	if k < 1 {
		return
	}
	n := g.NumVertices()
	for v := 0; v < n; v++ {
		ext := make(map[int]bool)
		for _, u := range g.Neighbours(v) {
			if u > v {
				ext[u] = true
			}
		}
		extendSubgraph(g, []int{v}, ext, v, k, trees, sink)
	}
}

// extendSubgraph implements one step of the ESU recursion. vertices is the
// current connected vertex subset (root v is its minimum element);
// extension is the candidate set of vertices that may still be added.
func extendSubgraph(g Graph, vertices []int, extension map[int]bool, root, k int, trees bool, sink func(Subgraph)) {
	emit(g, vertices, trees, sink)

	if len(vertices) == k || len(extension) == 0 {
		return
	}

	// Snapshot the extension candidates: we remove-and-branch over each one,
	// matching ESU's "remove arbitrary w from V_extension" loop.
	candidates := make([]int, 0, len(extension))
	for w := range extension {
		candidates = append(candidates, w)
	}
	sort.Ints(candidates)

	// closed is the current subset together with its neighbourhood: a
	// neighbour of w already in closed is reachable from another branch.
	closed := make(map[int]bool, len(vertices)*3)
	for _, x := range vertices {
		closed[x] = true
		for _, u := range g.Neighbours(x) {
			closed[u] = true
		}
	}

	remaining := make(map[int]bool, len(extension))
	for w := range extension {
		remaining[w] = true
	}

	for _, w := range candidates {
		delete(remaining, w)

		nextVertices := append(append([]int{}, vertices...), w)

		nextExtension := make(map[int]bool, len(remaining))
		for x := range remaining {
			nextExtension[x] = true
		}
		for _, u := range exclusiveNeighbours(g, w, closed) {
			if u > root {
				nextExtension[u] = true
			}
		}

		extendSubgraph(g, nextVertices, nextExtension, root, k, trees, sink)
	}
}

// exclusiveNeighbours returns the neighbours of w that are not members of
// closed (the current subset and its neighbourhood).
func exclusiveNeighbours(g Graph, w int, closed map[int]bool) []int {
	var out []int
	for _, u := range g.Neighbours(w) {
		if !closed[u] {
			out = append(out, u)
		}
	}
	return out
}

// emit materialises a Subgraph (or, in tree mode, every spanning tree of
// one) over the given vertex set and hands it to sink.
func emit(g Graph, vertices []int, trees bool, sink func(Subgraph)) {
	sorted := append([]int{}, vertices...)
	sort.Ints(sorted)

	inSet := make(map[int]bool, len(sorted))
	for _, v := range sorted {
		inSet[v] = true
	}
	inducedEdges := inducedEdgeSet(g, sorted, inSet)

	if !trees {
		sink(NewSubgraph(g, sorted, inducedEdges))
		return
	}

	if len(sorted) <= 1 {
		sink(NewSubgraph(g, sorted, nil))
		return
	}

	for _, treeEdges := range spanningTrees(g, sorted, inducedEdges) {
		sink(NewSubgraph(g, sorted, treeEdges))
	}
}

// inducedEdgeSet returns, in ascending edge-index order, every edge of g
// whose both endpoints lie in vertices.
func inducedEdgeSet(g Graph, vertices []int, inSet map[int]bool) []int {
	seen := make(map[int]bool)
	var edges []int
	for _, v := range vertices {
		for _, u := range g.Neighbours(v) {
			if !inSet[u] {
				continue
			}
			e, ok := g.EdgeBetween(v, u)
			if !ok || seen[e] {
				continue
			}
			seen[e] = true
			edges = append(edges, e)
		}
	}
	sort.Ints(edges)
	return edges
}

// spanningTrees enumerates every distinct spanning tree (an (n-1)-edge
// acyclic connected edge subset) of the induced subgraph over vertices,
// given its full induced edge list. n small (k is bounded) so brute-force
// combination enumeration with a connectivity check is fast enough.
func spanningTrees(g Graph, vertices []int, inducedEdges []int) [][]int {
	need := len(vertices) - 1
	if need == 0 {
		return [][]int{nil}
	}
	if len(inducedEdges) < need {
		return nil
	}

	var result [][]int
	combo := make([]int, need)
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == need {
			if isSpanningTree(g, vertices, combo) {
				result = append(result, append([]int{}, combo...))
			}
			return
		}
		for i := start; i <= len(inducedEdges)-(need-depth); i++ {
			combo[depth] = inducedEdges[i]
			choose(i+1, depth+1)
		}
	}
	choose(0, 0)
	return result
}

// isSpanningTree reports whether the given edge subset (exactly
// len(vertices)-1 edges, by construction) connects every vertex.
func isSpanningTree(g Graph, vertices []int, edges []int) bool {
	adj := make(map[int][]int, len(vertices))
	for _, e := range edges {
		u, v := g.EdgeEndpoints(e)
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}
	start := vertices[0]
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen) == len(vertices)
}
