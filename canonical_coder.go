package fingerprint

import "sort"

// CanonicalCode is the ordered integer sequence produced by CanonicalCoder:
// first the per-vertex invariants in rank order, then one triple
// (rankU, rankV, edgeLabel) per edge of the subgraph, ascending by
// (min(rankU, rankV), max(rankU, rankV)).
type CanonicalCode []uint64

// Compare returns -1, 0, or 1 as c is lexicographically less than, equal
// to, or greater than other. Codes being compared are always the same
// length (same subgraph size), but Compare tolerates differing lengths by
// treating a shorter code as smaller when it is a strict prefix.
func (c CanonicalCode) Compare(other CanonicalCode) int {
	n := len(c)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if c[i] < other[i] {
			return -1
		}
		if c[i] > other[i] {
			return 1
		}
	}
	switch {
	case len(c) < len(other):
		return -1
	case len(c) > len(other):
		return 1
	default:
		return 0
	}
}

// Canonicalize computes the lexicographically minimum CanonicalCode for s
// over all vertex orderings consistent with the supplied invariant, and
// the labelling (vertex -> rank) that realises it.
//
// Algorithm (spec.md §4.5):
//  1. Partition vertices by invariant class; candidate roots are the class
//     with the minimum invariant value.
//  2. For each candidate root, DFS the subgraph assigning ranks 0, 1, ...;
//     at every branch, order children by invariant and try each minimal
//     candidate in turn, backtracking (via prefix comparison against the
//     best complete code found so far) once a partial code can no longer
//     beat it.
//  3. The code records invariant(rank0..rankN-1) then every edge closure
//     (rankU, rankV, edgeLabel) in ascending (min, max) order.
//
// Two isomorphic subgraphs with the same initial vertex invariant always
// return identical codes.
func Canonicalize(s Subgraph, invariant map[int]uint64) (CanonicalCode, map[int]int) {
	if len(s.Vertices) == 0 {
		return CanonicalCode{}, map[int]int{}
	}

	neighbours := subgraphNeighbours(s)
	roots := minInvariantVertices(s.Vertices, invariant)

	var best CanonicalCode
	var bestLabeling map[int]int

	for _, root := range roots {
		ranked := make([]int, 0, len(s.Vertices))
		ranked = append(ranked, root)
		rankOf := map[int]int{root: 0}
		frontier := frontierOf(neighbours[root], rankOf)

		searchRanking(s, invariant, neighbours, ranked, rankOf, frontier, &best, &bestLabeling)
	}

	return best, bestLabeling
}

// minInvariantVertices returns every vertex whose invariant equals the
// minimum invariant value present, ascending by vertex index (index order
// only affects the order candidate roots are tried in, never the result,
// since the minimum complete code over all roots is kept regardless).
func minInvariantVertices(vertices []int, invariant map[int]uint64) []int {
	minVal := invariant[vertices[0]]
	for _, v := range vertices {
		if invariant[v] < minVal {
			minVal = invariant[v]
		}
	}
	var out []int
	for _, v := range vertices {
		if invariant[v] == minVal {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func frontierOf(neighbours []int, rankOf map[int]int) map[int]bool {
	f := make(map[int]bool, len(neighbours))
	for _, n := range neighbours {
		if _, ranked := rankOf[n]; !ranked {
			f[n] = true
		}
	}
	return f
}

// searchRanking performs the branch-and-bound DFS described above,
// updating *best/*bestLabeling whenever a complete ranking produces a code
// smaller than the current best.
func searchRanking(
	s Subgraph,
	invariant map[int]uint64,
	neighbours map[int][]int,
	ranked []int,
	rankOf map[int]int,
	frontier map[int]bool,
	best *CanonicalCode,
	bestLabeling *map[int]int,
) {
	if len(ranked) == len(s.Vertices) {
		code := buildCode(s, invariant, rankOf)
		if *best == nil || code.Compare(*best) < 0 {
			*best = code
			labeling := make(map[int]int, len(rankOf))
			for k, v := range rankOf {
				labeling[k] = v
			}
			*bestLabeling = labeling
		}
		return
	}

	if *best != nil {
		prefix := invariantPrefix(ranked, invariant)
		if CanonicalCode(prefix).Compare((*best)[:len(prefix)]) > 0 {
			return
		}
	}

	if len(frontier) == 0 {
		// Disconnected remainder should never happen for a valid connected
		// Subgraph, but guard rather than infinite-loop.
		return
	}

	candidates := minInvariantFrontier(frontier, invariant)
	for _, w := range candidates {
		nextRanked := append(append([]int{}, ranked...), w)
		nextRankOf := make(map[int]int, len(rankOf)+1)
		for k, v := range rankOf {
			nextRankOf[k] = v
		}
		nextRankOf[w] = len(ranked)

		nextFrontier := make(map[int]bool, len(frontier)+len(neighbours[w]))
		for f := range frontier {
			if f != w {
				nextFrontier[f] = true
			}
		}
		for _, n := range neighbours[w] {
			if _, already := nextRankOf[n]; !already {
				nextFrontier[n] = true
			}
		}

		searchRanking(s, invariant, neighbours, nextRanked, nextRankOf, nextFrontier, best, bestLabeling)
	}
}

func minInvariantFrontier(frontier map[int]bool, invariant map[int]uint64) []int {
	var minVal uint64
	first := true
	for v := range frontier {
		if first || invariant[v] < minVal {
			minVal = invariant[v]
			first = false
		}
	}
	var out []int
	for v := range frontier {
		if invariant[v] == minVal {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func invariantPrefix(ranked []int, invariant map[int]uint64) []uint64 {
	out := make([]uint64, len(ranked))
	for i, v := range ranked {
		out[i] = invariant[v]
	}
	return out
}

// buildCode assembles the full CanonicalCode for a complete ranking:
// invariants in rank order, followed by edge closures sorted ascending by
// (min(rankU, rankV), max(rankU, rankV), edgeLabel).
func buildCode(s Subgraph, invariant map[int]uint64, rankOf map[int]int) CanonicalCode {
	n := len(s.Vertices)
	rankToVertex := make([]int, n)
	for v, r := range rankOf {
		rankToVertex[r] = v
	}

	code := make(CanonicalCode, 0, n+3*len(s.Edges))
	for _, v := range rankToVertex {
		code = append(code, invariant[v])
	}

	type closure struct{ lo, hi, label uint64 }
	closures := make([]closure, 0, len(s.Edges))
	for _, e := range s.Edges {
		u, v := s.Graph.EdgeEndpoints(e)
		ru, rv := uint64(rankOf[u]), uint64(rankOf[v])
		lo, hi := ru, rv
		if lo > hi {
			lo, hi = hi, lo
		}
		closures = append(closures, closure{lo, hi, encodeEdgeAttr(s.Graph.EdgeAttr(e))})
	}
	sort.Slice(closures, func(i, j int) bool {
		a, b := closures[i], closures[j]
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		if a.hi != b.hi {
			return a.hi < b.hi
		}
		return a.label < b.label
	})
	for _, c := range closures {
		code = append(code, c.lo, c.hi, c.label)
	}
	return code
}

// encodeEdgeAttr packs an EdgeAttr into a single comparable integer so it
// can take part in the canonical code's numeric tie-breaking.
func encodeEdgeAttr(a EdgeAttr) uint64 {
	v := uint64(a.Order) << 2
	if a.Aromatic {
		v |= 1 << 1
	}
	if a.Cyclic {
		v |= 1
	}
	return v
}
