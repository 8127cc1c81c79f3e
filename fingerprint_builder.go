package fingerprint

import "sort"

// PathFingerprint computes the path-based fingerprint of mol into fp:
// every simple path of 1 to k vertices is enumerated, canonicalized, and
// hash-folded into a bit. fp must already be sized for params.Bits (see
// NewBitVector). spec.md §4.6.
func PathFingerprint(mol Graph, fp *BitVector, params GeneratorParams) {
	fp.Zero()
	EnumeratePaths(mol, params.K, func(path []int) {
		setBitForSubstructure(mol, fp, params, pathToSubgraph(mol, path))
	})
}

// TreeFingerprint computes the spanning-tree fingerprint of mol into fp:
// every connected vertex subset up to k vertices contributes one bit per
// distinct spanning tree of its induced edges. spec.md §4.6.
func TreeFingerprint(mol Graph, fp *BitVector, params GeneratorParams) {
	fp.Zero()
	EnumerateSubgraphs(mol, params.K, true, func(sub Subgraph) {
		setBitForSubstructure(mol, fp, params, sub)
	})
}

// SubgraphFingerprint computes the general connected-subgraph fingerprint
// of mol into fp: every connected induced subgraph up to k vertices
// contributes one bit. spec.md §4.6.
func SubgraphFingerprint(mol Graph, fp *BitVector, params GeneratorParams) {
	fp.Zero()
	EnumerateSubgraphs(mol, params.K, false, func(sub Subgraph) {
		setBitForSubstructure(mol, fp, params, sub)
	})
}

// setBitForSubstructure canonicalizes sub, hashes its code, and sets the
// corresponding bit of fp modulo params.Prime.
func setBitForSubstructure(mol Graph, fp *BitVector, params GeneratorParams, sub Subgraph) {
	invariant := ExtendedConnectivity(sub)
	code, _ := Canonicalize(sub, invariant)
	h := hashCode(code)
	fp.Set(int(h % uint64(params.Prime)))
}

// pathToSubgraph converts an ordered path of vertex indices into a
// Subgraph view over the consecutive bond edges joining them. A path
// never revisits a vertex, so each consecutive pair has exactly one edge.
func pathToSubgraph(g Graph, path []int) Subgraph {
	vertices := append([]int{}, path...)
	edges := make([]int, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		if e, ok := g.EdgeBetween(path[i], path[i+1]); ok {
			edges = append(edges, e)
		}
	}
	sort.Ints(vertices)
	sort.Ints(edges)
	return NewSubgraph(g, vertices, edges)
}
