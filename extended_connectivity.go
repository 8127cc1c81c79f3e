package fingerprint

import (
	"hash/fnv"
	"sort"
)

// ExtendedConnectivity computes a per-vertex invariant over a Subgraph
// using iterative neighbourhood-hash refinement (the Morgan algorithm):
// starting from a seed invariant derived from vertex attributes, each
// round folds in the sorted multiset of a vertex's neighbours' invariants
// from the previous round, until the partition of vertices by invariant
// value stops gaining new classes.
//
// The returned values are stable and class-preserving (isomorphic
// vertices under the same seed always end up in the same class) but are
// not required to be minimal: only CanonicalCoder's branch-and-bound
// search, not this function, is responsible for producing a minimum code.
func ExtendedConnectivity(s Subgraph) map[int]uint64 {
	v := make(map[int]uint64, len(s.Vertices))
	for _, vertex := range s.Vertices {
		v[vertex] = seedInvariant(s.Graph.VertexAttr(vertex))
	}

	neighboursIn := subgraphNeighbours(s)

	classCount := countClasses(s.Vertices, v)
	for {
		next := make(map[int]uint64, len(v))
		for _, vertex := range s.Vertices {
			next[vertex] = refine(v[vertex], neighboursIn[vertex], v)
		}
		newCount := countClasses(s.Vertices, next)
		v = next
		if newCount <= classCount {
			break
		}
		classCount = newCount
	}
	return v
}

// seedInvariant derives v0(u) from the vertex's chemical attributes.
func seedInvariant(a VertexAttr) uint64 {
	h := fnv.New64a()
	writeUint64(h, uint64(len(NormalizeElement(a.Element))))
	h.Write([]byte(NormalizeElement(a.Element)))
	writeUint64(h, uint64(int64(a.Charge)))
	writeUint64(h, uint64(a.Degree))
	writeUint64(h, uint64(a.HCount))
	if a.Aromatic {
		writeUint64(h, 1)
	} else {
		writeUint64(h, 0)
	}
	return h.Sum64()
}

// refine computes v_{t+1}(u) = H(v_t(u), sorted multiset of v_t(n) for
// neighbours n of u within the subgraph).
func refine(self uint64, neighbours []int, v map[int]uint64) uint64 {
	vals := make([]uint64, len(neighbours))
	for i, n := range neighbours {
		vals[i] = v[n]
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	h := fnv.New64a()
	writeUint64(h, self)
	for _, val := range vals {
		writeUint64(h, val)
	}
	return h.Sum64()
}

// subgraphNeighbours restricts Graph.Neighbours to the subgraph's edge
// set, so refinement only considers in-subgraph adjacency.
func subgraphNeighbours(s Subgraph) map[int][]int {
	out := make(map[int][]int, len(s.Vertices))
	for _, e := range s.Edges {
		u, v := s.Graph.EdgeEndpoints(e)
		out[u] = append(out[u], v)
		out[v] = append(out[v], u)
	}
	return out
}

func countClasses(vertices []int, v map[int]uint64) int {
	seen := make(map[uint64]bool, len(vertices))
	for _, vertex := range vertices {
		seen[v[vertex]] = true
	}
	return len(seen)
}
