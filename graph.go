package fingerprint

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VertexAttr carries the per-atom attributes the generator reads to seed
// the extended-connectivity invariant. Element is normalised with
// golang.org/x/text/unicode/norm (NFKC) and title-cased, so two Graph
// implementations that disagree only on the Unicode form or case of an
// element symbol ("CL" vs "Cl" vs "cl") still produce identical
// fingerprints; see NormalizeElement.
type VertexAttr struct {
	Element  string
	Charge   int
	Degree   int
	HCount   int
	Aromatic bool
}

// EdgeAttr carries the per-bond attributes read for canonicalization.
type EdgeAttr struct {
	Order    int
	Aromatic bool
	Cyclic   bool
}

// NormalizeElement applies Unicode NFKC normalization and canonical
// chemical-symbol casing (first letter upper, remainder lower) to an
// element symbol, so fingerprints are stable regardless of how an upstream
// molecule reader encoded the symbol.
func NormalizeElement(symbol string) string {
	s := norm.NFKC.String(symbol)
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Graph is the read-only capability set this package requires of a
// molecule. Vertex indices are dense in [0, NumVertices()); edge indices
// are dense in [0, NumEdges()). Implementations are never mutated by this
// package. Molecule file parsing and the concrete graph data structure are
// out of scope here: callers supply this interface (e.g. as a thin
// adapter over their own in-memory molecule type).
type Graph interface {
	// NumVertices returns the number of atoms.
	NumVertices() int
	// NumEdges returns the number of bonds.
	NumEdges() int
	// Neighbours returns the vertex indices adjacent to v.
	Neighbours(v int) []int
	// EdgeBetween returns the edge index connecting u and v, if any.
	EdgeBetween(u, v int) (edgeIndex int, ok bool)
	// VertexAttr returns the attribute set for vertex v.
	VertexAttr(v int) VertexAttr
	// EdgeAttr returns the attribute set for edge e.
	EdgeAttr(e int) EdgeAttr
	// EdgeEndpoints returns the two vertex indices edge e connects.
	EdgeEndpoints(e int) (u, v int)
}

// Subgraph is a lightweight, non-owning view of a connected induced (or
// spanning-tree) subset of a Graph: a vertex-index set and an edge-index
// set. It carries no ownership of graph storage and its lifetime is scoped
// to the enclosing enumeration callback.
type Subgraph struct {
	Graph    Graph
	Vertices []int // ascending, deduplicated
	Edges    []int
}

// NewSubgraph builds a Subgraph view and validates its invariants: every
// edge's endpoints must be in Vertices, and the induced edge set must
// connect all of Vertices. A violation is a programmer error (a caller
// assembled an inconsistent (A, B) pair) and panics, per spec.md §7's
// "enumerator invariant violations... are programmer errors and abort".
func NewSubgraph(g Graph, vertices, edges []int) Subgraph {
	s := Subgraph{Graph: g, Vertices: vertices, Edges: edges}
	s.mustBeValid()
	return s
}

func (s Subgraph) mustBeValid() {
	inSet := make(map[int]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		inSet[v] = true
	}
	for _, e := range s.Edges {
		u, v := s.Graph.EdgeEndpoints(e)
		if !inSet[u] || !inSet[v] {
			panic(fmt.Errorf("%w: edge %d endpoints (%d,%d) not in vertex set", ErrBadGraph, e, u, v))
		}
	}
	if len(s.Vertices) == 0 {
		return
	}
	if !s.isConnected() {
		panic(fmt.Errorf("%w: induced subgraph is not connected", ErrBadGraph))
	}
}

// isConnected performs a BFS over s.Edges restricted to s.Vertices.
func (s Subgraph) isConnected() bool {
	adj := make(map[int][]int, len(s.Vertices))
	for _, e := range s.Edges {
		u, v := s.Graph.EdgeEndpoints(e)
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}
	start := s.Vertices[0]
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
	return len(seen) == len(s.Vertices)
}

// NumVertices returns the number of vertices in the subgraph view.
func (s Subgraph) NumVertices() int { return len(s.Vertices) }

// NumEdges returns the number of edges in the subgraph view.
func (s Subgraph) NumEdges() int { return len(s.Edges) }
