package fingerprint

// simpleGraph is a minimal in-memory Graph used by the test suite to build
// small molecules (ethane, benzene, cyclohexane, ...) without depending on
// any external molecule-file reader, which is out of scope for this
// package.
type simpleGraph struct {
	vertices []VertexAttr
	edges    []simpleEdge
	adj      [][]int
	edgeOf   []map[int]int // edgeOf[u][v] = edge index
}

type simpleEdge struct {
	u, v int
	attr EdgeAttr
}

func newSimpleGraph() *simpleGraph {
	return &simpleGraph{}
}

func (g *simpleGraph) addAtom(element string, charge, hcount int, aromatic bool) int {
	idx := len(g.vertices)
	g.vertices = append(g.vertices, VertexAttr{Element: element, Charge: charge, HCount: hcount, Aromatic: aromatic})
	g.adj = append(g.adj, nil)
	g.edgeOf = append(g.edgeOf, make(map[int]int))
	return idx
}

func (g *simpleGraph) addBond(u, v int, order int, aromatic, cyclic bool) {
	e := len(g.edges)
	g.edges = append(g.edges, simpleEdge{u: u, v: v, attr: EdgeAttr{Order: order, Aromatic: aromatic, Cyclic: cyclic}})
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.edgeOf[u][v] = e
	g.edgeOf[v][u] = e
}

func (g *simpleGraph) finalizeDegrees() {
	for i := range g.vertices {
		g.vertices[i].Degree = len(g.adj[i])
	}
}

func (g *simpleGraph) NumVertices() int { return len(g.vertices) }
func (g *simpleGraph) NumEdges() int    { return len(g.edges) }

func (g *simpleGraph) Neighbours(v int) []int { return g.adj[v] }

func (g *simpleGraph) EdgeBetween(u, v int) (int, bool) {
	e, ok := g.edgeOf[u][v]
	return e, ok
}

func (g *simpleGraph) VertexAttr(v int) VertexAttr { return g.vertices[v] }
func (g *simpleGraph) EdgeAttr(e int) EdgeAttr      { return g.edges[e].attr }

func (g *simpleGraph) EdgeEndpoints(e int) (int, int) {
	return g.edges[e].u, g.edges[e].v
}

// relabel returns a new simpleGraph with vertices permuted by perm (perm[i]
// is the new index of old vertex i), used to test isomorphism invariance.
func (g *simpleGraph) relabel(perm []int) *simpleGraph {
	n := len(g.vertices)
	out := &simpleGraph{
		vertices: make([]VertexAttr, n),
		adj:      make([][]int, n),
		edgeOf:   make([]map[int]int, n),
	}
	for old, attr := range g.vertices {
		out.vertices[perm[old]] = attr
	}
	for i := range out.edgeOf {
		out.edgeOf[i] = make(map[int]int)
	}
	for _, e := range g.edges {
		out.addBond(perm[e.u], perm[e.v], e.attr.Order, e.attr.Aromatic, e.attr.Cyclic)
	}
	return out
}

// newEthane builds C-C with no explicit hydrogens (matches spec.md §8
// scenario 1).
func newEthane() *simpleGraph {
	g := newSimpleGraph()
	c1 := g.addAtom("C", 0, 3, false)
	c2 := g.addAtom("C", 0, 3, false)
	g.addBond(c1, c2, 1, false, false)
	g.finalizeDegrees()
	return g
}

// newBenzene builds the aromatic six-membered ring C1=CC=CC=C1.
func newBenzene() *simpleGraph {
	g := newSimpleGraph()
	atoms := make([]int, 6)
	for i := range atoms {
		atoms[i] = g.addAtom("C", 0, 1, true)
	}
	for i := 0; i < 6; i++ {
		g.addBond(atoms[i], atoms[(i+1)%6], 1, true, true)
	}
	g.finalizeDegrees()
	return g
}

// newCyclohexane builds the saturated six-membered ring C1CCCCC1.
func newCyclohexane() *simpleGraph {
	g := newSimpleGraph()
	atoms := make([]int, 6)
	for i := range atoms {
		atoms[i] = g.addAtom("C", 0, 2, false)
	}
	for i := 0; i < 6; i++ {
		g.addBond(atoms[i], atoms[(i+1)%6], 1, false, true)
	}
	g.finalizeDegrees()
	return g
}

// newPentaneChain builds a 5-carbon unbranched alkane, useful for subset
// monotonicity tests where k needs headroom to grow.
func newPentaneChain() *simpleGraph {
	g := newSimpleGraph()
	atoms := make([]int, 5)
	for i := range atoms {
		atoms[i] = g.addAtom("C", 0, 2, false)
	}
	for i := 0; i < 4; i++ {
		g.addBond(atoms[i], atoms[i+1], 1, false, false)
	}
	g.finalizeDegrees()
	return g
}
