package fingerprint

import "testing"

func TestEnumerateSubgraphsEthane(t *testing.T) {
	g := newEthane()
	var subs []Subgraph
	EnumerateSubgraphs(g, 2, false, func(s Subgraph) {
		subs = append(subs, s)
	})

	// {0}, {1}, {0,1}: three connected vertex subsets of size <= 2.
	if len(subs) != 3 {
		t.Fatalf("EnumerateSubgraphs(ethane, k=2) produced %d subgraphs, want 3", len(subs))
	}
	for _, s := range subs {
		if len(s.Vertices) == 2 && len(s.Edges) != 1 {
			t.Errorf("pair subgraph %v has %d edges, want 1", s.Vertices, len(s.Edges))
		}
	}
}

func TestEnumerateSubgraphsBenzeneFullRing(t *testing.T) {
	g := newBenzene()

	var whole []Subgraph
	EnumerateSubgraphs(g, 6, false, func(s Subgraph) {
		if len(s.Vertices) == 6 {
			whole = append(whole, s)
		}
	})
	if len(whole) != 1 {
		t.Fatalf("benzene full-ring subgraph enumeration produced %d six-vertex subgraphs, want 1", len(whole))
	}
	if got := len(whole[0].Edges); got != 6 {
		t.Errorf("full benzene ring subgraph has %d edges, want 6 (cyclic)", got)
	}

	// In tree mode the same six-vertex set must yield one spanning tree per
	// edge omitted from the cycle: six distinct 5-edge trees.
	var trees []Subgraph
	EnumerateSubgraphs(g, 6, true, func(s Subgraph) {
		if len(s.Vertices) == 6 {
			trees = append(trees, s)
		}
	})
	if len(trees) != 6 {
		t.Fatalf("benzene full-ring tree enumeration produced %d spanning trees, want 6", len(trees))
	}
	for _, tr := range trees {
		if got := len(tr.Edges); got != 5 {
			t.Errorf("spanning tree %v has %d edges, want 5", tr.Edges, got)
		}
	}
}

func TestEnumerateSubgraphsAcyclicSingleTree(t *testing.T) {
	g := newPentaneChain()

	var subs []Subgraph
	EnumerateSubgraphs(g, 5, false, func(s Subgraph) {
		if len(s.Vertices) == 5 {
			subs = append(subs, s)
		}
	})
	if len(subs) != 1 {
		t.Fatalf("pentane chain full subgraph enumeration produced %d, want 1", len(subs))
	}

	var trees []Subgraph
	EnumerateSubgraphs(g, 5, true, func(s Subgraph) {
		if len(s.Vertices) == 5 {
			trees = append(trees, s)
		}
	})
	// Acyclic, so there is exactly one spanning tree: the chain itself.
	if len(trees) != 1 {
		t.Fatalf("pentane chain full tree enumeration produced %d, want 1", len(trees))
	}
	if got := len(trees[0].Edges); got != 4 {
		t.Errorf("pentane spanning tree has %d edges, want 4", got)
	}
}

func TestEnumerateSubgraphsKZero(t *testing.T) {
	g := newEthane()
	called := false
	EnumerateSubgraphs(g, 0, false, func(s Subgraph) { called = true })
	if called {
		t.Errorf("EnumerateSubgraphs with k=0 should emit nothing")
	}
}
