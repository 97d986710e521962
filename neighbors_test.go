package scgo

import (
	"testing"
)

// --- Algorithm selection tests ---

func TestSelectNeighborAlgorithm_Auto(t *testing.T) {
	cases := []struct {
		metric DistanceMetric
		dims   int
		want   NeighborAlgorithm
	}{
		{EuclideanMetric{}, 10, NeighborKDTree},
		{EuclideanMetric{}, 50, NeighborBallTree},
		{ManhattanMetric{}, 5, NeighborKDTree},
		{CosineMetric{}, 10, NeighborBrute},
		{CorrelationMetric{}, 50, NeighborBrute},
	}
	for _, c := range cases {
		cfg := DefaultNeighborConfig()
		cfg.Metric = c.metric
		got, err := selectNeighborAlgorithm(cfg, c.dims)
		if err != nil {
			t.Fatalf("metric=%T dims=%d: %v", c.metric, c.dims, err)
		}
		if got != c.want {
			t.Errorf("metric=%T dims=%d: got %q, want %q", c.metric, c.dims, got, c.want)
		}
	}
}

func TestSelectNeighborAlgorithm_RejectsInvalidCombos(t *testing.T) {
	cfg := DefaultNeighborConfig()
	cfg.Metric = CosineMetric{}
	cfg.Algorithm = NeighborKDTree
	if _, err := selectNeighborAlgorithm(cfg, 10); err == nil {
		t.Error("expected error for cosine metric with KD-tree")
	}

	cfg.Algorithm = NeighborBallTree
	if _, err := selectNeighborAlgorithm(cfg, 10); err == nil {
		t.Error("expected error for cosine metric with ball tree")
	}

	cfg.Algorithm = NeighborAlgorithm("quadtree")
	if _, err := selectNeighborAlgorithm(cfg, 10); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

// --- KNNGraph tests ---

func TestKNNGraph_AllAlgorithmsAgree(t *testing.T) {
	m, _, err := MakeBlobs(60, 4, 3, 1.0, 21)
	if err != nil {
		t.Fatal(err)
	}

	graphs := make(map[NeighborAlgorithm]*NeighborGraph)
	for _, algo := range []NeighborAlgorithm{NeighborBrute, NeighborKDTree, NeighborBallTree} {
		cfg := DefaultNeighborConfig()
		cfg.Neighbors = 8
		cfg.Algorithm = algo
		g, err := KNNGraph(m, cfg)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		graphs[algo] = g
	}

	ref := graphs[NeighborBrute]
	for _, algo := range []NeighborAlgorithm{NeighborKDTree, NeighborBallTree} {
		g := graphs[algo]
		if g.N != ref.N || g.K != ref.K {
			t.Fatalf("%s: shape (%d,%d) != brute (%d,%d)", algo, g.N, g.K, ref.N, ref.K)
		}
		for i := 0; i < g.N; i++ {
			if !knnResultsMatch(g.Indices[i], g.Distances[i], ref.Indices[i], ref.Distances[i], 1e-9) {
				t.Errorf("%s: neighbor distances of point %d differ from brute force", algo, i)
			}
		}
	}
}

func TestKNNGraph_ExcludesSelf(t *testing.T) {
	m, _, err := MakeBlobs(30, 3, 2, 1.0, 8)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultNeighborConfig()
	cfg.Neighbors = 5

	g, err := KNNGraph(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.N; i++ {
		if len(g.Indices[i]) != 5 {
			t.Errorf("point %d has %d neighbors, want 5", i, len(g.Indices[i]))
		}
		for _, nb := range g.Indices[i] {
			if nb == i {
				t.Errorf("point %d lists itself as a neighbor", i)
			}
		}
	}
}

func TestKNNGraph_InvalidConfig(t *testing.T) {
	m, _, err := MakeBlobs(10, 2, 1, 1.0, 1)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultNeighborConfig()
	cfg.Neighbors = 0
	if _, err := KNNGraph(m, cfg); err == nil {
		t.Error("expected error for Neighbors = 0")
	}

	cfg = DefaultNeighborConfig()
	cfg.Neighbors = 10 // equal to row count
	if _, err := KNNGraph(m, cfg); err == nil {
		t.Error("expected error for Neighbors >= number of cells")
	}

	cfg = DefaultNeighborConfig()
	cfg.Neighbors = 3
	cfg.LeafSize = -1
	if _, err := KNNGraph(m, cfg); err == nil {
		t.Error("expected error for negative LeafSize")
	}
}

// --- Graph conversion tests ---

func TestNeighborGraph_GraphSymmetrized(t *testing.T) {
	// Hand-built asymmetric kNN structure: 0 lists 1, 1 lists 2, 2 lists 0.
	g := &NeighborGraph{
		N:         3,
		K:         1,
		Indices:   [][]int{{1}, {2}, {0}},
		Distances: [][]float64{{1}, {1}, {1}},
	}

	wg := g.Graph(false)
	if wg.Node(0) == nil || wg.Node(1) == nil || wg.Node(2) == nil {
		t.Fatal("all nodes should be present")
	}
	// Undirected: each listed edge must be reachable both ways.
	for _, pair := range [][2]int64{{0, 1}, {1, 2}, {2, 0}} {
		if !wg.HasEdgeBetween(pair[0], pair[1]) {
			t.Errorf("missing edge between %d and %d", pair[0], pair[1])
		}
		if !wg.HasEdgeBetween(pair[1], pair[0]) {
			t.Errorf("edge %d-%d not symmetric", pair[0], pair[1])
		}
	}
}

func TestNeighborGraph_GraphWeights(t *testing.T) {
	g := &NeighborGraph{
		N:         2,
		K:         1,
		Indices:   [][]int{{1}, {0}},
		Distances: [][]float64{{3}, {3}},
	}

	weighted := g.Graph(true)
	w, ok := weighted.Weight(0, 1)
	if !ok {
		t.Fatal("expected an edge between 0 and 1")
	}
	// 1/(1+3) = 0.25
	if !almostEqual(w, 0.25, floatTol) {
		t.Errorf("weight = %v, want 0.25", w)
	}

	unweighted := g.Graph(false)
	w, ok = unweighted.Weight(0, 1)
	if !ok || w != 1 {
		t.Errorf("unweighted edge weight = %v, want 1", w)
	}
}

// --- ConnectedComponents tests ---

func TestNeighborGraph_ConnectedComponents(t *testing.T) {
	// Two disconnected pairs: {0,1} and {2,3}.
	g := &NeighborGraph{
		N:         4,
		K:         1,
		Indices:   [][]int{{1}, {0}, {3}, {2}},
		Distances: [][]float64{{1}, {1}, {1}, {1}},
	}
	if comps := g.ConnectedComponents(); comps != 2 {
		t.Errorf("ConnectedComponents() = %d, want 2", comps)
	}
}

func TestNeighborGraph_ConnectedComponents_SingleComponent(t *testing.T) {
	m, _, err := MakeBlobs(40, 2, 1, 1.0, 6)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultNeighborConfig()
	cfg.Neighbors = 10

	g, err := KNNGraph(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// A single dense blob with a generous k is connected.
	if comps := g.ConnectedComponents(); comps != 1 {
		t.Errorf("ConnectedComponents() = %d, want 1", comps)
	}
}
