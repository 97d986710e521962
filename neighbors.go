package scgo

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/graph/simple"
)

// NeighborAlgorithm selects the kNN search strategy.
type NeighborAlgorithm string

const (
	NeighborAuto     NeighborAlgorithm = "auto"
	NeighborBrute    NeighborAlgorithm = "brute"
	NeighborKDTree   NeighborAlgorithm = "kdtree"
	NeighborBallTree NeighborAlgorithm = "balltree"
)

// NeighborConfig controls nearest-neighbor graph construction.
// Start with [DefaultNeighborConfig] and override the fields you need.
type NeighborConfig struct {
	// Neighbors is the number of nearest neighbors per cell (excluding the
	// cell itself). Larger values produce smoother, coarser graph structure.
	// Must be >= 1 and < the number of cells. Default: 15.
	Neighbors int

	// Metric is the distance function used in the reduced space.
	// Built-in: EuclideanMetric, ManhattanMetric, CosineMetric,
	// CorrelationMetric. Use DistanceFunc to wrap a custom function.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Algorithm selects the search strategy. "auto" picks a KD-tree for
	// axis-decomposable metrics in low dimensionality, a ball tree for
	// higher dimensionality, and brute force otherwise. Default: "auto".
	Algorithm NeighborAlgorithm

	// LeafSize controls the maximum number of points in a spatial tree leaf
	// node. Only used with tree-based algorithms. Default: 40.
	LeafSize int

	// Workers controls the number of goroutines for the brute-force path.
	// 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int
}

// DefaultNeighborConfig returns a NeighborConfig with reasonable defaults.
func DefaultNeighborConfig() NeighborConfig {
	return NeighborConfig{
		Neighbors: 15,
		Metric:    EuclideanMetric{},
		Algorithm: NeighborAuto,
		LeafSize:  40,
	}
}

// NeighborGraph is the k-nearest-neighbor structure of a point set:
// for each point, the indices and distances of its k nearest non-self
// neighbors, sorted by distance ascending.
type NeighborGraph struct {
	N         int
	K         int
	Indices   [][]int
	Distances [][]float64
}

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees require metrics that decompose along coordinate axes.
func KDTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric:
		return true
	default:
		return false
	}
}

// BallTreeValidMetric reports whether the metric supports ball tree
// acceleration. Ball trees require the triangle inequality, which cosine
// and correlation distances do not satisfy.
func BallTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric:
		return true
	default:
		return false
	}
}

// selectNeighborAlgorithm resolves NeighborAuto into a concrete choice based
// on the metric and dimensionality, and validates user-forced choices.
func selectNeighborAlgorithm(cfg NeighborConfig, dims int) (NeighborAlgorithm, error) {
	algo := cfg.Algorithm

	if algo == NeighborAuto {
		if !BallTreeValidMetric(cfg.Metric) {
			return NeighborBrute, nil
		}
		if KDTreeValidMetric(cfg.Metric) && dims <= 20 {
			return NeighborKDTree, nil
		}
		return NeighborBallTree, nil
	}

	switch algo {
	case NeighborKDTree:
		if !KDTreeValidMetric(cfg.Metric) {
			return "", fmt.Errorf("scgo: metric %T is not supported by the KD-tree algorithm", cfg.Metric)
		}
	case NeighborBallTree:
		if !BallTreeValidMetric(cfg.Metric) {
			return "", fmt.Errorf("scgo: metric %T is not supported by the ball tree algorithm", cfg.Metric)
		}
	case NeighborBrute:
	default:
		return "", fmt.Errorf("scgo: invalid neighbor algorithm %q", algo)
	}

	return algo, nil
}

func applyNeighborDefaults(cfg *NeighborConfig) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = NeighborAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = 40
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// KNNGraph computes the k-nearest-neighbor graph of the matrix rows,
// typically a PCA projection. Self-neighbors are excluded.
func KNNGraph(m *Matrix, cfg NeighborConfig) (*NeighborGraph, error) {
	applyNeighborDefaults(&cfg)

	if cfg.Neighbors < 1 {
		return nil, fmt.Errorf("scgo: Neighbors must be >= 1, got %d", cfg.Neighbors)
	}
	if cfg.Neighbors >= m.Rows {
		return nil, fmt.Errorf("scgo: Neighbors=%d must be < number of cells %d", cfg.Neighbors, m.Rows)
	}
	if cfg.LeafSize < 1 {
		return nil, fmt.Errorf("scgo: LeafSize must be >= 1, got %d", cfg.LeafSize)
	}

	algo, err := selectNeighborAlgorithm(cfg, m.Cols)
	if err != nil {
		return nil, err
	}

	n := m.Rows
	k := cfg.Neighbors

	var indices [][]int
	var distances [][]float64

	switch algo {
	case NeighborBrute:
		indices, distances = bruteKNNParallel(m.Data, n, m.Cols, k, cfg.Metric, cfg.Workers)
	default:
		var tree SpatialTree
		if algo == NeighborKDTree {
			tree = NewKDTree(m.Data, n, m.Cols, cfg.Metric, cfg.LeafSize)
		} else {
			tree = NewBallTree(m.Data, n, m.Cols, cfg.Metric, cfg.LeafSize)
		}

		// Query k+1 and drop the self-match.
		rawIdx, rawDist := tree.QueryKNN(tree.Data(), n, k+1)
		indices = make([][]int, n)
		distances = make([][]float64, n)
		for i := 0; i < n; i++ {
			idx := make([]int, 0, k)
			dist := make([]float64, 0, k)
			for j := range rawIdx[i] {
				if rawIdx[i][j] == i {
					continue
				}
				idx = append(idx, rawIdx[i][j])
				dist = append(dist, rawDist[i][j])
				if len(idx) == k {
					break
				}
			}
			indices[i] = idx
			distances[i] = dist
		}
	}

	return &NeighborGraph{N: n, K: k, Indices: indices, Distances: distances}, nil
}

// Graph converts the kNN structure into a symmetrized undirected gonum
// graph. When weighted, edge weights are 1/(1+d) so nearer neighbors bind
// more strongly; otherwise every edge has weight 1.
func (g *NeighborGraph) Graph(weighted bool) *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < g.N; i++ {
		wg.AddNode(simple.Node(i))
	}
	for i := 0; i < g.N; i++ {
		for j, nb := range g.Indices[i] {
			if nb == i {
				continue
			}
			w := 1.0
			if weighted {
				w = 1.0 / (1.0 + g.Distances[i][j])
			}
			// SetWeightedEdge overwrites duplicates from symmetrization.
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(i), simple.Node(nb), w))
		}
	}
	return wg
}

// ConnectedComponents returns the number of connected components in the
// symmetrized kNN graph. Louvain communities never span components, so a
// fragmented graph is worth knowing about before community detection.
func (g *NeighborGraph) ConnectedComponents() int {
	uf := NewUnionFind(g.N)
	for i := 0; i < g.N; i++ {
		for _, nb := range g.Indices[i] {
			if nb != i {
				uf.Union(i, nb)
			}
		}
	}
	return uf.NumSets()
}
