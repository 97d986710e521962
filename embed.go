package scgo

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph/layout"
)

// EmbedMethod selects the 2D graph layout algorithm.
type EmbedMethod string

const (
	// EmbedForce uses Eades-style force-directed layout: neighbors attract
	// along kNN edges, all points repel. The workhorse method.
	EmbedForce EmbedMethod = "force"

	// EmbedIsomap uses Isomap: classical MDS over graph shortest-path
	// distances. Deterministic, but O(n²) in memory.
	EmbedIsomap EmbedMethod = "isomap"
)

// EmbedConfig controls 2D embedding of the neighbor graph.
// Start with [DefaultEmbedConfig] and override the fields you need.
type EmbedConfig struct {
	// Method selects the layout algorithm. Default: "force".
	Method EmbedMethod

	// MinDist scales the repulsion between points: larger values enforce
	// more separation between neighborhoods in the final layout.
	// Must be > 0. Only used by the force method. Default: 1.0.
	MinDist float64

	// Updates is the number of force-layout iterations. Default: 200.
	Updates int

	// Seed makes the stochastic initial placement deterministic.
	Seed uint64
}

// DefaultEmbedConfig returns an EmbedConfig with reasonable defaults.
func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		Method:  EmbedForce,
		MinDist: 1.0,
		Updates: 200,
	}
}

// Embedding is a 2D coordinate representation of each cell, index-aligned
// with the matrix the neighbor graph was built from. It is held fixed across
// all panels of a comparison grid.
type Embedding struct {
	X, Y         []float64
	XName, YName string
}

// Len returns the number of embedded points.
func (e *Embedding) Len() int { return len(e.X) }

// EmbedGraph lays the neighbor graph out in 2D. The layout optimization is
// gonum's (graph/layout); this wrapper fixes the parameterization and
// returns a plain coordinate table. Neighborhood size is controlled
// upstream by NeighborConfig.Neighbors.
func EmbedGraph(g *NeighborGraph, cfg EmbedConfig) (*Embedding, error) {
	if cfg.Method == "" {
		cfg.Method = EmbedForce
	}
	if cfg.MinDist == 0 {
		cfg.MinDist = 1.0
	}
	if cfg.Updates == 0 {
		cfg.Updates = 200
	}
	if cfg.MinDist < 0 {
		return nil, fmt.Errorf("scgo: MinDist must be > 0, got %f", cfg.MinDist)
	}
	if cfg.Updates < 1 {
		return nil, fmt.Errorf("scgo: Updates must be >= 1, got %d", cfg.Updates)
	}
	if g.N == 0 {
		return nil, fmt.Errorf("scgo: empty neighbor graph")
	}

	gg := g.Graph(false)

	var optimizer layout.OptimizerR2
	switch cfg.Method {
	case EmbedForce:
		eades := layout.EadesR2{
			Repulsion: cfg.MinDist,
			Rate:      0.05,
			Updates:   cfg.Updates,
			Theta:     0.15,
			Src:       rand.NewPCG(cfg.Seed, cfg.Seed),
		}
		optimizer = layout.NewOptimizerR2(gg, eades.Update)
	case EmbedIsomap:
		optimizer = layout.NewOptimizerR2(gg, layout.IsomapR2{}.Update)
	default:
		return nil, fmt.Errorf("scgo: invalid embed method %q", cfg.Method)
	}

	for optimizer.Update() {
	}

	emb := &Embedding{
		X:     make([]float64, g.N),
		Y:     make([]float64, g.N),
		XName: "EMB1",
		YName: "EMB2",
	}
	for i := 0; i < g.N; i++ {
		coord := optimizer.LayoutNodeR2(int64(i)).Coord2
		emb.X[i] = coord.X
		emb.Y[i] = coord.Y
	}
	return emb, nil
}
