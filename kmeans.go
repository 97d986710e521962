package scgo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// KMeansConfig controls k-means clustering.
// Start with [DefaultKMeansConfig] and override the fields you need.
type KMeansConfig struct {
	// K is the number of clusters. Must be >= 1 and <= the number of cells.
	K int

	// MaxIter bounds the number of Lloyd iterations per restart.
	// Default: 300.
	MaxIter int

	// Tol is the convergence threshold: a restart stops once no centroid
	// moves further than Tol between iterations. Default: 1e-4.
	Tol float64

	// NInit is the number of independent k-means++ restarts; the restart
	// with the lowest inertia wins. Restarts run concurrently. Default: 10.
	NInit int

	// Seed makes the run deterministic. Restart r derives its own stream
	// from (Seed, r), so results are independent of scheduling order.
	Seed uint64
}

// DefaultKMeansConfig returns a KMeansConfig with reasonable defaults.
// K must still be set by the caller.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		MaxIter: 300,
		Tol:     1e-4,
		NInit:   10,
	}
}

// KMeansResult contains the output of k-means clustering.
type KMeansResult struct {
	// Labels assigns each cell a cluster ID in [0, K).
	Labels []int

	// Centroids holds the final cluster centers, one per cluster.
	Centroids [][]float64

	// Inertia is the sum of squared distances of cells to their assigned
	// centroid, for the winning restart.
	Inertia float64

	// Iterations is the number of Lloyd iterations the winning restart ran.
	Iterations int
}

func applyKMeansDefaults(cfg *KMeansConfig) {
	if cfg.MaxIter == 0 {
		cfg.MaxIter = 300
	}
	if cfg.Tol == 0 {
		cfg.Tol = 1e-4
	}
	if cfg.NInit == 0 {
		cfg.NInit = 10
	}
}

func validateKMeansConfig(cfg *KMeansConfig, n int) error {
	if cfg.K < 1 {
		return fmt.Errorf("scgo: K must be >= 1, got %d", cfg.K)
	}
	if cfg.K > n {
		return fmt.Errorf("scgo: K=%d exceeds the number of cells %d", cfg.K, n)
	}
	if cfg.MaxIter < 1 {
		return fmt.Errorf("scgo: MaxIter must be >= 1, got %d", cfg.MaxIter)
	}
	if cfg.Tol < 0 {
		return fmt.Errorf("scgo: Tol must be >= 0, got %f", cfg.Tol)
	}
	if cfg.NInit < 1 {
		return fmt.Errorf("scgo: NInit must be >= 1, got %d", cfg.NInit)
	}
	return nil
}

// KMeans partitions the matrix rows into K clusters with Lloyd's algorithm
// and k-means++ initialization, keeping the best of NInit restarts.
// Deterministic for a fixed Seed regardless of scheduling.
func KMeans(m *Matrix, cfg KMeansConfig) (*KMeansResult, error) {
	applyKMeansDefaults(&cfg)
	if err := validateKMeansConfig(&cfg, m.Rows); err != nil {
		return nil, err
	}

	results := make([]*KMeansResult, cfg.NInit)

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for r := 0; r < cfg.NInit; r++ {
		eg.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(r)))
			results[r] = kmeansSingle(m.Data, m.Rows, m.Cols, cfg.K, cfg.MaxIter, cfg.Tol, rng)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Inertia < best.Inertia {
			best = r
		}
	}
	return best, nil
}

// kmeansSingle runs one k-means++ initialized Lloyd restart.
func kmeansSingle(data []float64, n, dims, k, maxIter int, tol float64, rng *rand.Rand) *KMeansResult {
	centroids := kmeansPlusPlusInit(data, n, dims, k, rng)

	labels := make([]int, n)
	counts := make([]int, k)
	next := make([]float64, k*dims)
	var inertia float64
	iterations := 0

	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		// Assignment step.
		inertia = 0
		for i := 0; i < n; i++ {
			row := data[i*dims : (i+1)*dims]
			bestC := 0
			bestD := math.Inf(1)
			for c := 0; c < k; c++ {
				d := sumOfSquares(row, centroids[c*dims:(c+1)*dims])
				if d < bestD {
					bestD = d
					bestC = c
				}
			}
			labels[i] = bestC
			inertia += bestD
		}

		// Update step.
		for i := range next {
			next[i] = 0
		}
		for c := range counts {
			counts[c] = 0
		}
		for i := 0; i < n; i++ {
			c := labels[i]
			counts[c]++
			row := data[i*dims : (i+1)*dims]
			for d := 0; d < dims; d++ {
				next[c*dims+d] += row[d]
			}
		}
		var reseeded []bool
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster with the point farthest from
				// its current centroid, skipping points already moved this
				// iteration so two empty clusters never fight over one point.
				if reseeded == nil {
					reseeded = make([]bool, n)
				}
				far := farthestPoint(data, n, dims, centroids, labels, reseeded)
				copy(next[c*dims:(c+1)*dims], data[far*dims:(far+1)*dims])
				labels[far] = c
				reseeded[far] = true
				continue
			}
			inv := 1.0 / float64(counts[c])
			for d := 0; d < dims; d++ {
				next[c*dims+d] *= inv
			}
		}

		// Convergence: largest centroid displacement below tolerance.
		maxShift := 0.0
		for c := 0; c < k; c++ {
			shift := math.Sqrt(sumOfSquares(centroids[c*dims:(c+1)*dims], next[c*dims:(c+1)*dims]))
			if shift > maxShift {
				maxShift = shift
			}
		}
		copy(centroids, next)
		if maxShift <= tol {
			break
		}
	}

	// Final assignment against the converged centroids.
	inertia = 0
	for i := 0; i < n; i++ {
		row := data[i*dims : (i+1)*dims]
		bestC := 0
		bestD := math.Inf(1)
		for c := 0; c < k; c++ {
			d := sumOfSquares(row, centroids[c*dims:(c+1)*dims])
			if d < bestD {
				bestD = d
				bestC = c
			}
		}
		labels[i] = bestC
		inertia += bestD
	}

	out := make([][]float64, k)
	for c := 0; c < k; c++ {
		out[c] = append([]float64(nil), centroids[c*dims:(c+1)*dims]...)
	}
	return &KMeansResult{
		Labels:     labels,
		Centroids:  out,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// kmeansPlusPlusInit seeds k centroids: the first uniformly at random, each
// subsequent one sampled proportionally to its squared distance from the
// nearest already-chosen centroid.
func kmeansPlusPlusInit(data []float64, n, dims, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, k*dims)

	first := rng.IntN(n)
	copy(centroids[:dims], data[first*dims:(first+1)*dims])

	minDist := make([]float64, n)
	for i := 0; i < n; i++ {
		minDist[i] = sumOfSquares(data[i*dims:(i+1)*dims], centroids[:dims])
	}

	for c := 1; c < k; c++ {
		var total float64
		for _, d := range minDist {
			total += d
		}

		var chosen int
		if total == 0 {
			// All points coincide with a centroid; any choice works.
			chosen = rng.IntN(n)
		} else {
			target := rng.Float64() * total
			cum := 0.0
			chosen = n - 1
			for i, d := range minDist {
				cum += d
				if cum >= target {
					chosen = i
					break
				}
			}
		}

		copy(centroids[c*dims:(c+1)*dims], data[chosen*dims:(chosen+1)*dims])
		for i := 0; i < n; i++ {
			d := sumOfSquares(data[i*dims:(i+1)*dims], centroids[c*dims:(c+1)*dims])
			if d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return centroids
}

// farthestPoint returns the index of the point farthest from its assigned
// centroid, used to re-seed empty clusters. Points flagged in skip are
// ignored; skip may be nil. At most k-1 clusters can be empty at once, so a
// candidate always remains.
func farthestPoint(data []float64, n, dims int, centroids []float64, labels []int, skip []bool) int {
	far := 0
	farDist := -1.0
	for i := 0; i < n; i++ {
		if skip != nil && skip[i] {
			continue
		}
		c := labels[i]
		d := sumOfSquares(data[i*dims:(i+1)*dims], centroids[c*dims:(c+1)*dims])
		if d > farDist {
			farDist = d
			far = i
		}
	}
	return far
}
