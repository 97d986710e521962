package scgo

import (
	"fmt"
	"math/rand/v2"
)

// MakeBlobs generates an n×dims matrix of points drawn from `centers`
// isotropic Gaussian blobs with the given standard deviation, along with the
// ground-truth blob label of each point. Blob centers are sampled uniformly
// from [-10, 10] per dimension. Deterministic for a fixed seed.
func MakeBlobs(n, dims, centers int, stddev float64, seed uint64) (*Matrix, []int, error) {
	if n < 1 || dims < 1 {
		return nil, nil, fmt.Errorf("scgo: MakeBlobs needs n >= 1 and dims >= 1, got n=%d dims=%d", n, dims)
	}
	if centers < 1 {
		return nil, nil, fmt.Errorf("scgo: MakeBlobs needs centers >= 1, got %d", centers)
	}
	if stddev < 0 {
		return nil, nil, fmt.Errorf("scgo: MakeBlobs needs stddev >= 0, got %f", stddev)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	means := make([]float64, centers*dims)
	for i := range means {
		means[i] = rng.Float64()*20 - 10
	}

	m := NewMatrix(n, dims)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % centers // round-robin keeps blob sizes balanced
		labels[i] = c
		row := m.Row(i)
		for d := 0; d < dims; d++ {
			row[d] = means[c*dims+d] + rng.NormFloat64()*stddev
		}
	}
	return m, labels, nil
}
