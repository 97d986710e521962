package scgo

import (
	"fmt"
	"math"
	"runtime"
)

// SilhouetteScore computes the mean silhouette coefficient of a clustering:
// for each cell, (b-a)/max(a,b) where a is the mean distance to its own
// cluster and b the mean distance to the nearest other cluster. Values near
// 1 indicate compact, well-separated clusters; near 0, overlapping ones.
// Cells in singleton clusters score 0 by convention.
//
// The full pairwise distance matrix is computed, so this is O(n²) in time
// and memory. workers <= 0 means use runtime.NumCPU().
func SilhouetteScore(m *Matrix, labels []int, metric DistanceMetric, workers int) (float64, error) {
	n := m.Rows
	if len(labels) != n {
		return 0, fmt.Errorf("scgo: %d labels for %d cells", len(labels), n)
	}
	if n < 2 {
		return 0, fmt.Errorf("scgo: silhouette needs at least 2 cells, got %d", n)
	}
	k := CountClusters(labels)
	if k < 2 || k > n-1 {
		return 0, fmt.Errorf("scgo: silhouette needs 2 to n-1 clusters, got %d", k)
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	dist := PairwiseDistancesParallel(m.Data, n, m.Cols, metric, workers)
	sizes := ClusterSizes(labels)

	var total float64
	sums := make(map[int]float64, k)
	for i := 0; i < n; i++ {
		own := labels[i]
		if sizes[own] == 1 {
			continue // silhouette of a singleton is defined as 0
		}

		for l := range sums {
			delete(sums, l)
		}
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += dist[i*n+j]
			}
		}

		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for l, s := range sums {
			if l == own {
				continue
			}
			if mean := s / float64(sizes[l]); mean < b {
				b = mean
			}
		}

		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}

	return total / float64(n), nil
}

// AdjustedRandIndex measures agreement between two cluster assignments of
// the same cells, corrected for chance: 1 means identical partitions (up to
// label permutation), values near 0 mean no better than random.
func AdjustedRandIndex(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("scgo: assignments have different lengths %d and %d", len(a), len(b))
	}
	n := len(a)
	if n == 0 {
		return 0, fmt.Errorf("scgo: empty assignments")
	}

	contingency := make(map[[2]int]int)
	rowSums := make(map[int]int)
	colSums := make(map[int]int)
	for i := 0; i < n; i++ {
		contingency[[2]int{a[i], b[i]}]++
		rowSums[a[i]]++
		colSums[b[i]]++
	}

	var sumComb, rowComb, colComb float64
	for _, c := range contingency {
		sumComb += comb2(c)
	}
	for _, c := range rowSums {
		rowComb += comb2(c)
	}
	for _, c := range colSums {
		colComb += comb2(c)
	}

	expected := rowComb * colComb / comb2(n)
	maxIndex := (rowComb + colComb) / 2
	if maxIndex == expected {
		// Degenerate partitions (e.g. both all-in-one); identical by
		// construction.
		return 1, nil
	}
	return (sumComb - expected) / (maxIndex - expected), nil
}

func comb2(c int) float64 {
	return float64(c) * float64(c-1) / 2
}
