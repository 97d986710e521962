package scgo

import (
	"sort"
	"sync"
)

// PairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// numWorkers controls the degree of parallelism; if <= 1, it falls back to
// single-threaded PairwiseDistances.
//
// The result is bitwise identical to PairwiseDistances: a flat []float64
// of length n×n in row-major order.
func PairwiseDistancesParallel(data []float64, n, dims int, metric DistanceMetric, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return PairwiseDistances(data, n, dims, metric)
	}

	result := make([]float64, n*n)

	// Split rows across workers. Each worker handles a contiguous range of
	// "source" rows and computes dist(i,j) for all j > i in that range.
	// Since row ranges don't overlap, no synchronization is needed for writes.
	var wg sync.WaitGroup

	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return result
}

// bruteKNNParallel finds the k nearest non-self neighbors of every point by
// scanning all pairwise distances. Each worker handles a contiguous range of
// query points independently. Results are sorted by distance ascending.
func bruteKNNParallel(data []float64, n, dims, k int, metric DistanceMetric, numWorkers int) ([][]int, [][]float64) {
	indices := make([][]int, n)
	distances := make([][]float64, n)

	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			cand := make([]knnItem, 0, n-1)
			for i := start; i < end; i++ {
				cand = cand[:0]
				query := data[i*dims : (i+1)*dims]
				for j := 0; j < n; j++ {
					if j == i {
						continue
					}
					d := metric.Distance(query, data[j*dims:(j+1)*dims])
					cand = append(cand, knnItem{index: j, dist: d})
				}
				sort.Slice(cand, func(a, b int) bool {
					if cand[a].dist != cand[b].dist {
						return cand[a].dist < cand[b].dist
					}
					return cand[a].index < cand[b].index
				})

				kept := min(k, len(cand))
				idx := make([]int, kept)
				dist := make([]float64, kept)
				for j := 0; j < kept; j++ {
					idx[j] = cand[j].index
					dist[j] = cand[j].dist
				}
				indices[i] = idx
				distances[i] = dist
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return indices, distances
}
