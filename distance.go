package scgo

import "math"

// DistanceMetric provides distance computation with an optional reduced form
// for tree-pruning optimizations (e.g., squared Euclidean skips sqrt).
// DistToRdist converts a true distance into the reduced space so pruning
// bounds can be compared without converting every candidate back.
type DistanceMetric interface {
	Distance(a, b []float64) float64
	ReducedDistance(a, b []float64) float64
	DistToRdist(d float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
// The reduced distance is the distance itself.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64        { return f(a, b) }
func (f DistanceFunc) ReducedDistance(a, b []float64) float64 { return f(a, b) }
func (f DistanceFunc) DistToRdist(d float64) float64          { return d }

// EuclideanMetric computes the Euclidean (L2) distance, the default metric
// for PCA-space neighbor searches. ReducedDistance is squared Euclidean.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return math.Sqrt(sumOfSquares(a, b))
}

func (EuclideanMetric) ReducedDistance(a, b []float64) float64 { return sumOfSquares(a, b) }
func (EuclideanMetric) DistToRdist(d float64) float64          { return d * d }

func sumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func (m ManhattanMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (ManhattanMetric) DistToRdist(d float64) float64            { return d }

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// Commonly used on expression profiles where magnitude (sequencing depth)
// should not dominate. For two zero vectors, the result is NaN (0/0).
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

func (m CosineMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (CosineMetric) DistToRdist(d float64) float64            { return d }

// CorrelationMetric computes 1 - Pearson correlation between two vectors.
// Constant vectors have zero variance and yield NaN.
type CorrelationMetric struct{}

func (CorrelationMetric) Distance(a, b []float64) float64 {
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	return 1.0 - cov/math.Sqrt(varA*varB)
}

func (m CorrelationMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (CorrelationMetric) DistToRdist(d float64) float64            { return d }

// PairwiseDistances computes the full n×n distance matrix for flat row-major
// data with n rows and dims columns. Returns a flat []float64 of length n*n.
func PairwiseDistances(data []float64, n, dims int, metric DistanceMetric) []float64 {
	result := make([]float64, n*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}

	return result
}
