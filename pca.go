package scgo

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCAResult holds a principal component projection of an expression matrix.
type PCAResult struct {
	// Projection is the cells×components score matrix. Column names are
	// "PC1".."PCn"; row names are carried over from the input.
	Projection *Matrix

	// Components is the features×components loading matrix.
	Components *mat.Dense

	// ExplainedVariance is the variance captured by each kept component.
	ExplainedVariance []float64

	// ExplainedVarianceRatio is ExplainedVariance divided by the total
	// variance across all features.
	ExplainedVarianceRatio []float64
}

// PCA projects the matrix onto its first `components` principal components
// using gonum's SVD-based stat.PC. Component signs are arbitrary, as with
// any SVD factorization; only directions are meaningful.
func PCA(m *Matrix, components int) (*PCAResult, error) {
	if components < 1 {
		return nil, fmt.Errorf("scgo: PCA components must be >= 1, got %d", components)
	}
	limit := min(m.Rows, m.Cols)
	if components > limit {
		return nil, fmt.Errorf("scgo: PCA components=%d exceeds min(cells, features)=%d", components, limit)
	}
	if m.Rows < 2 {
		return nil, fmt.Errorf("scgo: PCA needs at least 2 cells, got %d", m.Rows)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m.Dense(), nil); !ok {
		return nil, fmt.Errorf("scgo: PCA decomposition failed (SVD did not converge)")
	}

	var loadings mat.Dense
	pc.VectorsTo(&loadings)
	vars := pc.VarsTo(nil)
	total := floats.Sum(vars)

	kept := mat.DenseCopyOf(loadings.Slice(0, m.Cols, 0, components))

	// Scores are the mean-centered data projected onto the loadings.
	centered := mat.NewDense(m.Rows, m.Cols, append([]float64(nil), m.Data...))
	colBuf := make([]float64, m.Rows)
	for j := 0; j < m.Cols; j++ {
		mean := stat.Mean(m.Col(colBuf, j), nil)
		for i := 0; i < m.Rows; i++ {
			centered.Set(i, j, centered.At(i, j)-mean)
		}
	}

	proj := NewMatrix(m.Rows, components)
	proj.Dense().Mul(centered, kept)
	if m.RowNames != nil {
		proj.RowNames = append([]string(nil), m.RowNames...)
	}
	proj.ColNames = make([]string, components)
	for j := 0; j < components; j++ {
		proj.ColNames[j] = fmt.Sprintf("PC%d", j+1)
	}

	explained := append([]float64(nil), vars[:components]...)
	ratio := make([]float64, components)
	if total > 0 {
		for j, v := range explained {
			ratio[j] = v / total
		}
	}

	return &PCAResult{
		Projection:             proj,
		Components:             kept,
		ExplainedVariance:      explained,
		ExplainedVarianceRatio: ratio,
	}, nil
}
