package scgo

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NormalizeTotal scales each cell (row) so its counts sum to targetSum,
// removing sequencing-depth differences between cells. Rows that sum to zero
// are left untouched. Modifies m in place.
func NormalizeTotal(m *Matrix, targetSum float64) error {
	if targetSum <= 0 {
		return fmt.Errorf("scgo: NormalizeTotal targetSum must be > 0, got %f", targetSum)
	}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		total := floats.Sum(row)
		if total == 0 {
			continue
		}
		floats.Scale(targetSum/total, row)
	}
	return nil
}

// Log1p applies log(1+x) to every entry, compressing the dynamic range of
// expression counts. Modifies m in place.
func Log1p(m *Matrix) {
	for i, v := range m.Data {
		m.Data[i] = math.Log1p(v)
	}
}

// HighlyVariableGenes returns the column indices of the top `n` features by
// variance, in ascending column order so downstream selection preserves the
// original gene ordering.
func HighlyVariableGenes(m *Matrix, n int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("scgo: HighlyVariableGenes n must be >= 1, got %d", n)
	}
	if n > m.Cols {
		return nil, fmt.Errorf("scgo: HighlyVariableGenes n=%d exceeds %d features", n, m.Cols)
	}

	variances := make([]float64, m.Cols)
	col := make([]float64, m.Rows)
	for j := 0; j < m.Cols; j++ {
		col = m.Col(col, j)
		variances[j] = stat.Variance(col, nil)
	}

	order := make([]int, m.Cols)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return variances[order[a]] > variances[order[b]]
	})

	selected := append([]int(nil), order[:n]...)
	sort.Ints(selected)
	return selected, nil
}

// SelectHighlyVariable returns a new matrix restricted to the top `n`
// features by variance.
func SelectHighlyVariable(m *Matrix, n int) (*Matrix, error) {
	idx, err := HighlyVariableGenes(m, n)
	if err != nil {
		return nil, err
	}
	return m.SelectColumns(idx)
}

// Scale standardizes each feature (column) to zero mean and unit variance.
// Features with zero variance are centered only. If maxValue > 0, scaled
// values are clipped to [-maxValue, maxValue], which limits the influence of
// extreme outlier cells. Modifies m in place.
func Scale(m *Matrix, maxValue float64) {
	col := make([]float64, m.Rows)
	for j := 0; j < m.Cols; j++ {
		col = m.Col(col, j)
		mean, std := stat.MeanStdDev(col, nil)
		for i := 0; i < m.Rows; i++ {
			v := m.At(i, j) - mean
			if std > 0 {
				v /= std
			}
			if maxValue > 0 {
				v = math.Max(-maxValue, math.Min(maxValue, v))
			}
			m.Set(i, j, v)
		}
	}
}
