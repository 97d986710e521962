package scgo

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense cells×features expression matrix stored flat in
// row-major order. RowNames (cell barcodes) and ColNames (gene symbols)
// are optional and may be nil.
type Matrix struct {
	Rows, Cols int
	Data       []float64 // flat row-major, length Rows*Cols
	RowNames   []string
	ColNames   []string
}

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

// Row returns row i as a slice aliasing the underlying storage.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// Col copies column j into dst, allocating if dst is nil or too short.
func (m *Matrix) Col(dst []float64, j int) []float64 {
	if cap(dst) < m.Rows {
		dst = make([]float64, m.Rows)
	}
	dst = dst[:m.Rows]
	for i := 0; i < m.Rows; i++ {
		dst[i] = m.Data[i*m.Cols+j]
	}
	return dst
}

// Clone returns a deep copy of the matrix, including names.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		Rows: m.Rows,
		Cols: m.Cols,
		Data: make([]float64, len(m.Data)),
	}
	copy(c.Data, m.Data)
	if m.RowNames != nil {
		c.RowNames = append([]string(nil), m.RowNames...)
	}
	if m.ColNames != nil {
		c.ColNames = append([]string(nil), m.ColNames...)
	}
	return c
}

// SelectColumns returns a new matrix containing the given columns in order,
// carrying over column names where present.
func (m *Matrix) SelectColumns(cols []int) (*Matrix, error) {
	for _, j := range cols {
		if j < 0 || j >= m.Cols {
			return nil, fmt.Errorf("scgo: column index %d out of range [0, %d)", j, m.Cols)
		}
	}

	sub := NewMatrix(m.Rows, len(cols))
	for i := 0; i < m.Rows; i++ {
		src := m.Row(i)
		dst := sub.Row(i)
		for jj, j := range cols {
			dst[jj] = src[j]
		}
	}
	if m.RowNames != nil {
		sub.RowNames = append([]string(nil), m.RowNames...)
	}
	if m.ColNames != nil {
		sub.ColNames = make([]string, len(cols))
		for jj, j := range cols {
			sub.ColNames[jj] = m.ColNames[j]
		}
	}
	return sub, nil
}

// Dense returns a gonum view over the matrix storage. Mutating the returned
// Dense mutates the Matrix.
func (m *Matrix) Dense() *mat.Dense {
	return mat.NewDense(m.Rows, m.Cols, m.Data)
}

// RowSlices returns the matrix as a slice of row slices aliasing the
// underlying storage, for APIs that take [][]float64.
func (m *Matrix) RowSlices() [][]float64 {
	rows := make([][]float64, m.Rows)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}

// ReadCSV parses a numeric CSV into a Matrix. If the first record contains
// any non-numeric field it is treated as a header of column names.
func ReadCSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("scgo: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("scgo: empty csv input")
	}

	var colNames []string
	if !allNumeric(records[0]) {
		colNames = records[0]
		records = records[1:]
		if len(records) == 0 {
			return nil, fmt.Errorf("scgo: csv input has a header but no data rows")
		}
	}

	cols := len(records[0])
	m := NewMatrix(len(records), cols)
	m.ColNames = colNames
	for i, rec := range records {
		if len(rec) != cols {
			return nil, fmt.Errorf("scgo: csv row %d has %d fields, want %d", i+1, len(rec), cols)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("scgo: csv row %d field %d: %w", i+1, j+1, err)
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

func allNumeric(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return false
		}
	}
	return true
}
