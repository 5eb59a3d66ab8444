package aligner

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Cell locates one matrix entry.
type Cell struct {
	Row    int
	Column string
}

// Matrix is a dense row-major feature matrix whose columns follow the training schema.
// Absent cells of a known column are NaN; cells that could not be read as numbers are
// recorded in Malformed and hold NaN.
type Matrix struct {
	columns   []string
	rows      int
	data      []float64
	malformed []Cell
}

func newMatrix(columns []string, rows int) *Matrix {
	return &Matrix{
		columns: columns,
		rows:    rows,
		data:    make([]float64, rows*len(columns)),
	}
}

func (m *Matrix) Rows() int {
	return m.rows
}

func (m *Matrix) Cols() int {
	return len(m.columns)
}

// Columns returns a copy of the column order
func (m *Matrix) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

func (m *Matrix) At(i, j int) float64 {
	return m.data[i*len(m.columns)+j]
}

func (m *Matrix) set(i, j int, v float64) {
	m.data[i*len(m.columns)+j] = v
}

// Row returns a copy of row i
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, len(m.columns))
	copy(out, m.data[i*len(m.columns):(i+1)*len(m.columns)])
	return out
}

// Value returns the cell of row i under the named column.
func (m *Matrix) Value(i int, column string) (float64, bool) {
	for j, c := range m.columns {
		if c == column {
			return m.At(i, j), true
		}
	}
	return math.NaN(), false
}

func (m *Matrix) Malformed() []Cell {
	return m.malformed
}

// Validate fails when any cell could not be read as a number.
func (m *Matrix) Validate() error {
	if len(m.malformed) == 0 {
		return nil
	}
	c := m.malformed[0]
	return fmt.Errorf("%d non-numeric cells, first at row %d column %q", len(m.malformed), c.Row, c.Column)
}

// Dense returns a gonum view over a copy of the data, or nil when the matrix has no rows
// or no columns.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || len(m.columns) == 0 {
		return nil
	}
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return mat.NewDense(m.rows, len(m.columns), data)
}
