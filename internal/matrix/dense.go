package matrix

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the smallest pivot magnitude Solve accepts.
const DefaultTolerance = 1e-10

// Dense is a rows x cols matrix stored row-major.
type Dense struct {
	data []float64
	rows int
	cols int
}

// New returns a zero-filled rows x cols matrix.
func New(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrInvalidDimension)
	}
	return &Dense{
		data: make([]float64, rows*cols),
		rows: rows,
		cols: cols,
	}, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) (*Dense, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// FromRows copies a rectangular slice of rows into a new matrix.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("0 rows: %w", ErrInvalidDimension)
	}
	cols := len(rows[0])
	m, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(r), cols, ErrDimensionMismatch)
		}
		copy(m.data[i*cols:(i+1)*cols], r)
	}
	return m, nil
}

func (m *Dense) Rows() int { return m.rows }
func (m *Dense) Cols() int { return m.cols }

func (m *Dense) index(i, j int) (int, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.rows, m.cols, ErrIndexOutOfRange)
	}
	return i*m.cols + j, nil
}

// At returns the entry at row i, column j.
func (m *Dense) At(i, j int) (float64, error) {
	k, err := m.index(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[k], nil
}

// Set overwrites the entry at row i, column j.
func (m *Dense) Set(i, j int, v float64) error {
	k, err := m.index(i, j)
	if err != nil {
		return err
	}
	m.data[k] = v
	return nil
}

// Add accumulates v into the entry at row i, column j.
func (m *Dense) Add(i, j int, v float64) error {
	k, err := m.index(i, j)
	if err != nil {
		return err
	}
	m.data[k] += v
	return nil
}

// Ptr returns a live reference to the entry at row i, column j.
// The pointer stays valid for the lifetime of m.
func (m *Dense) Ptr(i, j int) (*float64, error) {
	k, err := m.index(i, j)
	if err != nil {
		return nil, err
	}
	return &m.data[k], nil
}

// Clone returns an independent copy.
func (m *Dense) Clone() *Dense {
	c := &Dense{data: make([]float64, len(m.data)), rows: m.rows, cols: m.cols}
	copy(c.data, m.data)
	return c
}

// Raw returns the entries as a fresh slice of rows.
func (m *Dense) Raw() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = make([]float64, m.cols)
		copy(out[i], m.data[i*m.cols:(i+1)*m.cols])
	}
	return out
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	if _, err := m.index(i, 0); err != nil {
		return nil, err
	}
	r := make([]float64, m.cols)
	copy(r, m.data[i*m.cols:(i+1)*m.cols])
	return r, nil
}

// Mul returns m * other.
func (m *Dense) Mul(other *Dense) (*Dense, error) {
	if m.cols != other.rows {
		return nil, fmt.Errorf("%dx%d * %dx%d: %w", m.rows, m.cols, other.rows, other.cols, ErrIncompatibleDimensions)
	}
	result, err := New(m.rows, other.cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			sum := 0.0
			for k := 0; k < m.cols; k++ {
				sum += m.data[i*m.cols+k] * other.data[k*other.cols+j]
			}
			result.data[i*result.cols+j] = sum
		}
	}
	return result, nil
}

// MulVec returns m * x.
func (m *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("vector length %d, matrix %dx%d: %w", len(x), m.rows, m.cols, ErrDimensionMismatch)
	}
	y := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, v := range row {
			y[i] += v * x[j]
		}
	}
	return y, nil
}

// IsSymmetric reports whether m is square with |m[i][j]-m[j][i]| <= tol everywhere.
func (m *Dense) IsSymmetric(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := i + 1; j < m.cols; j++ {
			if math.Abs(m.data[i*m.cols+j]-m.data[j*m.cols+i]) > tol {
				return false
			}
		}
	}
	return true
}

// Solve solves m * x = b with the default pivot tolerance.
func (m *Dense) Solve(b []float64) ([]float64, error) {
	return m.SolveTol(b, DefaultTolerance)
}

// SolveTol solves m * x = b by Gaussian elimination with partial pivoting.
// Any pivot with magnitude below tol aborts with a *SingularError.
// The receiver and b are left untouched.
func (m *Dense) SolveTol(b []float64, tol float64) ([]float64, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	if len(b) != m.rows {
		return nil, fmt.Errorf("len(b)=%d, rows=%d: %w", len(b), m.rows, ErrDimensionMismatch)
	}

	n := m.rows
	w := n + 1

	// augmented [A|b]
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, w)
		copy(aug[i], m.data[i*n:(i+1)*n])
		aug[i][n] = b[i]
	}

	for i := 0; i < n; i++ {
		maxRow := i
		maxVal := math.Abs(aug[i][i])
		for k := i + 1; k < n; k++ {
			if v := math.Abs(aug[k][i]); v > maxVal {
				maxVal = v
				maxRow = k
			}
		}
		if maxVal < tol {
			return nil, &SingularError{Phase: "elimination", Row: i, Pivot: maxVal}
		}
		if maxRow != i {
			aug[i], aug[maxRow] = aug[maxRow], aug[i]
		}

		for k := i + 1; k < n; k++ {
			factor := aug[k][i] / aug[i][i]
			if factor == 0 {
				continue
			}
			for j := i; j < w; j++ {
				aug[k][j] -= factor * aug[i][j]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for j := i + 1; j < n; j++ {
			sum += aug[i][j] * x[j]
		}
		if d := math.Abs(aug[i][i]); d < tol {
			return nil, &SingularError{Phase: "back substitution", Row: i, Pivot: d}
		}
		x[i] = (aug[i][n] - sum) / aug[i][i]
	}

	return x, nil
}

func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%12.5g", m.data[i*m.cols+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
