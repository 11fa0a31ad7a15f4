// Package matrix provides a small dense matrix of float64 values.
//
// The package covers what a direct stiffness solve needs and nothing more:
//
//   - [Dense]: row-major container with bounds-checked element access
//   - [Dense.Mul]: standard matrix product
//   - [Dense.Solve]: Gaussian elimination with partial pivoting
//
// # Example
//
//	a, _ := matrix.FromRows([][]float64{{4, 1}, {1, 3}})
//	x, err := a.Solve([]float64{1, 2})
//	if errors.Is(err, matrix.ErrSingularMatrix) {
//	    // system has no unique solution
//	}
//
// # Thread Safety
//
// Mul and Solve never mutate their receiver or arguments, so concurrent
// reads are safe. Set, Add and Ptr are not synchronized.
package matrix
