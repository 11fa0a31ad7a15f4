package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension indicates a non-positive row or column count.
	ErrInvalidDimension = errors.New("matrix: dimensions must be positive")

	// ErrIndexOutOfRange indicates element access outside the matrix extent.
	ErrIndexOutOfRange = errors.New("matrix: index out of range")

	// ErrIncompatibleDimensions indicates operands that cannot be multiplied.
	ErrIncompatibleDimensions = errors.New("matrix: incompatible dimensions for multiplication")

	// ErrNotSquare indicates an operation that requires a square matrix.
	ErrNotSquare = errors.New("matrix: matrix must be square")

	// ErrDimensionMismatch indicates a right-hand side whose length differs from the row count.
	ErrDimensionMismatch = errors.New("matrix: vector length does not match matrix rows")

	// ErrSingularMatrix indicates a singular or nearly singular system.
	ErrSingularMatrix = errors.New("matrix: matrix is singular or nearly singular")
)

// SingularError records where elimination broke down.
type SingularError struct {
	Phase string // "elimination" or "back substitution"
	Row   int
	Pivot float64
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("%s at row %d (|pivot|=%.3g, %s)", ErrSingularMatrix, e.Row, e.Pivot, e.Phase)
}

func (e *SingularError) Unwrap() error {
	return ErrSingularMatrix
}
