package solver

import (
	"math"

	"github.com/san-kum/trussim/internal/matrix"
	"gonum.org/v1/gonum/mat"
)

// Condition returns the 2-norm condition number of K, or +Inf when K is
// exactly singular.
func Condition(K *matrix.Dense) float64 {
	n := K.Rows()
	if n == 0 || n != K.Cols() {
		return math.Inf(1)
	}
	flat := make([]float64, 0, n*n)
	for _, row := range K.Raw() {
		flat = append(flat, row...)
	}
	return mat.Cond(mat.NewDense(n, n, flat), 2)
}
