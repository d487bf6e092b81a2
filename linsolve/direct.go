package linsolve

import (
	"fmt"

	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

// Direct solves J*x = b by LU factorisation, grounded on the teacher's
// use of mat64.Dense.Inverse in estimate.go's state-transition-matrix
// propagation (modernised here to gonum.org/v1/gonum/mat's LU
// decomposition, which additionally reports singularity without a panic).
type Direct struct{}

// NewDirect returns a Direct solver.
func NewDirect() *Direct { return &Direct{} }

// Solve implements Solver.
func (d *Direct) Solve(op Operator, b vector.Vector) (vector.Vector, bool, int, error) {
	return d.SolveShifted(op, b, 0)
}

// SolveShifted implements Solver. op must also implement DenseOperator.
func (d *Direct) SolveShifted(op Operator, b vector.Vector, sigma float64) (vector.Vector, bool, int, error) {
	dop, ok := op.(DenseOperator)
	if !ok {
		return nil, false, 0, fmt.Errorf("pacont/linsolve: Direct requires a DenseOperator, got %T", op)
	}
	n := dop.Dim()
	var a mat.Dense
	a.CloneFrom(dop.Dense())
	if sigma != 0 {
		for i := 0; i < n; i++ {
			a.Set(i, i, a.At(i, i)+sigma)
		}
	}

	var lu mat.LU
	lu.Factorize(&a)

	bd := mat.NewVecDense(n, vector.AsDense(b))
	var xd mat.VecDense
	if err := lu.SolveVecTo(&xd, false, bd); err != nil {
		return nil, false, 0, fmt.Errorf("pacont/linsolve: %w: %v", ErrSingular, err)
	}

	x := vector.NewDense(xd.RawVector().Data)
	return x, true, 0, nil
}
