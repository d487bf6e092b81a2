package linsolve

import (
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

// Operator is a matrix-free linear operator: the only capability the
// Krylov solver requires of a Jacobian. Direct requires the richer
// DenseOperator below.
type Operator interface {
	// Apply returns J*x without forming J.
	Apply(x vector.Vector) vector.Vector
	// Dim returns the dimension of the operator (both rows and columns;
	// the core only ever solves square systems).
	Dim() int
}

// DenseOperator is an Operator that can also materialise itself as a
// dense matrix, required by the Direct solver.
type DenseOperator interface {
	Operator
	// Dense returns the matrix backing the operator. The returned
	// *mat.Dense must not be mutated by the caller.
	Dense() *mat.Dense
}

// funcOperator adapts a plain function into an Operator, mirroring the
// teacher's ode.Integrable.Func adapter shape.
type funcOperator struct {
	apply func(vector.Vector) vector.Vector
	dim   int
}

// NewOperator wraps a matrix-free apply function as an Operator.
func NewOperator(dim int, apply func(vector.Vector) vector.Vector) Operator {
	return funcOperator{apply: apply, dim: dim}
}

func (f funcOperator) Apply(x vector.Vector) vector.Vector { return f.apply(x) }
func (f funcOperator) Dim() int                             { return f.dim }

// shiftedOperator computes J*v + sigma*v without forming J + sigma*I,
// per the spec's shifted-system requirement for the Krylov path.
type shiftedOperator struct {
	op    Operator
	sigma float64
}

func (s shiftedOperator) Apply(x vector.Vector) vector.Vector {
	y := s.op.Apply(x)
	if s.sigma != 0 {
		z := x.Clone()
		z.Scale(s.sigma)
		y.AXPY(1, z)
	}
	return y
}

func (s shiftedOperator) Dim() int { return s.op.Dim() }
