package pacont

import (
	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

// BratuProblem is the finite-difference discretisation of the §8
// Bratu-like boundary value problem:
//
//	Δx + p*(1+x+0.5x^2)/(1+0.01x^2) = 0 on (0,1), x(0) = x(1) = 0.01
//
// discretised to N interior grid points with Dirichlet data at the
// endpoints. Exported so the CLI driver and the fold-refinement tests
// can trace and refine the same branch without re-deriving it.
type BratuProblem struct {
	N           int
	h           float64
	left, right float64
}

// NewBratuProblem returns the n-point discretisation with the §8
// boundary data x(0) = x(1) = 0.01.
func NewBratuProblem(n int) BratuProblem {
	return BratuProblem{N: n, h: 1.0 / float64(n+1), left: 0.01, right: 0.01}
}

// Seed returns the constant state x≡0.01, an exact solution at p=0
// since Δ(const)=0 and the nonlinear term vanishes with p. Continue
// starts here rather than from an approximate parabolic guess, so the
// initial Newton solve needs no iterations.
func (b BratuProblem) Seed() Vector {
	x := make([]float64, b.N)
	for i := range x {
		x[i] = b.left
	}
	return NewDenseVector(x)
}

func (b BratuProblem) neighbours(x []float64, i int) (float64, float64) {
	left := b.left
	if i > 0 {
		left = x[i-1]
	}
	right := b.right
	if i < b.N-1 {
		right = x[i+1]
	}
	return left, right
}

// Residual implements F for use as pacont.F.
func (b BratuProblem) Residual(x Vector, p float64) Vector {
	v := vector.AsDense(x)
	out := make([]float64, b.N)
	h2 := b.h * b.h
	for i := 0; i < b.N; i++ {
		left, right := b.neighbours(v, i)
		lap := (left - 2*v[i] + right) / h2
		numer := 1 + v[i] + 0.5*v[i]*v[i]
		denom := 1 + 0.01*v[i]*v[i]
		out[i] = lap + p*numer/denom
	}
	return vector.NewDense(out)
}

// Jacobian implements J for use as pacont.J.
func (b BratuProblem) Jacobian(x Vector, p float64) linsolve.Operator {
	v := vector.AsDense(x)
	h2 := b.h * b.h
	m := mat.NewDense(b.N, b.N, nil)
	for i := 0; i < b.N; i++ {
		if i > 0 {
			m.Set(i, i-1, 1/h2)
		}
		if i < b.N-1 {
			m.Set(i, i+1, 1/h2)
		}
		numer := 1 + v[i] + 0.5*v[i]*v[i]
		denom := 1 + 0.01*v[i]*v[i]
		dNumer := 1 + v[i]
		dDenom := 0.02 * v[i]
		dNonlin := p * (dNumer*denom - numer*dDenom) / (denom * denom)
		m.Set(i, i, -2/h2+dNonlin)
	}
	return bratuOperator{m: m}
}

type bratuOperator struct{ m *mat.Dense }

func (o bratuOperator) Dim() int { r, _ := o.m.Dims(); return r }

func (o bratuOperator) Apply(x Vector) Vector {
	xd := mat.NewVecDense(o.Dim(), vector.AsDense(x))
	var yd mat.VecDense
	yd.MulVec(o.m, xd)
	return vector.NewDense(append([]float64(nil), yd.RawVector().Data...))
}

func (o bratuOperator) Dense() *mat.Dense { return o.m }
