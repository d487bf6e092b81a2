package pacont

import (
	"math"

	"github.com/nlsolve/pacont/linsolve"
)

// F is a user-supplied residual F(x, p) = 0 for the continuation loop,
// jointly a function of the state and the scalar parameter.
type F func(x Vector, p float64) Vector

// J is a user-supplied Jacobian of F with respect to x, at (x, p).
type J func(x Vector, p float64) linsolve.Operator

// Tangent is a unit tangent (dx, dp) in (x, p)-space, normalised so that
// theta*||dx||^2/N + (1-theta)*dp^2 == 1.
type Tangent struct {
	DX Vector
	DP float64
}

// dFdP approximates the partial derivative of F with respect to p at
// (x, p) by a one-sided finite difference with step fdStep.
func dFdP(f F, x Vector, p, fdStep float64) Vector {
	fp := f(x, p+fdStep)
	f0 := f(x, p)
	fp.AXPY(-1, f0)
	fp.Scale(1 / fdStep)
	return fp
}

// normaliseTangent scales (dx, dp) so that
// theta*||dx||^2/n + (1-theta)*dp^2 == 1, flipping sign if it points
// against prev (orientation rule, §4.4).
func normaliseTangent(dx Vector, dp float64, theta float64, n int, prev *Tangent) Tangent {
	scale := theta*dx.Norm()*dx.Norm()/float64(n) + (1-theta)*dp*dp
	scale = math.Sqrt(scale)
	if scale == 0 {
		scale = 1
	}
	dx.Scale(1 / scale)
	dp /= scale

	if prev != nil {
		dot := theta*dx.Dot(prev.DX)/float64(n) + (1-theta)*dp*prev.DP
		if dot < 0 {
			dx.Scale(-1)
			dp = -dp
		}
	}
	return Tangent{DX: dx, DP: dp}
}

// SecantTangent builds the tangent from the last two accepted points:
// dx = (x_k - x_{k-1})/ds, dp = (p_k - p_{k-1})/ds.
func SecantTangent(xPrev Vector, pPrev float64, xCurr Vector, pCurr float64, ds, theta float64) Tangent {
	dx := xCurr.Clone()
	dx.AXPY(-1, xPrev)
	dx.Scale(1 / ds)
	dp := (pCurr - pPrev) / ds
	return normaliseTangent(dx, dp, theta, xCurr.Len(), nil)
}

// BorderedTangent solves the (N+1)x(N+1) augmented system
//
//	[ J(x,p)       dF/dp ] [dx]   [0]
//	[ theta*dx0^T/N (1-theta)*dp0 ] [dp] = [1]
//
// via the bordering lemma against the previous tangent (dx0, dp0), using
// solver for the two inner J-solves.
func BorderedTangent(f F, j J, x Vector, p float64, prev Tangent, theta, fdStep float64, solver linsolve.Solver) (Tangent, error) {
	if solver == nil {
		solver = linsolve.NewDirect()
	}
	op := j(x, p)
	fp := dFdP(f, x, p, fdStep)
	n := x.Len()

	zero := x.Clone()
	zero.Scale(0)

	dx, dp, err := solveBordered(solver, op, fp, zero, prev.DX, theta/float64(n), (1-theta)*prev.DP, 1)
	if err != nil {
		return Tangent{}, err
	}
	return normaliseTangent(dx, dp, theta, n, &prev), nil
}

// initialTangent computes the very first tangent of a run by solving the
// bordered system against an arbitrary seed tangent (0, 1), per §4.5
// Initialisation.
func initialTangent(f F, j J, x Vector, p, theta, fdStep float64, solver linsolve.Solver) (Tangent, error) {
	zero := x.Clone()
	zero.Scale(0)
	seed := Tangent{DX: zero, DP: 1}
	return BorderedTangent(f, j, x, p, seed, theta, fdStep, solver)
}
