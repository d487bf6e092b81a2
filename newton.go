package pacont

import (
	"fmt"
	"math"

	"github.com/nlsolve/pacont/linsolve"
)

// Residual is a user-supplied residual functional R: Vector -> Vector.
type Residual func(x Vector) Vector

// Jacobian is a user-supplied Jacobian functional, returning a linear
// operator at x. It is matrix-free (linsolve.Operator) or, if the
// problem wants to use the Direct solver, a linsolve.DenseOperator.
type Jacobian func(x Vector) linsolve.Operator

// Newton runs damped Newton iteration on R starting from x0, solving the
// linear correction at each step with solver. normFn overrides the
// convergence norm (defaults to Vector.Norm).
//
// Newton idempotence: if ||R(x0)|| <= opts.Tol already, Newton returns
// x0 unchanged with zero additional iterations (§8 property 1).
func Newton(r Residual, j Jacobian, x0 Vector, opts NewtonOptions, solver linsolve.Solver, log Logger, normFn ...normFunc) (Vector, []float64, bool, error) {
	norm := defaultNorm
	if len(normFn) > 0 && normFn[0] != nil {
		norm = normFn[0]
	}
	if solver == nil {
		solver = linsolve.NewDirect()
	}

	x := x0.Clone()
	history := make([]float64, 0, opts.MaxIter+1)

	res := r(x)
	n := norm(res)
	if err := checkFinite(n); err != nil {
		return x, history, false, err
	}
	history = append(history, n)
	if opts.Verbose {
		logNewtonIter(log, 0, n, n <= opts.Tol)
	}
	if n <= opts.Tol {
		return x, history, true, nil
	}

	for k := 0; k < opts.MaxIter; k++ {
		op := j(x)
		delta, converged, _, err := solver.Solve(op, res)
		if err != nil || !converged {
			return x, history, false, fmt.Errorf("%w: %v", ErrLinearSolveFailure, err)
		}

		alpha := 1.0
		xNext := x.Clone()
		xNext.AXPY(-alpha, delta)
		resNext := r(xNext)
		nNext := norm(resNext)

		if opts.Linesearch {
			for i := 0; i < maxBacktrack && (math.IsNaN(nNext) || math.IsInf(nNext, 0) || nNext >= n); i++ {
				alpha *= 0.5
				xNext = x.Clone()
				xNext.AXPY(-alpha, delta)
				resNext = r(xNext)
				nNext = norm(resNext)
			}
		}

		if err := checkFinite(nNext); err != nil {
			return x, history, false, err
		}

		x, res, n = xNext, resNext, nNext
		history = append(history, n)
		if opts.Verbose {
			logNewtonIter(log, k+1, n, n <= opts.Tol)
		}
		if n <= opts.Tol {
			return x, history, true, nil
		}
	}

	return x, history, false, ErrNonConvergence
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFinite
	}
	return nil
}
