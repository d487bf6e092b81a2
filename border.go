package pacont

import (
	"fmt"

	"github.com/nlsolve/pacont/linsolve"
)

// solveBordered solves the bordered linear system
//
//	J*dx + dp*fp = f
//	cWeight*<c, dx> + d*dp = g
//
// via the bordering lemma (Design Notes §9): solve J*u = f and J*v = fp,
// then dp = (g - cWeight*<c,u>) / (d - cWeight*<c,v>), dx = u - dp*v.
// This is used by both the tangent predictor (§4.4, f=0) and the
// continuation corrector (§4.5, f=-F(x,p)), so the augmented (N+1)x(N+1)
// system is never assembled, whatever the solver — it preserves
// whatever preconditioner structure the caller built for J alone.
func solveBordered(solver linsolve.Solver, op linsolve.Operator, fp, f, c Vector, cWeight, d, g float64) (Vector, float64, error) {
	u, convU, _, errU := solver.Solve(op, f)
	if errU != nil || !convU {
		return nil, 0, fmt.Errorf("%w: bordering lemma J*u=f solve failed: %v", ErrLinearSolveFailure, errU)
	}
	v, convV, _, errV := solver.Solve(op, fp)
	if errV != nil || !convV {
		return nil, 0, fmt.Errorf("%w: bordering lemma J*v=dF/dp solve failed: %v", ErrLinearSolveFailure, errV)
	}

	cu := c.Dot(u)
	cv := c.Dot(v)
	denom := d - cWeight*cv
	if denom == 0 {
		return nil, 0, fmt.Errorf("%w: bordering lemma denominator vanished", ErrLinearSolveFailure)
	}
	dp := (g - cWeight*cu) / denom

	dx := u.Clone()
	dx.AXPY(-dp, v)
	return dx, dp, nil
}
