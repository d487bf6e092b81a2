package pacont

import (
	"math"

	"github.com/nlsolve/pacont/linsolve"
)

// Continue traces a branch of F(x, p) = 0 starting from the converged
// point (x0, p0), using pseudo-arclength predictor/corrector continuation
// with adaptive step control (§4.5). It always returns a non-nil Branch.
// Once the seed point converges, the branch holds at least that point and
// a TerminalReason describing why the run stopped; the error return is
// reserved for setup failures (the seed point itself failing to converge,
// a non-finite seed residual, or a failed initial tangent solve). When the
// seed fails, the branch is returned empty.
func Continue(f F, j J, x0 Vector, p0 float64, opts ContinuationOptions, hooks Hooks) (*Branch, Vector, error) {
	opts = opts.withDefaults()
	solver := hooks.LinearSolver
	if solver == nil {
		solver = linsolve.NewDirect()
	}
	norm := defaultNorm
	if hooks.NormFn != nil {
		norm = hooks.NormFn
	}

	branch := &Branch{}

	x, _, converged, err := Newton(
		func(x Vector) Vector { return f(x, p0) },
		func(x Vector) linsolve.Operator { return j(x, p0) },
		x0, opts.Newton, solver, hooks.Logger, norm,
	)
	if err != nil || !converged {
		return branch, x, err
	}

	branch.Append(Point{X: x.Clone(), P: p0, DS: 0, NormX: norm(x)})

	tan, err := initialTangent(f, j, x, p0, opts.Theta, opts.FDStep, solver)
	if err != nil {
		return branch, x, err
	}

	ds := opts.DS0
	p := p0
	prevDP := tan.DP

	for step := 1; step <= opts.MaxSteps; step++ {
		xPred := x.Clone()
		xPred.AXPY(ds, tan.DX)
		pPred := p + ds*tan.DP

		xNew, pNew, tanNew, nIter, converged, _ := correctorStep(f, j, x, p, tan, xPred, pPred, ds, opts, solver, hooks.Logger, norm)
		// §4.5 step 3: a corrector that converges but takes more than
		// DesiredIter iterations is rejected exactly like a failed one.
		accept := converged && nIter <= opts.DesiredIter

		if opts.Newton.Verbose {
			logContinuationStep(hooks.Logger, step, pPred, ds, accept, nIter)
		}

		if !accept {
			atFloor := ds <= opts.DSMin
			ds = math.Max(ds/opts.Shrink, opts.DSMin)
			if atFloor {
				branch.Reason = StepSizeFloor
				return branch, x, nil
			}
			step--
			continue
		}

		if err := checkFinite(norm(xNew)); err != nil || math.IsNaN(pNew) || math.IsInf(pNew, 0) {
			branch.Reason = NonFinite
			return branch, x, nil
		}

		if opts.DetectFold && signFlip(prevDP, tanNew.DP) {
			frac := prevDP / (prevDP - tanNew.DP)
			branch.Markers = append(branch.Markers, Marker{
				IndexInBranch:      len(branch.Points),
				Kind:               FoldKind,
				BracketedParameter: p + frac*(pNew-p),
			})
			if opts.Newton.Verbose {
				logFoldMarker(hooks.Logger, step, pNew)
			}
		}

		x, p, tan = xNew, pNew, tanNew
		branch.Append(Point{X: x.Clone(), P: p, DS: ds, NormX: norm(x)})

		if hooks.Finalise != nil && !hooks.Finalise(x, tan, step, branch) {
			branch.Reason = UserAbort
			return branch, x, nil
		}

		if p <= opts.PMin || p >= opts.PMax {
			branch.Reason = DomainExit
			return branch, x, nil
		}

		if opts.DoArcLengthScaling {
			ds = math.Min(ds*opts.Growth, opts.DSMax)
		}

		prevDP = tan.DP
	}

	branch.Reason = MaxStepsReached
	return branch, x, nil
}

// correctorStep runs the bordered Newton corrector on the augmented
// system (§4.5 step 2):
//
//	F(x, p)                                           = 0
//	theta*<x-xPrev, dx>/N + (1-theta)*(p-pPrev)*dp - ds = 0
//
// starting from the predictor (xPred, pPred), then rebuilds the tangent
// at the corrected point with BorderedTangent, oriented against the
// previous tangent. opts.TangentAlgorithm is not read: the secant
// predictor is never used here.
func correctorStep(f F, j J, xPrev Vector, pPrev float64, tanPrev Tangent, xPred Vector, pPred, ds float64, opts ContinuationOptions, solver linsolve.Solver, log Logger, norm normFunc) (Vector, float64, Tangent, int, bool, error) {
	x := xPred.Clone()
	p := pPred
	n := x.Len()

	var iters int
	for iters = 0; iters < opts.Newton.MaxIter; iters++ {
		res := f(x, p)
		xDiff := x.Clone()
		xDiff.AXPY(-1, xPrev)
		gNorm := opts.Theta*xDiff.Dot(tanPrev.DX)/float64(n) + (1-opts.Theta)*(p-pPrev)*tanPrev.DP - ds

		rn := math.Sqrt(norm(res)*norm(res) + gNorm*gNorm)
		if opts.Newton.Verbose {
			logNewtonIter(log, iters, rn, rn <= opts.Newton.Tol)
		}
		if rn <= opts.Newton.Tol {
			tan, terr := BorderedTangent(f, j, x, p, tanPrev, opts.Theta, opts.FDStep, solver)
			if terr != nil {
				return nil, 0, Tangent{}, iters, false, terr
			}
			return x, p, tan, iters, true, nil
		}

		op := j(x, p)
		fp := dFdP(f, x, p, opts.FDStep)

		resNeg := res.Clone()
		resNeg.Scale(-1)

		dx, dp, err := solveBordered(solver, op, fp, resNeg, tanPrev.DX, opts.Theta/float64(n), (1-opts.Theta)*tanPrev.DP, -gNorm)
		if err != nil {
			return nil, 0, Tangent{}, iters, false, err
		}

		x.AXPY(1, dx)
		p += dp
	}

	return nil, 0, Tangent{}, iters, false, ErrNonConvergence
}

func signFlip(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
