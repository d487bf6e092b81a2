// Package fold refines a fold-point marker detected by Continue into an
// accurate (x, p) pair via the minimally augmented formulation (§4.6):
// extend the unknowns to (x, p), keep the fixed null/left-null vectors
// (A, B) from the point where the fold was bracketed, and drive the
// scalar test function -1/<B, w> to zero alongside F(x, p) = 0, where w
// solves J(x, p)*w = A.
package fold

import (
	"errors"
	"fmt"
	"math"

	pacont "github.com/nlsolve/pacont"
	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

// FoldPoint is the refined augmented unknown: the state, the parameter,
// and the final test-function value (ideally ~0 at a true fold; retained
// under the name the source spec uses, ℓ).
type FoldPoint struct {
	X pacont.Vector
	P float64
	L float64
}

// Bilinear approximates the directional derivative of J(x,p) applied to
// w, in the direction (dx, dp): d/dε [ J(x+ε·dx, p+ε·dp) · w ] at ε=0.
// Supplying one lets NewtonFold build the <B,w>-row of the augmented
// Jacobian analytically instead of by finite difference (§4.6).
type Bilinear func(x pacont.Vector, p float64, w pacont.Vector, dx pacont.Vector, dp float64) pacont.Vector

// Problem bundles the fixed null/left-null vectors chosen at the
// bracketed fold (commonly the tangent's dx/dp components, or a vector
// from inverse iteration against J at the bracketing point).
type Problem struct {
	A, B pacont.Vector
}

// EstimateNullVectors approximates the right null vector of J(x,p) by
// one step of inverse iteration: solve J*a = r for an arbitrary seed r,
// then normalise. Without a transpose operator on Operator, the left
// null vector is approximated by the same solve (exact when J is
// symmetric near the fold; otherwise the fold row is still a valid,
// merely non-optimal, bordering vector — see DESIGN.md).
func EstimateNullVectors(op linsolve.Operator, solver linsolve.Solver) (Problem, error) {
	n := op.Dim()
	seed := make([]float64, n)
	for i := range seed {
		seed[i] = 1
	}
	r := vector.NewDense(seed)

	a, converged, _, err := solver.Solve(op, r)
	if err != nil || !converged {
		return Problem{}, fmt.Errorf("fold: null-vector inverse iteration failed: %v", err)
	}
	a.Scale(1 / a.Norm())
	return Problem{A: a, B: a.Clone()}, nil
}

// NewtonFold refines the fold marker at branch.Markers[markerIndex] into
// an accurate FoldPoint by Newton iteration on the augmented system,
// starting from the two points bracketing the marker.
func NewtonFold(f pacont.F, j pacont.J, jadj Bilinear, branch *pacont.Branch, markerIndex int, opts pacont.NewtonOptions) (FoldPoint, []float64, bool, error) {
	if markerIndex < 0 || markerIndex >= len(branch.Markers) {
		return FoldPoint{}, nil, false, fmt.Errorf("fold: marker index %d out of range", markerIndex)
	}
	marker := branch.Markers[markerIndex]
	idx := marker.IndexInBranch
	if idx <= 0 || idx >= len(branch.Points) {
		return FoldPoint{}, nil, false, fmt.Errorf("fold: marker brackets point index %d out of range", idx)
	}
	prev, curr := branch.Points[idx-1], branch.Points[idx]

	solver := linsolve.NewDirect()
	op0 := j(curr.X, curr.P)
	prob, err := EstimateNullVectors(op0, solver)
	if err != nil {
		return FoldPoint{}, nil, false, err
	}

	n := curr.X.Len()
	frac := 0.5
	if curr.P != prev.P {
		frac = (marker.BracketedParameter - prev.P) / (curr.P - prev.P)
	}
	xGuess := curr.X.Clone()
	xGuess.AXPBY(1-frac, prev.X, frac)

	x0 := make([]float64, n+1)
	copy(x0, vector.AsDense(xGuess))
	x0[n] = marker.BracketedParameter

	aug := augmentedProblem{f: f, j: j, jadj: jadj, prob: prob, n: n}

	x, hist, ok, err := pacont.Newton(aug.residual, aug.jacobian, vector.NewDense(x0), opts, solver, nil)
	if err != nil {
		return FoldPoint{}, hist, false, err
	}

	raw := vector.AsDense(x)
	xOut := vector.NewDense(append([]float64(nil), raw[:n]...))
	p := raw[n]
	l := aug.testFunction(xOut, p)

	return FoldPoint{X: xOut, P: p, L: l}, hist, ok, nil
}

type augmentedProblem struct {
	f    pacont.F
	j    pacont.J
	jadj Bilinear
	prob Problem
	n    int
}

func (a *augmentedProblem) split(aug pacont.Vector) (pacont.Vector, float64) {
	raw := vector.AsDense(aug)
	x := vector.NewDense(append([]float64(nil), raw[:a.n]...))
	return x, raw[a.n]
}

// w solves J(x,p)*w = A, the bordering vector behind the test function.
func (a *augmentedProblem) w(op linsolve.Operator, solver linsolve.Solver) (pacont.Vector, error) {
	w, converged, _, err := solver.Solve(op, a.prob.A)
	if err != nil || !converged {
		return nil, fmt.Errorf("fold: J*w=a solve failed: %v", err)
	}
	return w, nil
}

// testFunction evaluates the bordering-lemma test function l(x,p): solve
// J(x,p)*w = a, then l = -1/<b,w>. l is the scalar the spec calls ℓ — it
// stays finite and crosses zero exactly at the fold, unlike <b,w> itself
// (which diverges as J becomes singular), because it is the Schur
// complement of the bordered 2x2 system [J a; b^T 0] collapsed onto its
// scalar block (§4.6, Design Notes).
func (a *augmentedProblem) testFunction(x pacont.Vector, p float64) float64 {
	op := a.j(x, p)
	w, converged, _, err := linsolve.NewDirect().Solve(op, a.prob.A)
	if errors.Is(err, linsolve.ErrSingular) {
		// J is singular to working precision: this is the fold itself,
		// where the Schur complement of [J a; b^T 0] is zero.
		return 0
	}
	if err != nil || !converged {
		return math.NaN()
	}
	bw := a.prob.B.Dot(w)
	if bw == 0 {
		return math.Inf(1)
	}
	return -1 / bw
}

func (a *augmentedProblem) residual(aug pacont.Vector) pacont.Vector {
	x, p := a.split(aug)
	fx := a.f(x, p)
	g := a.testFunction(x, p)

	out := make([]float64, a.n+1)
	copy(out, vector.AsDense(fx))
	out[a.n] = g
	return vector.NewDense(out)
}

// jacobian builds the dense (n+1)x(n+1) Jacobian of residual. The F
// rows are exact (J itself, and a finite-difference column for dF/dp);
// the <B,w> row uses jadj when supplied, finite difference otherwise
// (step DefaultFoldFDStep, §4.6/§9).
func (a *augmentedProblem) jacobian(aug pacont.Vector) linsolve.Operator {
	x, p := a.split(aug)
	op := a.j(x, p)
	solver := linsolve.NewDirect()

	mBig := mat.NewDense(a.n+1, a.n+1, nil)

	if dop, ok := op.(linsolve.DenseOperator); ok {
		jd := dop.Dense()
		for row := 0; row < a.n; row++ {
			for col := 0; col < a.n; col++ {
				mBig.Set(row, col, jd.At(row, col))
			}
		}
	} else {
		for col := 0; col < a.n; col++ {
			e := make([]float64, a.n)
			e[col] = 1
			jcol := op.Apply(vector.NewDense(e))
			jcolRaw := vector.AsDense(jcol)
			for row := 0; row < a.n; row++ {
				mBig.Set(row, col, jcolRaw[row])
			}
		}
	}

	f0 := a.f(x, p)
	fp := a.f(x, p+pacont.DefaultFDStep)
	for row := 0; row < a.n; row++ {
		dFdp := (vector.AsDense(fp)[row] - vector.AsDense(f0)[row]) / pacont.DefaultFDStep
		mBig.Set(row, a.n, dFdp)
	}

	w, err := a.w(op, solver)
	if err != nil {
		w = x.Clone()
		w.Scale(0)
	}
	bw := a.prob.B.Dot(w)

	h := pacont.DefaultFoldFDStep
	for col := 0; col < a.n; col++ {
		var dGdx float64
		if a.jadj != nil {
			e := make([]float64, a.n)
			e[col] = 1
			dJw := a.jadj(x, p, w, vector.NewDense(e), 0)
			dw, convD, _, errD := solver.Solve(op, dJw)
			if errD == nil && convD && bw != 0 {
				// d(-1/<B,w>) = d<B,w> / <B,w>^2, with dw = -J^-1 (dJ w).
				dw.Scale(-1)
				dGdx = a.prob.B.Dot(dw) / (bw * bw)
			}
		} else {
			xPert := x.Clone()
			raw := vector.AsDense(xPert)
			raw[col] += h
			dGdx = (a.testFunction(vector.NewDense(raw), p) - a.testFunction(x, p)) / h
		}
		mBig.Set(a.n, col, dGdx)
	}

	g0 := a.testFunction(x, p)
	gp := a.testFunction(x, p+h)
	mBig.Set(a.n, a.n, (gp-g0)/h)

	return denseOp{m: mBig, dim: a.n + 1}
}

type denseOp struct {
	m   *mat.Dense
	dim int
}

func (d denseOp) Dim() int { return d.dim }

func (d denseOp) Apply(x pacont.Vector) pacont.Vector {
	xd := mat.NewVecDense(d.dim, vector.AsDense(x))
	var yd mat.VecDense
	yd.MulVec(d.m, xd)
	return vector.NewDense(append([]float64(nil), yd.RawVector().Data...))
}

func (d denseOp) Dense() *mat.Dense { return d.m }
