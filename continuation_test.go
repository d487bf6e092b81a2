package pacont

import (
	"math"
	"testing"

	"github.com/nlsolve/pacont/vector"
)

// TestContinueScalarQuadraticTraversesFold implements the §8 end-to-end
// scenario: F(x, p) = x^2 - p starting from (x, p) = (1, 1) must trace
// through the fold at p = 0 and reach the x < 0 branch, reporting a fold
// marker with |p| <= 1e-3.
func TestContinueScalarQuadraticTraversesFold(t *testing.T) {
	opts := ContinuationOptions{
		DS0: 0.05, DSMin: 1e-6, DSMax: 0.2,
		Growth: 1.3, Shrink: 2, Theta: 0.5,
		PMin: -1, PMax: 4, MaxSteps: 1000,
		DetectFold: true, DoArcLengthScaling: true, DesiredIter: 3,
		Newton: NewtonOptions{Tol: 1e-10, MaxIter: 20, Linesearch: true},
	}
	x0 := NewDenseVector([]float64{1})

	branch, _, err := Continue(quadraticF, quadraticJ, x0, 1, opts, Hooks{})
	if err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if len(branch.Points) < 2 {
		t.Fatalf("Continue() produced too few points: %d", len(branch.Points))
	}

	last, _ := branch.Last()
	if vector.AsDense(last.X)[0] >= 0 {
		t.Fatalf("Continue() did not cross onto the x<0 branch: last x=%v, p=%v", vector.AsDense(last.X)[0], last.P)
	}

	if len(branch.Markers) == 0 {
		t.Fatalf("Continue() did not report a fold marker")
	}
	foundClose := false
	for _, m := range branch.Markers {
		if math.Abs(m.BracketedParameter) <= 1e-3 {
			foundClose = true
		}
	}
	if !foundClose {
		t.Fatalf("no fold marker within 1e-3 of p=0: markers=%v", branch.Markers)
	}

	for _, p := range branch.Points {
		res := quadraticF(p.X, p.P)
		if res.Norm() > opts.Newton.Tol*10 {
			t.Fatalf("accepted point at p=%v violates ||F(x,p)|| <= tol: ||F||=%v", p.P, res.Norm())
		}
	}
}

// TestContinueBratuBVPDetectsTwoFolds implements the §8 Bratu-like BVP
// scenario: tracing the N=100 discretisation from the trivial p=0
// solution must detect (at least) two folds in [3.0, 4.1].
func TestContinueBratuBVPDetectsTwoFolds(t *testing.T) {
	bratu := NewBratuProblem(100)

	opts := ContinuationOptions{
		DS0: 0.005, DSMin: 1e-6, DSMax: 0.05,
		Growth: 1.1, Shrink: 2, Theta: 0.91,
		PMin: -1, PMax: 4.1, MaxSteps: 4000,
		DetectFold: true, DoArcLengthScaling: true, DesiredIter: 4,
		Newton: NewtonOptions{Tol: 1e-8, MaxIter: 30, Linesearch: true},
	}

	branch, _, err := Continue(bratu.Residual, bratu.Jacobian, bratu.Seed(), 0, opts, Hooks{})
	if err != nil {
		t.Fatalf("Continue() error = %v", err)
	}

	var inRange int
	for _, m := range branch.Markers {
		if m.BracketedParameter >= 3.0 && m.BracketedParameter <= 4.1 {
			inRange++
		}
	}
	if inRange < 2 {
		t.Fatalf("expected at least two folds bracketed in [3.0, 4.1], found %d: markers=%v", inRange, branch.Markers)
	}
}

func TestContinueArclengthStepInvariant(t *testing.T) {
	opts := ContinuationOptions{
		DS0: 0.05, DSMin: 1e-6, DSMax: 0.2,
		Growth: 1.3, Shrink: 2, Theta: 0.5,
		PMin: -1, PMax: 4, MaxSteps: 50,
		DetectFold: false, DoArcLengthScaling: false,
		Newton: NewtonOptions{Tol: 1e-10, MaxIter: 20},
	}
	x0 := NewDenseVector([]float64{1})

	branch, _, err := Continue(quadraticF, quadraticJ, x0, 1, opts, Hooks{})
	if err != nil {
		t.Fatalf("Continue() error = %v", err)
	}
	if len(branch.Points) < 3 {
		t.Fatalf("not enough points to check the arclength invariant")
	}

	for i := 1; i < len(branch.Points)-1; i++ {
		a, b := branch.Points[i], branch.Points[i+1]
		if math.Abs(b.DS-opts.DS0) > 1e-9 {
			t.Fatalf("point %d: ds=%v, want fixed ds0=%v with arclength scaling disabled", i, b.DS, opts.DS0)
		}
		_ = a
	}
}
