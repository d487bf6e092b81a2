package pacont

import (
	"testing"

	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/floats/scalar"
)

// quadraticF implements the §8 scalar-quadratic scenario: F(x, p) = x^2 - p.
func quadraticF(x Vector, p float64) Vector {
	v := vector.AsDense(x)
	return NewDenseVector([]float64{v[0]*v[0] - p})
}

func quadraticJ(x Vector, p float64) linsolve.Operator {
	v := vector.AsDense(x)
	return scalarJacobian{2 * v[0]}
}

func TestSecantTangentNormalisation(t *testing.T) {
	xPrev := NewDenseVector([]float64{1})
	xCurr := NewDenseVector([]float64{1.1})
	tan := SecantTangent(xPrev, 1, xCurr, 1.21, 0.1, 0.5)

	n := tan.DX.Len()
	scale := 0.5*tan.DX.Norm()*tan.DX.Norm()/float64(n) + 0.5*tan.DP*tan.DP
	if !scalar.EqualWithinAbs(scale, 1, 1e-10) {
		t.Fatalf("tangent not normalised: theta*||dx||^2/N + (1-theta)*dp^2 = %v, want 1", scale)
	}
}

func TestBorderedTangentAtKnownFold(t *testing.T) {
	// At x=0, p=0 the Jacobian 2x is singular, so evaluate just off the
	// fold where the bordered solve is well posed.
	x := NewDenseVector([]float64{0.01})
	prev := Tangent{DX: NewDenseVector([]float64{0}), DP: 1}

	tan, err := BorderedTangent(quadraticF, quadraticJ, x, 1e-4, prev, 0.5, DefaultFDStep, linsolve.NewDirect())
	if err != nil {
		t.Fatalf("BorderedTangent() error = %v", err)
	}

	n := tan.DX.Len()
	scale := 0.5*tan.DX.Norm()*tan.DX.Norm()/float64(n) + 0.5*tan.DP*tan.DP
	if !scalar.EqualWithinAbs(scale, 1, 1e-6) {
		t.Fatalf("tangent not normalised: %v, want 1", scale)
	}
}
