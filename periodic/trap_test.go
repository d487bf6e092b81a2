package periodic

import (
	"math"
	"testing"

	pacont "github.com/nlsolve/pacont"
	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// harmonicF implements xdot=y, ydot=-x, the §8 periodic-orbit toy.
func harmonicF(x pacont.Vector) pacont.Vector {
	v := vector.AsDense(x)
	return vector.NewDense([]float64{v[1], -v[0]})
}

type harmonicOp struct{}

func (harmonicOp) Dim() int { return 2 }
func (harmonicOp) Apply(x pacont.Vector) pacont.Vector {
	v := vector.AsDense(x)
	return vector.NewDense([]float64{v[1], -v[0]})
}
func (harmonicOp) Dense() *mat.Dense { return mat.NewDense(2, 2, []float64{0, 1, -1, 0}) }

func harmonicJacobian(x pacont.Vector) linsolve.Operator { return harmonicOp{} }

// circleState samples M-1 distinct points around one period of the unit
// circle and closes the loop by repeating the first point as the last,
// matching the literal periodicity constraint U[:,M] == U[:,1].
func circleState(m int, t float64) PeriodicOrbitState {
	u := make(PeriodicOrbitState, 2*m+1)
	for i := 0; i < m-1; i++ {
		theta := 2 * math.Pi * float64(i) / float64(m-1)
		u[2*i] = math.Cos(theta)
		u[2*i+1] = -math.Sin(theta)
	}
	u[2*(m-1)] = u[0]
	u[2*(m-1)+1] = u[1]
	u[2*m] = t
	return u
}

func TestPeriodicResidualAtAnalyticSolution(t *testing.T) {
	m := 40
	phi := vector.NewDense([]float64{1, 0})
	xPi := vector.NewDense([]float64{1, 0})
	trap := NewTrap(harmonicF, harmonicJacobian, phi, xPi, m, linsolve.NewDirect())

	u := circleState(m, 2*math.Pi)
	res := trap.Residual(u)

	if len(res) != m*trap.N+1 {
		t.Fatalf("Residual() length = %d, want %d", len(res), m*trap.N+1)
	}

	periodicity := math.Hypot(res[0], res[1])
	if periodicity > 1e-12 {
		t.Fatalf("periodicity block not exactly zero for a closed-loop state: %v", periodicity)
	}

	var norm float64
	for _, r := range res {
		norm += r * r
	}
	norm = math.Sqrt(norm)
	if norm > 0.1 {
		t.Fatalf("residual at a near-circular orbit unexpectedly large: %v", norm)
	}
}

type trapDenseOperator struct{ m *mat.Dense }

func (o trapDenseOperator) Dim() int { r, _ := o.m.Dims(); return r }
func (o trapDenseOperator) Apply(x pacont.Vector) pacont.Vector {
	xd := mat.NewVecDense(o.Dim(), vector.AsDense(x))
	var yd mat.VecDense
	yd.MulVec(o.m, xd)
	return vector.NewDense(append([]float64(nil), yd.RawVector().Data...))
}
func (o trapDenseOperator) Dense() *mat.Dense { return o.m }

// TestPeriodicOrbitNewtonConverges implements the §8 "periodic orbit
// toy" scenario: run Newton directly on periodic.Trap from the circle,
// T=6.28 initial guess and check the residual at the converged orbit.
func TestPeriodicOrbitNewtonConverges(t *testing.T) {
	m := 40
	phi := vector.NewDense([]float64{1, 0})
	xPi := vector.NewDense([]float64{1, 0})
	trap := NewTrap(harmonicF, harmonicJacobian, phi, xPi, m, linsolve.NewDirect())

	u0 := circleState(m, 2*math.Pi)

	residualFn := func(x pacont.Vector) pacont.Vector {
		return vector.NewDense(trap.Residual(PeriodicOrbitState(vector.AsDense(x))))
	}
	jacobianFn := func(x pacont.Vector) linsolve.Operator {
		return trapDenseOperator{m: trap.SparseJacobian(PeriodicOrbitState(vector.AsDense(x)))}
	}

	opts := pacont.NewtonOptions{Tol: 1e-6, MaxIter: 20, Linesearch: true}
	x, hist, converged, err := pacont.Newton(residualFn, jacobianFn, vector.NewDense(u0), opts, linsolve.NewDirect(), nil)
	if err != nil {
		t.Fatalf("Newton() error = %v", err)
	}
	if !converged {
		t.Fatalf("Newton() did not converge within %d iterations, history=%v", opts.MaxIter, hist)
	}

	res := trap.Residual(PeriodicOrbitState(vector.AsDense(x)))
	var norm float64
	for _, r := range res {
		norm += r * r
	}
	norm = math.Sqrt(norm)
	if norm > 1e-6 {
		t.Fatalf("residual at the converged periodic orbit too large: %v, want <= 1e-6", norm)
	}
}

func TestPeriodicJacobianAgreesWithSparse(t *testing.T) {
	m := 10
	phi := vector.NewDense([]float64{1, 0})
	xPi := vector.NewDense([]float64{1, 0})
	trap := NewTrap(harmonicF, harmonicJacobian, phi, xPi, m, linsolve.NewDirect())

	u := circleState(m, 2*math.Pi)
	dim := m*trap.N + 1
	du := make([]float64, dim)
	for i := range du {
		du[i] = float64(i%5) - 2
	}

	action := trap.JacobianAction(u, du[:dim-1], du[dim-1])
	sparse := trap.SparseJacobian(u)

	for row := 0; row < dim; row++ {
		var sum float64
		for col := 0; col < dim; col++ {
			sum += sparse.At(row, col) * du[col]
		}
		if !scalar.EqualWithinAbs(sum, action[row], 1e-6) {
			t.Fatalf("row %d: sparse*du = %v, action = %v", row, sum, action[row])
		}
	}
}
