// Package periodic discretises a periodic-orbit boundary value problem
// by trapezoidal collocation (§4.7): M time slices of an N-dimensional
// state plus the unknown period T, tied together by a periodicity
// constraint and a phase condition that pins the otherwise free time
// origin.
package periodic

import (
	"fmt"

	pacont "github.com/nlsolve/pacont"
	"github.com/nlsolve/pacont/linsolve"
	"github.com/nlsolve/pacont/vector"
	"gonum.org/v1/gonum/mat"
)

// PeriodicOrbitState is the flat unknown: M contiguous length-N slices
// followed by the period T, length M*N+1.
type PeriodicOrbitState []float64

// Col returns the i-th (0-indexed) N-length time slice.
func (u PeriodicOrbitState) Col(i, n int) []float64 { return u[i*n : (i+1)*n] }

// Period returns the trailing period unknown.
func (u PeriodicOrbitState) Period() float64 { return u[len(u)-1] }

// Trap is a trapezoidal-collocation periodic-orbit problem.
type Trap struct {
	F pacont.Residual
	J pacont.Jacobian

	Phi pacont.Vector // phase-condition direction, fixed at construction
	XPi pacont.Vector // phase-condition reference point, fixed at construction

	M int
	N int

	Solver linsolve.Solver

	// Gamma is the shift on block (1,1), defaulting to 1; exposed so a
	// shifted solve can be formed without re-deriving the block
	// structure (§4.7).
	Gamma float64
}

// NewTrap constructs a Trap; N is taken from xPi.Len().
func NewTrap(f pacont.Residual, j pacont.Jacobian, phi, xPi pacont.Vector, m int, solver linsolve.Solver) *Trap {
	if solver == nil {
		solver = linsolve.NewDirect()
	}
	return &Trap{F: f, J: j, Phi: phi, XPi: xPi, M: m, N: xPi.Len(), Solver: solver, Gamma: 1}
}

// Residual implements §4.7's residual of length M*N+1.
func (t *Trap) Residual(u PeriodicOrbitState) []float64 {
	n, m := t.N, t.M
	out := make([]float64, m*n+1)
	h := u.Period() / float64(m)

	u0 := vector.NewDense(u.Col(0, n))
	uLast := vector.NewDense(u.Col(m-1, n))
	copy(out[0:n], uLast)
	for k := 0; k < n; k++ {
		out[k] -= u0[k]
	}

	for c := 1; c < m; c++ {
		uc := vector.NewDense(u.Col(c, n))
		up := vector.NewDense(u.Col(c-1, n))
		fc := vector.AsDense(t.F(uc))
		fp := vector.AsDense(t.F(up))
		base := n + (c-1)*n
		for k := 0; k < n; k++ {
			out[base+k] = uc[k] - up[k] - (h/2)*(fc[k]+fp[k])
		}
	}

	out[m*n] = t.Phi.Dot(vectorSub(u0, t.XPi))
	return out
}

func vectorSub(a, b pacont.Vector) pacont.Vector {
	d := a.Clone()
	d.AXPY(-1, b)
	return d
}

// JacobianAction applies the matrix-free Jacobian of Residual to the
// direction (du, dT), using the analytic block recurrence for du and a
// one-sided finite difference (step pacont.DefaultFDStep) for the
// T-derivative column.
func (t *Trap) JacobianAction(u PeriodicOrbitState, du []float64, dT float64) []float64 {
	n, m := t.N, t.M
	out := make([]float64, m*n+1)

	du0 := du[0:n]
	duLast := du[(m-1)*n : m*n]
	copy(out[0:n], duLast)
	for k := 0; k < n; k++ {
		out[k] -= du0[k]
	}

	h := u.Period() / float64(m)
	for c := 1; c < m; c++ {
		uc := vector.NewDense(u.Col(c, n))
		up := vector.NewDense(u.Col(c-1, n))
		jc := t.J(uc)
		jp := t.J(up)
		duc := vector.NewDense(du[c*n : (c+1)*n])
		dup := vector.NewDense(du[(c-1)*n : c*n])
		jcAction := vector.AsDense(jc.Apply(duc))
		jpAction := vector.AsDense(jp.Apply(dup))
		base := n + (c-1)*n
		for k := 0; k < n; k++ {
			out[base+k] = duc[k] - dup[k] - (h/2)*(jcAction[k]+jpAction[k])
		}
	}

	out[m*n] = t.Phi.Dot(vector.NewDense(du0))

	if dT != 0 {
		fd := t.dResidualdT(u)
		for i := range out {
			out[i] += dT * fd[i]
		}
	}
	return out
}

func (t *Trap) dResidualdT(u PeriodicOrbitState) []float64 {
	h := pacont.DefaultFDStep
	perturbed := append(PeriodicOrbitState(nil), u...)
	perturbed[len(perturbed)-1] += h

	r0 := t.Residual(u)
	r1 := t.Residual(perturbed)
	out := make([]float64, len(r0))
	for i := range out {
		out[i] = (r1[i] - r0[i]) / h
	}
	return out
}

// SparseJacobian materialises the block-structured Jacobian described in
// §4.7 as a dense matrix (no sparse matrix type is wired into this
// module; see DESIGN.md). It must agree with JacobianAction when
// multiplied against the same (du, dT) — a testable property.
func (t *Trap) SparseJacobian(u PeriodicOrbitState) *mat.Dense {
	n, m := t.N, t.M
	dim := m*n + 1
	out := mat.NewDense(dim, dim, nil)
	h := u.Period() / float64(m)

	for k := 0; k < n; k++ {
		out.Set(k, (m-1)*n+k, 1)
		out.Set(k, k, -t.Gamma)
	}

	for c := 1; c < m; c++ {
		uc := vector.NewDense(u.Col(c, n))
		up := vector.NewDense(u.Col(c-1, n))
		Jc := denseBlock(t.J(uc))
		Jp := denseBlock(t.J(up))
		base := n + (c-1)*n
		for row := 0; row < n; row++ {
			out.Set(base+row, c*n+row, 1)
			out.Set(base+row, (c-1)*n+row, -1)
			for col := 0; col < n; col++ {
				jcv := Jc.At(row, col)
				jpv := Jp.At(row, col)
				out.Set(base+row, c*n+col, out.At(base+row, c*n+col)-(h/2)*jcv)
				out.Set(base+row, (c-1)*n+col, out.At(base+row, (c-1)*n+col)-(h/2)*jpv)
			}
		}
	}

	for k := 0; k < n; k++ {
		out.Set(m*n, k, phiAt(t.Phi, k))
	}

	fd := t.dResidualdT(u)
	for row := 0; row < dim; row++ {
		out.Set(row, dim-1, fd[row])
	}

	return out
}

func phiAt(phi pacont.Vector, k int) float64 {
	return vector.AsDense(phi)[k]
}

// denseBlock materialises op as a dense matrix: its own Dense() when it
// implements linsolve.DenseOperator, otherwise a column-by-column Apply
// assembly (the same fallback fold.jacobian uses for the identical
// situation), so a purely matrix-free J never silently zero-fills a
// Jacobian block.
func denseBlock(op linsolve.Operator) *mat.Dense {
	if dop, ok := op.(linsolve.DenseOperator); ok {
		return dop.Dense()
	}
	dim := op.Dim()
	m := mat.NewDense(dim, dim, nil)
	for col := 0; col < dim; col++ {
		e := make([]float64, dim)
		e[col] = 1
		colVec := vector.AsDense(op.Apply(vector.NewDense(e)))
		for row := 0; row < dim; row++ {
			m.Set(row, col, colVec[row])
		}
	}
	return m
}

// CheckShapes returns an error if u's length is inconsistent with
// (N, M): the invariant N = (len(u)-1)/M exactly.
func (t *Trap) CheckShapes(u PeriodicOrbitState) error {
	if len(u) != t.M*t.N+1 {
		return fmt.Errorf("periodic: state length %d inconsistent with M=%d, N=%d", len(u), t.M, t.N)
	}
	return nil
}
