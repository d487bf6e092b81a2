package linsolve

import (
	"math"

	"github.com/nlsolve/pacont/vector"
)

// Settings configures GMRES, enumerating the knobs §4.2 calls for:
// relative/absolute tolerance, Krylov dimension, iteration cap, restart
// count, left/right preconditioners, and verbosity. The restarted Arnoldi
// process with Givens rotations below is hand-written against
// gonum/floats-style vector kernels (Dot/AXPY/Scale via the Vector
// interface); no published gonum package ships a ready-made GMRES, so
// this mirrors the *shape* of the vladimir-ch-iterative reference
// package's resumable CG/BiCGStab (Settings + residual-check-each-step)
// without importing it.
type Settings struct {
	RelTol    float64
	AbsTol    float64
	KrylovDim int
	MaxIters  int
	Restarts  int

	// PSolveLeft solves M_L*z = r for z, in place of the identity.
	PSolveLeft func(r vector.Vector) vector.Vector
	// PSolveRight solves M_R*z = r for z, in place of the identity.
	PSolveRight func(r vector.Vector) vector.Vector

	Verbose bool
}

func (s Settings) withDefaults() Settings {
	if s.KrylovDim <= 0 {
		s.KrylovDim = 30
	}
	if s.MaxIters <= 0 {
		s.MaxIters = 10 * s.KrylovDim
	}
	if s.Restarts <= 0 {
		s.Restarts = s.MaxIters/s.KrylovDim + 1
	}
	if s.RelTol <= 0 {
		s.RelTol = 1e-8
	}
	return s
}

func (s Settings) left(r vector.Vector) vector.Vector {
	if s.PSolveLeft == nil {
		return r.Clone()
	}
	return s.PSolveLeft(r)
}

func (s Settings) right(r vector.Vector) vector.Vector {
	if s.PSolveRight == nil {
		return r.Clone()
	}
	return s.PSolveRight(r)
}

// GMRES is a restarted, (optionally) preconditioned Krylov solver for
// J*x = b where J is supplied only as an Operator.Apply action.
type GMRES struct {
	settings Settings
}

// NewGMRES returns a GMRES solver with the given settings; zero-valued
// fields fall back to sane defaults (see Settings.withDefaults).
func NewGMRES(s Settings) *GMRES {
	return &GMRES{settings: s.withDefaults()}
}

// Solve implements Solver.
func (g *GMRES) Solve(op Operator, b vector.Vector) (vector.Vector, bool, int, error) {
	return g.SolveShifted(op, b, 0)
}

// SolveShifted implements Solver, applying v -> J*v + sigma*v as the
// operator without ever forming J + sigma*I.
func (g *GMRES) SolveShifted(op Operator, b vector.Vector, sigma float64) (vector.Vector, bool, int, error) {
	a := Operator(op)
	if sigma != 0 {
		a = shiftedOperator{op: op, sigma: sigma}
	}

	s := g.settings
	x := b.Clone()
	x.Scale(0)

	bNorm := b.Norm()
	tol := math.Max(s.AbsTol, s.RelTol*bNorm)
	if tol == 0 {
		tol = s.RelTol
	}

	totalIters := 0
	for restart := 0; restart < s.Restarts && totalIters < s.MaxIters; restart++ {
		resid := residual(a, b, x)
		r := s.left(resid)
		beta := r.Norm()
		if beta <= tol {
			return x, true, totalIters, nil
		}

		m := s.KrylovDim
		v := make([]vector.Vector, m+1)
		v[0] = r.Clone()
		v[0].Scale(1 / beta)

		h := make([][]float64, m+1)
		for i := range h {
			h[i] = make([]float64, m)
		}
		cs := make([]float64, m)
		sn := make([]float64, m)
		gv := make([]float64, m+1)
		gv[0] = beta

		k := 0
		for ; k < m && totalIters < s.MaxIters; k++ {
			totalIters++
			w := s.left(a.Apply(s.right(v[k])))

			for i := 0; i <= k; i++ {
				h[i][k] = w.Dot(v[i])
				w.AXPY(-h[i][k], v[i])
			}
			h[k+1][k] = w.Norm()
			if h[k+1][k] > 1e-14 {
				v[k+1] = w.Clone()
				v[k+1].Scale(1 / h[k+1][k])
			} else {
				v[k+1] = w
			}

			for i := 0; i < k; i++ {
				t := cs[i]*h[i][k] + sn[i]*h[i+1][k]
				h[i+1][k] = -sn[i]*h[i][k] + cs[i]*h[i+1][k]
				h[i][k] = t
			}
			cs[k], sn[k] = givens(h[k][k], h[k+1][k])
			h[k][k] = cs[k]*h[k][k] + sn[k]*h[k+1][k]
			h[k+1][k] = 0
			gv[k+1] = -sn[k] * gv[k]
			gv[k] = cs[k] * gv[k]

			if math.Abs(gv[k+1]) <= tol {
				k++
				break
			}
		}

		y := backSolve(h, gv, k)
		z := v[0].Clone()
		z.Scale(0)
		for i := 0; i < k; i++ {
			z.AXPY(y[i], v[i])
		}
		x.AXPY(1, s.right(z))

		finalResid := residual(a, b, x)
		if finalResid.Norm() <= tol {
			return x, true, totalIters, nil
		}
	}

	if totalIters >= s.MaxIters {
		return x, false, totalIters, ErrNotConverged
	}
	return x, residual(a, b, x).Norm() <= tol, totalIters, nil
}

func residual(op Operator, b, x vector.Vector) vector.Vector {
	r := op.Apply(x)
	r.Scale(-1)
	r.AXPY(1, b)
	return r
}

// givens returns the cosine/sine pair that zeroes the second component
// of (f, g) via a Givens rotation, using the numerically stable form.
func givens(f, g float64) (c, s float64) {
	if g == 0 {
		return 1, 0
	}
	if f == 0 {
		return 0, 1
	}
	denom := math.Hypot(f, g)
	return f / denom, g / denom
}

// backSolve solves the k x k upper-triangular system h[0:k,0:k]*y = g[0:k].
func backSolve(h [][]float64, g []float64, k int) []float64 {
	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := g[i]
		for j := i + 1; j < k; j++ {
			sum -= h[i][j] * y[j]
		}
		y[i] = sum / h[i][i]
	}
	return y
}
