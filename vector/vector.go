// Package vector defines the abstract vector capability contract shared
// by every numerical component of pacont: Newton iteration, the linear
// solvers, the tangent predictors, and the periodic-orbit collocation
// problem. It is a leaf package so that linsolve, fold, and periodic can
// all depend on it without creating an import cycle through the root
// pacont package.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vector is the capability set the continuation core requires of a state
// element. It does not inspect the internals of an implementation: a
// caller may satisfy it with a plain dense vector, the coefficient vector
// of a function expansion, or a block-structured state, as long as these
// operations are provided.
type Vector interface {
	// Len returns the dimension of the vector.
	Len() int
	// Dot returns the inner product <v, x>.
	Dot(x Vector) float64
	// Norm returns the 2-norm of v.
	Norm() float64
	// NormInf returns the infinity-norm of v.
	NormInf() float64
	// AXPY computes v <- alpha*x + v.
	AXPY(alpha float64, x Vector)
	// AXPBY computes v <- alpha*x + beta*v.
	AXPBY(alpha float64, x Vector, beta float64)
	// Scale computes v <- beta*v.
	Scale(beta float64)
	// Clone returns a deep copy of v, owned by the caller.
	Clone() Vector
}

// Dense is a []float64-backed Vector, the one concrete implementation
// shipped with this package. Problems with a richer state space (block
// arrays, spectral coefficients) implement Vector directly rather than
// going through Dense.
type Dense []float64

// NewDense returns a Dense vector owning a copy of data.
func NewDense(data []float64) Dense {
	v := make(Dense, len(data))
	copy(v, data)
	return v
}

// Len implements Vector.
func (v Dense) Len() int { return len(v) }

// Dot implements Vector.
func (v Dense) Dot(x Vector) float64 {
	return floats.Dot(v, AsDense(x))
}

// Norm implements Vector.
func (v Dense) Norm() float64 {
	return mat.Norm(mat.NewVecDense(len(v), v), 2)
}

// NormInf implements Vector.
func (v Dense) NormInf() float64 {
	return floats.Norm(v, math.Inf(1))
}

// AXPY implements Vector: v <- alpha*x + v.
func (v Dense) AXPY(alpha float64, x Vector) {
	floats.AddScaled(v, alpha, AsDense(x))
}

// AXPBY implements Vector: v <- alpha*x + beta*v.
func (v Dense) AXPBY(alpha float64, x Vector, beta float64) {
	floats.Scale(beta, v)
	floats.AddScaled(v, alpha, AsDense(x))
}

// Scale implements Vector: v <- beta*v.
func (v Dense) Scale(beta float64) {
	floats.Scale(beta, v)
}

// Clone implements Vector.
func (v Dense) Clone() Vector {
	return NewDense(v)
}

// AsDense extracts the backing slice of a Vector known to be a Dense. It
// panics if x is not one: the core never mixes concrete Vector
// implementations within a single problem.
func AsDense(x Vector) []float64 {
	dv, ok := x.(Dense)
	if !ok {
		panic("pacont/vector: Dense operation received a non-Dense Vector")
	}
	return dv
}

// NormFunc is the shape of an optional user-supplied norm override,
// plugged into Newton and Continue in place of Vector.Norm.
type NormFunc func(Vector) float64

// DefaultNorm is the NormFunc used when the caller does not override it.
func DefaultNorm(v Vector) float64 { return v.Norm() }
