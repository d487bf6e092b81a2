package pacont

import "github.com/nlsolve/pacont/vector"

// Vector, DenseVector, and NewDenseVector re-export the vector package's
// types so that callers working only with the root API do not need a
// second import. Components internal to pacont (linsolve, fold, periodic)
// depend on package vector directly to avoid an import cycle through
// pacont itself.
type Vector = vector.Vector

// DenseVector is the []float64-backed Vector shipped with this package.
type DenseVector = vector.Dense

// NewDenseVector returns a DenseVector owning a copy of data.
func NewDenseVector(data []float64) DenseVector {
	return vector.NewDense(data)
}

// normFunc is the shape of an optional user-supplied norm override.
type normFunc = vector.NormFunc

func defaultNorm(v Vector) float64 { return vector.DefaultNorm(v) }
