package vector

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDenseNorm(t *testing.T) {
	tests := []struct {
		name string
		v    Dense
		want float64
	}{
		{"zero", NewDense([]float64{0, 0, 0}), 0},
		{"unit", NewDense([]float64{1, 0, 0}), 1},
		{"3-4-5", NewDense([]float64{3, 4}), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Norm(); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
				t.Fatalf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDenseNormInf(t *testing.T) {
	v := NewDense([]float64{-3, 1, 2})
	if got := v.NormInf(); got != 3 {
		t.Fatalf("NormInf() = %v, want 3", got)
	}
}

func TestDenseDot(t *testing.T) {
	a := NewDense([]float64{1, 2, 3})
	b := NewDense([]float64{4, 5, 6})
	want := 1*4 + 2*5 + 3*6
	if got := a.Dot(b); got != float64(want) {
		t.Fatalf("Dot() = %v, want %v", got, want)
	}
}

func TestDenseAXPY(t *testing.T) {
	v := NewDense([]float64{1, 1, 1})
	x := NewDense([]float64{1, 2, 3})
	v.AXPY(2, x)
	want := []float64{3, 5, 7}
	for i, w := range want {
		if !scalar.EqualWithinAbs(v[i], w, 1e-12) {
			t.Fatalf("AXPY()[%d] = %v, want %v", i, v[i], w)
		}
	}
}

func TestDenseAXPBY(t *testing.T) {
	v := NewDense([]float64{1, 1, 1})
	x := NewDense([]float64{1, 2, 3})
	v.AXPBY(2, x, 3)
	want := []float64{5, 7, 9}
	for i, w := range want {
		if !scalar.EqualWithinAbs(v[i], w, 1e-12) {
			t.Fatalf("AXPBY()[%d] = %v, want %v", i, v[i], w)
		}
	}
}

func TestDenseClone(t *testing.T) {
	v := NewDense([]float64{1, 2, 3})
	c := v.Clone()
	c.Scale(0)
	if v[0] != 1 {
		t.Fatalf("Clone() did not copy backing storage, mutation leaked into original")
	}
}

func TestAsDensePanicsOnForeignVector(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("AsDense did not panic on a non-Dense Vector")
		}
	}()
	AsDense(fakeVector{})
}

type fakeVector struct{}

func (fakeVector) Len() int                        { return 0 }
func (fakeVector) Dot(Vector) float64               { return 0 }
func (fakeVector) Norm() float64                    { return 0 }
func (fakeVector) NormInf() float64                 { return 0 }
func (fakeVector) AXPY(float64, Vector)             {}
func (fakeVector) AXPBY(float64, Vector, float64)   {}
func (fakeVector) Scale(float64)                    {}
func (fakeVector) Clone() Vector                    { return fakeVector{} }

func TestDefaultNorm(t *testing.T) {
	v := NewDense([]float64{3, 4})
	if got := DefaultNorm(v); math.Abs(got-5) > 1e-12 {
		t.Fatalf("DefaultNorm() = %v, want 5", got)
	}
}
