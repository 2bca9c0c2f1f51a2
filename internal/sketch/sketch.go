// Package sketch implements the randomized sketching primitives shared
// by the decomposition engines: Gaussian sampling, in-place
// Gram-Schmidt orthonormalization with rank detection, and the
// range-finding pipeline built from the two.
package sketch

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Gaussian overwrites every entry of m with an independent sample from
// the standard normal distribution using the Box-Muller transform.
// Samples are consumed two at a time along each row; a row with an odd
// number of columns draws one extra pair for its last column and keeps
// only the first value.
func Gaussian(rng *rand.Rand, m *mat.Dense) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j+1 < cols; j += 2 {
			x, y := boxMuller(rng)
			m.Set(i, j, x)
			m.Set(i, j+1, y)
		}
		if cols%2 == 1 {
			x, _ := boxMuller(rng)
			m.Set(i, cols-1, x)
		}
	}
}

func boxMuller(rng *rand.Rand) (x, y float64) {
	v1 := uniform01(rng)
	v2 := uniform01(rng)
	l := math.Sqrt(-2 * math.Log(v1))
	return l * math.Cos(2 * math.Pi * v2), l * math.Sin(2 * math.Pi * v2)
}

// uniform01 maps a draw k to (k+1)/2^63 so the result is never zero
// and log(v) stays finite.
func uniform01(rng *rand.Rand) float64 {
	return (float64(rng.Int63()) + 1) / (1 << 63)
}

// Orthonormalize replaces the columns of m, left to right, with an
// orthonormal basis for their span using modified Gram-Schmidt, and
// returns the number of basis columns produced.
//
// When the norm of a projected column falls below eps the column space
// is treated as exhausted: that column and every column to its right
// are zeroed and the procedure stops. Callers must treat trailing zero
// columns as "no further basis vectors available", not as valid
// directions. The column loop has a strict left-to-right data
// dependency and must stay sequential.
func Orthonormalize(m *mat.Dense, eps float64) int {
	_, cols := m.Dims()
	for i := 0; i < cols; i++ {
		ci := m.ColView(i).(*mat.VecDense)
		for j := 0; j < i; j++ {
			cj := m.ColView(j).(*mat.VecDense)
			r := mat.Dot(ci, cj)
			ci.AddScaledVec(ci, -r, cj)
		}
		norm := mat.Norm(ci, 2)
		if norm < eps {
			for k := i; k < cols; k++ {
				m.ColView(k).(*mat.VecDense).Zero()
			}
			return i
		}
		ci.ScaleVec(1/norm, ci)
	}
	return cols
}

// RangeFinder sketches m with a Gaussian matrix and returns an
// orthonormal basis for the range of mᵀ together with its effective
// rank. For m of size p×q it draws O (p×rank), forms Y = mᵀ·O (q×rank)
// and orthonormalizes Y in place.
func RangeFinder(rng *rand.Rand, m mat.Matrix, rank int, eps float64) (*mat.Dense, int) {
	rows, cols := m.Dims()
	o := mat.NewDense(rows, rank, nil)
	Gaussian(rng, o)
	y := mat.NewDense(cols, rank, nil)
	y.Mul(m.T(), o)
	k := Orthonormalize(y, eps)
	return y, k
}
