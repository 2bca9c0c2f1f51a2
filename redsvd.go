// Package redsvd computes low-rank approximations of large dense
// matrices by randomized sketching: truncated singular value
// decomposition, truncated symmetric eigendecomposition, and principal
// component analysis.
//
// Instead of a full factorization, each engine sketches the input with
// Gaussian random matrices to obtain a small core matrix, factorizes
// the core exactly with gonum, and lifts the small factors back to the
// original space. The result approximates the dominant rank-r part of
// the input at a fraction of the cost of an exact decomposition.
package redsvd

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tmaklin/redsvd-go/internal/sketch"
)

var (
	ErrEmptyMatrix   = errors.New("matrix has zero rows or columns")
	ErrInvalidRank   = errors.New("rank must be positive")
	ErrFactorization = errors.New("factorization failed")
)

// SVD computes an approximate truncated singular value decomposition
// A ≈ U·diag(S)·Vᵀ of a dense matrix using two successive randomized
// range-finding sketches. A single instance may be reused; each call
// to a Compute method overwrites the previous result.
type SVD struct {
	eps float64
	rng *rand.Rand

	u, v *mat.Dense
	s    []float64
	rank int
}

// New returns an SVD engine configured by the given options.
func New(opts ...Option) (*SVD, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &SVD{eps: cfg.eps, rng: rand.New(cfg.src)}, nil
}

// Compute approximates the truncated SVD of a with the requested rank
// and populates all three factors. The rank is clamped to the smaller
// matrix dimension; the factors are truncated to the effective rank
// detected during sketching, which EffectiveRank reports.
//
// A matrix with zero rows or columns yields ErrEmptyMatrix, a
// non-positive rank ErrInvalidRank.
func (d *SVD) Compute(a mat.Matrix, rank int) error {
	svd, y, z, eff, err := d.factorize(a, rank)
	if err != nil {
		return err
	}
	d.setValues(svd, eff)
	var uc, vc mat.Dense
	svd.UTo(&uc)
	svd.VTo(&vc)
	d.u = lift(z, &uc, eff)
	d.v = lift(y, &vc, eff)
	return nil
}

// ComputeU is Compute without lifting the right factor: it populates
// the singular values and U only, leaving V nil. The values it does
// produce are identical to those of Compute under the same source.
func (d *SVD) ComputeU(a mat.Matrix, rank int) error {
	svd, _, z, eff, err := d.factorize(a, rank)
	if err != nil {
		return err
	}
	d.setValues(svd, eff)
	var uc mat.Dense
	svd.UTo(&uc)
	d.u = lift(z, &uc, eff)
	return nil
}

// ComputeV is Compute without lifting the left factor: it populates
// the singular values and V only, leaving U nil.
func (d *SVD) ComputeV(a mat.Matrix, rank int) error {
	svd, y, _, eff, err := d.factorize(a, rank)
	if err != nil {
		return err
	}
	d.setValues(svd, eff)
	var vc mat.Dense
	svd.VTo(&vc)
	d.v = lift(y, &vc, eff)
	return nil
}

// ComputeValues populates the singular values only, leaving both U and
// V nil.
func (d *SVD) ComputeValues(a mat.Matrix, rank int) error {
	svd, _, _, eff, err := d.factorize(a, rank)
	if err != nil {
		return err
	}
	d.setValues(svd, eff)
	return nil
}

// U returns the left factor of the last computation, of size m×r'
// where r' is the effective rank. It is nil until a Compute or
// ComputeU call succeeds.
func (d *SVD) U() *mat.Dense { return d.u }

// V returns the right factor of the last computation, of size n×r'.
// It is nil until a Compute or ComputeV call succeeds.
func (d *SVD) V() *mat.Dense { return d.v }

// Values returns the singular values of the last computation in the
// solver's non-increasing order, truncated to the effective rank. If
// dst is non-nil it must have length EffectiveRank and is filled and
// returned; otherwise a new slice is allocated.
func (d *SVD) Values(dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(d.s))
	} else if len(dst) != len(d.s) {
		panic(mat.ErrSliceLengthMismatch)
	}
	copy(dst, d.s)
	return dst
}

// EffectiveRank returns the number of independent directions found by
// the last computation. It is less than the requested rank when the
// request exceeded the matrix dimensions or when the sketch collapsed
// during orthonormalization.
func (d *SVD) EffectiveRank() int { return d.rank }

// factorize runs the shared sketch-twice-solve-small pipeline and
// returns the exact factorization of the small core together with the
// two bases needed to lift its factors.
func (d *SVD) factorize(a mat.Matrix, rank int) (svd *mat.SVD, y, z *mat.Dense, eff int, err error) {
	rows, cols := a.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, nil, 0, ErrEmptyMatrix
	}
	if rank <= 0 {
		return nil, nil, nil, 0, ErrInvalidRank
	}
	r := min(rank, rows, cols)

	// Sketch the row space of A.
	y, ky := sketch.RangeFinder(d.rng, a, r, d.eps)

	// B captures A restricted to the sketched row-space basis.
	var b mat.Dense
	b.Mul(a, y)

	// Sketch the column space from the already-reduced B.
	z, kz := sketch.RangeFinder(d.rng, b.T(), r, d.eps)

	// Small core C = Zᵀ·B, solved exactly.
	var c mat.Dense
	c.Mul(z.T(), &b)
	svd = new(mat.SVD)
	if ok := svd.Factorize(&c, mat.SVDThin); !ok {
		return nil, nil, nil, 0, fmt.Errorf("%w: svd of %dx%d core", ErrFactorization, r, r)
	}
	return svd, y, z, min(ky, kz), nil
}

func (d *SVD) setValues(svd *mat.SVD, eff int) {
	d.u, d.v = nil, nil
	d.rank = eff
	d.s = svd.Values(nil)[:eff]
}

// lift maps a factor of the small core back to the original space as
// basis·factor, truncated to the effective rank.
func lift(basis, factor *mat.Dense, eff int) *mat.Dense {
	if eff == 0 {
		return nil
	}
	var out mat.Dense
	out.Mul(basis, factor)
	rows, _ := out.Dims()
	return out.Slice(0, rows, 0, eff).(*mat.Dense)
}

// Compute is a convenience wrapper that creates an SVD engine with the
// given options and runs a single full computation on a.
func Compute(a mat.Matrix, rank int, opts ...Option) (*SVD, error) {
	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Compute(a, rank); err != nil {
		return nil, err
	}
	return d, nil
}

// ComputeFull is Compute with the rank defaulted to the smaller matrix
// dimension, approximating every singular triplet the sketch can find.
func ComputeFull(a mat.Matrix, opts ...Option) (*SVD, error) {
	rows, cols := a.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMatrix
	}
	return Compute(a, min(rows, cols), opts...)
}
