package redsvd

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/tmaklin/redsvd-go/internal/sketch"
)

// SymEigen computes an approximate truncated eigendecomposition of a
// symmetric matrix using a single randomized range-finding sketch.
// Symmetry means the row and column spaces coincide, so one basis
// serves both sides of the projection. A single instance may be
// reused; each Compute call overwrites the previous result.
//
// The input is assumed symmetric; only the symmetric part of the
// projected core is consulted, so a mildly non-symmetric input is
// implicitly symmetrized.
type SymEigen struct {
	eps float64
	rng *rand.Rand

	vals []float64
	vecs *mat.Dense
	rank int
}

// NewSymEigen returns a symmetric eigendecomposition engine configured
// by the given options.
func NewSymEigen(opts ...Option) (*SymEigen, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &SymEigen{eps: cfg.eps, rng: rand.New(cfg.src)}, nil
}

// Compute approximates rank eigenpairs of the symmetric matrix a. The
// rank is clamped to the matrix dimension. Eigenvalues keep the exact
// solver's ascending order; eigenvectors are the columns of Vectors in
// the same order.
//
// A matrix with zero rows or columns is an explicit no-op: Compute
// returns nil and the engine holds empty results.
func (e *SymEigen) Compute(a mat.Matrix, rank int) error {
	rows, cols := a.Dims()
	if rows == 0 || cols == 0 {
		e.vals, e.vecs, e.rank = nil, nil, 0
		return nil
	}
	if rank <= 0 {
		return ErrInvalidRank
	}
	r := min(rank, rows, cols)

	y, k := sketch.RangeFinder(e.rng, a, r, e.eps)

	// Small symmetric core B = Yᵀ·A·Y, solved exactly.
	var ay, b mat.Dense
	ay.Mul(a, y)
	b.Mul(y.T(), &ay)
	var eig mat.EigenSym
	if ok := eig.Factorize(symmetrize(&b), true); !ok {
		return fmt.Errorf("%w: eigendecomposition of %dx%d core", ErrFactorization, r, r)
	}

	e.vals = eig.Values(nil)
	var vb mat.Dense
	eig.VectorsTo(&vb)
	vecs := new(mat.Dense)
	vecs.Mul(y, &vb)
	e.vecs = vecs
	e.rank = k
	return nil
}

// Values returns the eigenvalues of the last computation in the
// solver's ascending order. If dst is non-nil it must have the same
// length and is filled and returned; otherwise a new slice is
// allocated. A collapsed sketch leaves spurious zero eigenvalues in
// place (see EffectiveRank).
func (e *SymEigen) Values(dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(e.vals))
	} else if len(dst) != len(e.vals) {
		panic(mat.ErrSliceLengthMismatch)
	}
	copy(dst, e.vals)
	return dst
}

// Vectors returns the approximate eigenvectors of the last computation
// as columns, ordered like Values. It is nil until a Compute call
// succeeds on a non-empty matrix.
func (e *SymEigen) Vectors() *mat.Dense { return e.vecs }

// EffectiveRank returns the number of independent directions found by
// the last computation's sketch. When it is less than the number of
// returned eigenvalues, the surplus pairs stem from collapsed basis
// columns and carry no information.
func (e *SymEigen) EffectiveRank() int { return e.rank }

// symmetrize folds b into a SymDense by averaging it with its
// transpose, discarding the skew part left by floating-point error.
func symmetrize(b *mat.Dense) *mat.SymDense {
	n, _ := b.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (b.At(i, j)+b.At(j, i))/2)
		}
	}
	return s
}

// ComputeSymEigen is a convenience wrapper that creates a SymEigen
// engine with the given options and runs a single computation on a.
func ComputeSymEigen(a mat.Matrix, rank int, opts ...Option) (*SymEigen, error) {
	e, err := NewSymEigen(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Compute(a, rank); err != nil {
		return nil, err
	}
	return e, nil
}
