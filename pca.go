package redsvd

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA is a thin adapter over the SVD engine that presents the
// factorization as principal components: component loadings (the right
// singular vectors) and projected scores (U·diag(S)). Rows of the
// input are observations, columns are features.
type PCA struct {
	eps    float64
	rng    *rand.Rand
	center bool

	components *mat.Dense
	scores     *mat.Dense
	rank       int
}

// NewPCA returns a PCA adapter configured by the given options.
// WithMeanCentering makes Compute work on a column-centered copy of
// the input, as conventional PCA does; without it the input is
// factorized as-is.
func NewPCA(opts ...Option) (*PCA, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &PCA{eps: cfg.eps, rng: rand.New(cfg.src), center: cfg.center}, nil
}

// Compute runs a randomized SVD of a with the requested rank and
// derives components and scores from it. The input is never mutated.
// Error policy matches SVD.Compute.
func (p *PCA) Compute(a mat.Matrix, rank int) error {
	in := a
	if p.center {
		if rows, cols := a.Dims(); rows == 0 || cols == 0 {
			return ErrEmptyMatrix
		}
		in = meanCentered(a)
	}
	d := &SVD{eps: p.eps, rng: p.rng}
	if err := d.Compute(in, rank); err != nil {
		return err
	}
	p.components = d.V()
	p.rank = d.EffectiveRank()
	if p.rank == 0 {
		p.scores = nil
		return nil
	}
	s := d.Values(nil)
	scores := new(mat.Dense)
	scores.Mul(d.U(), mat.NewDiagDense(len(s), s))
	p.scores = scores
	return nil
}

// Components returns the component loadings of the last computation:
// one orthonormal column per principal direction, n×r' for an input
// with n features. It is nil until a Compute call succeeds.
func (p *PCA) Components() *mat.Dense { return p.components }

// Scores returns the projection of the observations onto the
// components, scaled by the singular values: m×r' for an input with m
// observations. It is nil until a Compute call succeeds.
func (p *PCA) Scores() *mat.Dense { return p.scores }

// EffectiveRank returns the number of principal directions found by
// the last computation.
func (p *PCA) EffectiveRank() int { return p.rank }

// meanCentered returns a copy of a with every column shifted to zero
// mean.
func meanCentered(a mat.Matrix) *mat.Dense {
	rows, cols := a.Dims()
	c := mat.DenseCopyOf(a)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, c)
		m := stat.Mean(col, nil)
		for i := range col {
			col[i] -= m
		}
		c.SetCol(j, col)
	}
	return c
}

// ComputePCA is a convenience wrapper that creates a PCA adapter with
// the given options and runs a single computation on a.
func ComputePCA(a mat.Matrix, rank int, opts ...Option) (*PCA, error) {
	p, err := NewPCA(opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Compute(a, rank); err != nil {
		return nil, err
	}
	return p, nil
}
