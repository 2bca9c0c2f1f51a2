package redsvd_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	redsvd "github.com/tmaklin/redsvd-go"
)

// psdRankK builds an n×n positive-semidefinite matrix of exact rank k.
func psdRankK(n, k int, seed int64) *mat.Dense {
	g := rankK(n, k, k, seed)
	var a mat.Dense
	a.Mul(g, g.T())
	return &a
}

func TestSymEigen_Reconstruction(t *testing.T) {
	a := psdRankK(12, 3, 31)
	e, err := redsvd.ComputeSymEigen(a, 3, redsvd.WithRandSource(rand.NewSource(31)))
	require.NoError(t, err)
	require.Equal(t, 3, e.EffectiveRank())

	vals := e.Values(nil)
	vecs := e.Vectors()
	var tmp, rec mat.Dense
	tmp.Mul(vecs, mat.NewDiagDense(len(vals), vals))
	rec.Mul(&tmp, vecs.T())

	rel := frobDiff(a, &rec) / mat.Norm(a, 2)
	assert.Less(t, rel, 1e-8, "an exactly rank-3 PSD matrix must be reproduced at rank 3")
	assertOrthonormal(t, vecs)
}

func TestSymEigen_EigenpairResiduals(t *testing.T) {
	a := psdRankK(10, 4, 37)
	e, err := redsvd.ComputeSymEigen(a, 4, redsvd.WithRandSource(rand.NewSource(37)))
	require.NoError(t, err)

	vals := e.Values(nil)
	vecs := e.Vectors()
	for i, lambda := range vals {
		v := vecs.ColView(i)
		var av, res mat.VecDense
		av.MulVec(a, v)
		res.AddScaledVec(&av, -lambda, v)
		assert.InDelta(t, 0.0, mat.Norm(&res, 2), 1e-8*(1+lambda),
			"residual of eigenpair %d", i)
	}
}

func TestSymEigen_AscendingSolverOrderPreserved(t *testing.T) {
	a := psdRankK(9, 3, 41)
	e, err := redsvd.ComputeSymEigen(a, 3, redsvd.WithRandSource(rand.NewSource(41)))
	require.NoError(t, err)

	vals := e.Values(nil)
	require.NotEmpty(t, vals)
	assert.True(t, sort.Float64sAreSorted(vals), "gonum's ascending order must survive lifting")
}

func TestSymEigen_PSDValuesAgreeWithSVD(t *testing.T) {
	a := psdRankK(14, 3, 43)

	e, err := redsvd.ComputeSymEigen(a, 3, redsvd.WithRandSource(rand.NewSource(43)))
	require.NoError(t, err)
	d, err := redsvd.Compute(a, 3, redsvd.WithRandSource(rand.NewSource(44)))
	require.NoError(t, err)
	require.Equal(t, 3, d.EffectiveRank())

	eig := e.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(eig)))
	svals := d.Values(nil)
	require.Equal(t, len(svals), len(eig))
	for i := range eig {
		assert.InDelta(t, svals[i], eig[i], 1e-8*(1+svals[i]),
			"PSD eigenvalue %d should match singular value", i)
	}
}

func TestSymEigen_EmptyInputIsNoOp(t *testing.T) {
	e, err := redsvd.NewSymEigen()
	require.NoError(t, err)
	require.NoError(t, e.Compute(emptyMatrix{0, 0}, 3))
	assert.Empty(t, e.Values(nil))
	assert.Nil(t, e.Vectors())
	assert.Zero(t, e.EffectiveRank())
}

func TestSymEigen_InvalidRank(t *testing.T) {
	a := psdRankK(6, 2, 47)
	e, err := redsvd.NewSymEigen()
	require.NoError(t, err)
	assert.ErrorIs(t, e.Compute(a, 0), redsvd.ErrInvalidRank)
}

func TestSymEigen_CollapseReportsEffectiveRank(t *testing.T) {
	a := psdRankK(8, 1, 53)
	e, err := redsvd.ComputeSymEigen(a, 3, redsvd.WithRandSource(rand.NewSource(53)))
	require.NoError(t, err)
	assert.Equal(t, 1, e.EffectiveRank())
	// The returned pairs keep the solver's full width; only the
	// effective rank tells them apart from real directions.
	assert.Len(t, e.Values(nil), 3)
}

func TestSymEigen_DeterministicGivenSeed(t *testing.T) {
	a := psdRankK(11, 4, 59)
	e1, err := redsvd.ComputeSymEigen(a, 4, redsvd.WithRandSource(rand.NewSource(59)))
	require.NoError(t, err)
	e2, err := redsvd.ComputeSymEigen(a, 4, redsvd.WithRandSource(rand.NewSource(59)))
	require.NoError(t, err)
	require.Equal(t, e1.Values(nil), e2.Values(nil))
	assert.True(t, mat.Equal(e1.Vectors(), e2.Vectors()))
}
