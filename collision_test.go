package hyperminhash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values computed with the exact double sum at 100 decimal
// digits of working precision.
func TestPreciseCollisions(t *testing.T) {
	cases := []struct {
		x, y    float64
		p, q, r uint
		want    float64
	}{
		{1000, 1000, 4, 2, 4, 3.8324327675899297},
		{200, 100, 4, 6, 4, 0.16079354433182963},
		{10000, 2000, 8, 6, 8, 0.10019507576489378},
	}
	for _, c := range cases {
		got := preciseCollisions(c.x, c.y, c.p, c.q, c.r)
		assert.InEpsilon(t, c.want, got, 1e-9,
			"precise(%g, %g; p=%d q=%d r=%d)", c.x, c.y, c.p, c.q, c.r)
	}
}

func TestApproxCollisions(t *testing.T) {
	// Below 2^(p+5): per-loglog-bucket sum scaled by the tail space.
	got, err := approxCollisions(500, 300, 8, 6, 8)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.13239501532583828, got, 1e-12)

	got, err = approxCollisions(100, 50, 8, 0, 8)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.05756608312581893, got, 1e-12)

	// Above 2^(p+5): asymptotic constant-rate form.
	got, err = approxCollisions(100000, 50000, 8, 6, 8)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.1510395441419903, got, 1e-12)

	// Order of the two cardinalities must not matter.
	swapped, err := approxCollisions(50000, 100000, 8, 6, 8)
	require.NoError(t, err)
	assert.Equal(t, got, swapped)
}

// The approximation's two regimes should agree with the exact sum to well
// within a register.
func TestApproxTracksPrecise(t *testing.T) {
	for _, c := range [][2]float64{{500, 300}, {10000, 2000}} {
		approx, err := approxCollisions(c[0], c[1], 8, 6, 8)
		require.NoError(t, err)
		precise := preciseCollisions(c[0], c[1], 8, 6, 8)
		assert.InDelta(t, precise, approx, 0.5,
			"approx(%g, %g) strayed from the exact sum", c[0], c[1])
	}
}

func TestApproxCollisionsOutOfRange(t *testing.T) {
	// Threshold is 2^(2^q+r+p-10); with q=0, r=4, p=4 that is 2^-1.
	_, err := approxCollisions(100, 100, 4, 0, 4)
	require.ErrorIs(t, err, ErrCardinality)
}

func TestJaccardCardinalityOutOfRange(t *testing.T) {
	a, _ := New[uint8](4, 0, 4, CollisionApprox)
	b, _ := New[uint8](4, 0, 4, CollisionApprox)
	src := stream{state: 3}
	for i := 0; i < 100; i++ {
		v := src.next()
		a.UpdateUint64(v)
		b.UpdateUint64(v)
	}
	if _, err := a.Jaccard(b); !errors.Is(err, ErrCardinality) {
		t.Errorf("Jaccard err = %v, want ErrCardinality", err)
	}
}

func TestCollisionFalseIsZero(t *testing.T) {
	got, err := expectedCollisions(1e6, 1e6, 8, 6, 8, CollisionFalse)
	require.NoError(t, err)
	assert.Zero(t, got)
}

// With the precise correction, the jaccard of two disjoint sets should
// come out below the raw spurious-match rate of the uncorrected sketches.
func TestPreciseCorrectionLowersDisjointJaccard(t *testing.T) {
	a, _ := New[uint8](4, 2, 4, CollisionPrecise)
	b, _ := New[uint8](4, 2, 4, CollisionPrecise)
	src := stream{state: 17}
	for i := 0; i < 1000; i++ {
		a.UpdateUint64(src.next())
	}
	for i := 0; i < 1000; i++ {
		b.UpdateUint64(src.next())
	}

	jPrecise, err := a.Jaccard(b)
	require.NoError(t, err)

	aRaw, _ := New[uint8](4, 2, 4, CollisionFalse)
	bRaw, _ := New[uint8](4, 2, 4, CollisionFalse)
	aRaw.reg, aRaw.sub = a.reg, a.sub
	bRaw.reg, bRaw.sub = b.reg, b.sub
	jRaw, err := aRaw.Jaccard(bRaw)
	require.NoError(t, err)

	assert.Less(t, jPrecise, jRaw, "correction should remove spurious matches")
}
