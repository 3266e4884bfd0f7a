package soil

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootweave/internal/geom"
)

func buildIndex(t *testing.T, pts []geom.Vec) *Index {
	t.Helper()
	ix, err := Build(context.Background(), geom.WorldXY(), pts, Options{Seed: 1})
	require.NoError(t, err)
	return ix
}

func bruteNearest(pts []geom.Vec, p geom.Vec) float64 {
	best := math.Inf(1)
	for _, q := range pts {
		best = math.Min(best, geom.Dist(p, q))
	}
	return best
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pts := make([]geom.Vec, 300)
	for i := range pts {
		pts[i] = geom.Vec{X: rng.Float64() * 20, Y: rng.Float64() * 20}
	}
	ix := buildIndex(t, pts)

	for _, p := range pts {
		got, ok := ix.NearestPoint(p)
		require.True(t, ok)
		assert.Equal(t, 0.0, geom.Dist(got, p))
	}
	for i := 0; i < 200; i++ {
		q := geom.Vec{X: rng.Float64()*24 - 2, Y: rng.Float64()*24 - 2, Z: rng.Float64() - 0.5}
		got := ix.NearestPoints(q, 1)
		require.Len(t, got, 1)
		assert.InDelta(t, bruteNearest(pts, q), geom.Dist(got[0], q), 1e-12)
	}
}

func TestNearestPointsOrdered(t *testing.T) {
	ix := buildIndex(t, SquareLattice(geom.WorldXY(), 10, 10, 1))
	hits := ix.NearestHits(geom.Vec{X: 4.2, Y: 4.1}, 25)
	require.Len(t, hits, 25)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Dist, hits[i].Dist)
	}
}

func TestEmptyIndexReturnsNothing(t *testing.T) {
	ix := buildIndex(t, nil)
	_, ok := ix.NearestPoint(geom.Vec{})
	assert.False(t, ok)
	assert.Nil(t, ix.NearestPoints(geom.Vec{}, 3))
	assert.Nil(t, ix.NearestKeys(geom.Vec{}, 3))
	assert.False(t, ix.IsOnBoundary(geom.Vec{}))
	assert.Equal(t, 0.0, ix.UnitLen())
}

func TestEquidistantTieBreakUsesKeyOrder(t *testing.T) {
	ix := buildIndex(t, SquareLattice(geom.WorldXY(), 20, 20, 1))
	got, ok := ix.NearestPoint(geom.Vec{X: 9.5, Y: 9.5})
	require.True(t, ok)
	assert.Equal(t, geom.Vec{X: 9, Y: 9}, got)

	keys := ix.NearestKeys(geom.Vec{X: 9.5, Y: 9.5}, 2)
	require.Len(t, keys, 2)
	assert.Equal(t, KeyOf(geom.Vec{X: 9, Y: 9}), keys[0])
	assert.Equal(t, KeyOf(geom.Vec{X: 9, Y: 10}), keys[1])
}

func TestDuplicatesFirstWins(t *testing.T) {
	pts := []geom.Vec{{X: 1, Y: 1}, {X: 1.00001, Y: 1}, {X: 2, Y: 2}}
	ix := buildIndex(t, pts)
	assert.Equal(t, 2, ix.Len())
	p, ok := ix.Position(KeyOf(geom.Vec{X: 1, Y: 1}))
	require.True(t, ok)
	assert.Equal(t, geom.Vec{X: 1, Y: 1}, p)
	assert.True(t, ix.Contains(KeyOf(geom.Vec{X: 1.00001, Y: 1})))
	assert.False(t, ix.Contains(KeyOf(geom.Vec{X: 3})))
	assert.Equal(t, []geom.Vec{{X: 1, Y: 1}, {X: 2, Y: 2}}, ix.Points())
}

func TestUnitLenTriangularLattice(t *testing.T) {
	const pitch = 0.75
	ix := buildIndex(t, TriangularLattice(geom.WorldXY(), 30, 30, pitch))
	assert.InDelta(t, pitch, ix.UnitLen(), 1e-9)
}

func TestUnitLenPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pts := make([]geom.Vec, 150)
	for i := range pts {
		pts[i] = geom.Vec{X: rng.Float64() * 10, Y: rng.Float64() * 10}
	}
	shuffled := append([]geom.Vec(nil), pts...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	a := buildIndex(t, pts)
	b := buildIndex(t, shuffled)
	assert.Equal(t, a.UnitLen(), b.UnitLen())
	assert.Greater(t, a.UnitLen(), 0.0)
}

func TestBoundaryCornersAndCentroid(t *testing.T) {
	ix := buildIndex(t, SquareLattice(geom.WorldXY(), 20, 20, 1))
	for _, c := range []geom.Vec{{}, {X: 19}, {Y: 19}, {X: 19, Y: 19}} {
		assert.True(t, ix.IsOnBoundary(c), "corner %v", c)
	}
	assert.False(t, ix.IsOnBoundary(geom.Vec{X: 9.5, Y: 9.5}))
	assert.True(t, ix.IsOnBoundary(geom.Vec{X: 0.05, Y: 7}))
	assert.False(t, ix.IsOnBoundary(geom.Vec{X: 0.2, Y: 7}))
}

func TestTopologySectors(t *testing.T) {
	ix := buildIndex(t, TriangularLattice(geom.WorldXY(), 9, 9, 1))
	ix.BuildTopology()
	require.True(t, ix.HasTopology())

	center, ok := ix.NearestKey(geom.Vec{X: 4, Y: 4 * math.Sqrt(3) / 2})
	require.True(t, ok)
	nbs := ix.Neighbors(center)
	assert.Len(t, nbs, 6)

	for _, k := range ix.Keys() {
		assert.LessOrEqual(t, len(ix.Neighbors(k)), 6)
		assert.NotEmpty(t, ix.Neighbors(k))
	}

	next, ok := ix.TopologyStep(geom.Vec{X: 4, Y: 4 * math.Sqrt(3) / 2}, geom.Vec{X: 1})
	require.True(t, ok)
	assert.InDelta(t, 5, next.X, 1e-9)
}

func TestFlattenPolylinesKeepsOrder(t *testing.T) {
	rows := Rows(geom.WorldXY(), 5, 3, 1)
	pts, err := FlattenPolylines(context.Background(), rows, 1)
	require.NoError(t, err)
	require.Len(t, pts, 15)
	assert.Equal(t, geom.Vec{}, pts[0])
	assert.InDelta(t, 2, pts[len(pts)-1].Y, 1e-12)
	assert.InDelta(t, 4, pts[len(pts)-1].X, 1e-12)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FlattenPolylines(ctx, rows, 1)
	assert.Error(t, err)
}

func TestJitterStaysInPlane(t *testing.T) {
	pl := geom.WorldXY()
	pts := SquareLattice(pl, 6, 6, 1)
	moved := Jitter(pl, pts, 0.2, 0.37, 4)
	require.Len(t, moved, len(pts))
	shifted := 0
	for i := range pts {
		assert.Equal(t, 0.0, moved[i].Z)
		assert.Less(t, geom.Dist(pts[i], moved[i]), 1.0)
		if moved[i] != pts[i] {
			shifted++
		}
	}
	assert.Positive(t, shifted)
	assert.Equal(t, pts, Jitter(pl, pts, 0, 1, 4))
}
