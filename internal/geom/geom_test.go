package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAngle(t *testing.T) {
	n := Vec{Z: 1}
	assert.InDelta(t, 90, SignedAngle(Vec{X: 1}, Vec{Y: 1}, n), 1e-9)
	assert.InDelta(t, -90, SignedAngle(Vec{X: 1}, Vec{Y: -1}, n), 1e-9)
	assert.Equal(t, 0.0, SignedAngle(Vec{X: 1}, Vec{X: 2, Y: 1e-9}, n))
	assert.Equal(t, 180.0, Angle(Vec{X: 1}, Vec{X: -1}))
	assert.Equal(t, 0.0, Angle(Vec{}, Vec{X: 1}))
}

func TestRotateRightHanded(t *testing.T) {
	got := Rotate(Vec{Y: -1}, 90, Vec{Z: 1})
	assert.InDelta(t, 1, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)
	got = Rotate(Vec{Y: -1}, 270, Vec{Z: 1})
	assert.InDelta(t, -1, got.X, 1e-12)
}

func TestUnitDegenerate(t *testing.T) {
	assert.Equal(t, Vec{}, Unit(Vec{}))
	assert.InDelta(t, 1, Len(Unit(Vec{X: 3, Y: 4})), 1e-12)
}

func TestCircleContains(t *testing.T) {
	pl := WorldXY()
	c := Circle(pl, Vec{X: 2, Y: 2}, 1, 64)
	require.True(t, c.Closed())
	assert.True(t, c.Contains(pl, Vec{X: 2, Y: 2}))
	assert.True(t, c.Contains(pl, c[5]), "boundary points count as inside")
	assert.False(t, c.Contains(pl, Vec{X: 4, Y: 2}))
	assert.InDelta(t, 2*math.Pi, c.Len(), 0.01)
}

func TestDivideClosedSkipsSeam(t *testing.T) {
	sq := Polyline{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {}}
	pts := sq.Divide(4)
	require.Len(t, pts, 4)
	assert.InDelta(t, 0, Dist(pts[0], Vec{}), 1e-12)
	assert.InDelta(t, 0, Dist(pts[2], Vec{X: 1, Y: 1}), 1e-12)

	open := Polyline{{}, {X: 2}}
	pts = open.Divide(3)
	assert.InDelta(t, 1, pts[1].X, 1e-12)
	assert.InDelta(t, 2, pts[2].X, 1e-12)
}

func TestPlaneProjectRoundTrip(t *testing.T) {
	pl := NewPlane(Vec{X: 1, Y: 1, Z: 1}, Vec{X: 1}, Vec{Z: 1})
	u, v := pl.Project(Vec{X: 3, Y: 1, Z: 5})
	assert.InDelta(t, 2, u, 1e-12)
	assert.InDelta(t, 4, v, 1e-12)
	back := pl.At(u, v)
	assert.InDelta(t, 0, Dist(back, Vec{X: 3, Y: 1, Z: 5}), 1e-12)
	assert.InDelta(t, -1, Dot(pl.SectionDown(), Vec{Z: 1}), 1e-12)
}

func TestClosestDistanceEmpty(t *testing.T) {
	assert.True(t, math.IsInf(Polyline{}.ClosestDistance(Vec{}), 1))
	assert.Equal(t, 0.0, Polyline{}.Len())
}
