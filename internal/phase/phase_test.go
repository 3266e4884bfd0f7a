package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootweave/internal/geom"
)

func line(pts ...geom.Vec) geom.Polyline { return geom.Polyline(pts) }

func TestIntervalsByRole(t *testing.T) {
	c := geom.Polyline{{}, {X: 1}}
	assert.Equal(t, Branch{Role: Master, Curve: c, Start: 3, End: 10}, NewBranch(Master, c, 3, 10))
	assert.Equal(t, 7, NewBranch(Tap, c, 3, 10).End)
	assert.Equal(t, 5, NewBranch(Explorer, c, 3, 10).End)
}

func TestExplorerClampedToCeiling(t *testing.T) {
	b := NewBranch(Explorer, nil, 9, 10)
	assert.Equal(t, 9, b.Start)
	assert.Equal(t, 10, b.End)
	assert.True(t, b.ActiveAt(9))
	assert.False(t, b.ActiveAt(10))
	assert.True(t, b.DeadAt(10))

	b = NewBranch(Tap, nil, 8, 10)
	assert.Equal(t, 10, b.End)
}

func TestQueries(t *testing.T) {
	c := NewCollections(10)
	c.Add(NewBranch(Explorer, nil, 0, 10))
	c.Add(NewBranch(Explorer, nil, 2, 10))
	c.Add(NewBranch(Master, nil, 1, 10))
	c.Add(NewBranch(Tap, nil, 1, 10))
	require.Equal(t, 4, c.Len())
	require.Len(t, c.All(), 4)
	assert.Equal(t, Master, c.All()[0].Role)

	active, err := c.ActiveAt(Explorer, 2)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 2, active[0].Start)

	dead, err := c.DeadAt(Explorer, 2)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, 0, dead[0].Start)

	// Inclusive query sees the first explorer on its last frame.
	visible, err := c.VisibleAt(Explorer, 2)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	masters, err := c.ActiveAt(Master, 9)
	require.NoError(t, err)
	assert.Len(t, masters, 1)
	masters, err = c.ActiveAt(Master, 10)
	require.NoError(t, err)
	assert.Empty(t, masters)
}

func TestQueryOutOfRange(t *testing.T) {
	c := NewCollections(5)
	_, err := c.ActiveAt(Master, -1)
	assert.True(t, errors.Is(err, ErrPhaseOutOfRange))
	_, err = c.DeadAt(Tap, 6)
	assert.ErrorIs(t, err, ErrPhaseOutOfRange)
	_, err = c.VisibleAt(Tap, 5)
	assert.NoError(t, err)
}

func TestRescaleToTargetRadius(t *testing.T) {
	pl := geom.WorldXY()
	anchor := geom.Vec{X: 1, Y: 1}
	c := NewCollections(10)
	c.Add(NewBranch(Master, line(anchor, geom.Vec{X: 4, Y: 1, Z: -2}), 0, 10))
	c.Add(NewBranch(Explorer, line(anchor, geom.Vec{X: 1, Y: 2, Z: -1}), 1, 10))

	require.InDelta(t, 3, c.Radius(anchor, pl, 4), 1e-9)
	f := c.Rescale(anchor, pl, 6, 4)
	assert.InDelta(t, 2, f, 1e-9)
	assert.InDelta(t, 6, c.Radius(anchor, pl, 4), 1e-9)
	// The scale is uniform in 3D, so depth grows too.
	assert.InDelta(t, -4, c.Master[0].Curve[1].Z, 1e-9)
	assert.Equal(t, anchor, c.Master[0].Curve[0])
}

func TestRescaleWithoutExtent(t *testing.T) {
	pl := geom.WorldXY()
	c := NewCollections(10)
	c.Add(NewBranch(Tap, line(geom.Vec{}, geom.Vec{Z: -3}), 0, 10))
	assert.Equal(t, 1.0, c.Rescale(geom.Vec{}, pl, 5, 4))
	assert.Equal(t, -3.0, c.Tap[0].Curve[1].Z)
}

func TestFitStand(t *testing.T) {
	pl := geom.WorldXY()
	mk := func(anchor geom.Vec, reach float64) Tree {
		c := NewCollections(4)
		c.Add(NewBranch(Master, line(anchor, geom.Add(anchor, geom.Vec{X: reach})), 0, 4))
		return Tree{Anchor: anchor, Roots: c}
	}
	trees := []Tree{mk(geom.Vec{}, 5), mk(geom.Vec{X: 6}, 1), mk(geom.Vec{X: 30}, 2)}
	factors := FitStand(trees, pl, 2)

	assert.InDelta(t, 0.6, factors[0], 1e-9)
	assert.Equal(t, 1.0, factors[1])
	assert.Equal(t, 1.0, factors[2])
	assert.InDelta(t, 3, trees[0].Roots.Radius(trees[0].Anchor, pl, 2), 1e-9)

	lone := []Tree{mk(geom.Vec{}, 50)}
	assert.Equal(t, []float64{1}, FitStand(lone, pl, 2))
}
