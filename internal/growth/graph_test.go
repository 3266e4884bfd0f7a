package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootweave/internal/geom"
)

func TestSideNodeRejectsStemChild(t *testing.T) {
	g := NewGraph(geom.Vec{}, geom.Vec{Y: -1}, Unlimited)
	side := g.AddBranch(g.Anchor(), geom.Vec{X: 1}, 3)
	assert.Panics(t, func() { g.AddChild(side, geom.Vec{X: 2}, Stem) })
	assert.NotPanics(t, func() { g.AddChild(side, geom.Vec{X: 2}, Side) })
}

func TestLifespanCountsDown(t *testing.T) {
	g := NewGraph(geom.Vec{}, geom.Vec{Y: -1}, 3)
	a := g.AddChild(g.Anchor(), geom.Vec{Y: -1}, Stem)
	b := g.AddChild(a, geom.Vec{Y: -2}, Stem)
	assert.Equal(t, 2, g.Node(a).Lifespan)
	assert.Equal(t, 1, g.Node(b).Lifespan)
	assert.Equal(t, 2, g.Node(b).Step)

	br := g.AddBranch(a, geom.Vec{X: 1, Y: -1}, 5)
	assert.Equal(t, 5, g.Node(br).Lifespan)
	assert.Equal(t, 1, g.Node(br).Level)
	assert.Equal(t, Side, g.Node(br).Type)

	u := NewGraph(geom.Vec{}, geom.Vec{Y: -1}, Unlimited)
	c := u.AddChild(u.Anchor(), geom.Vec{Y: -1}, Stem)
	assert.Equal(t, Unlimited, u.Node(c).Lifespan)
}

func TestLineageCurveAndTurnOff(t *testing.T) {
	g := NewGraph(geom.Vec{}, geom.Vec{Y: -1}, Unlimited)
	a := g.AddChild(g.Anchor(), geom.Vec{Y: -1}, Stem)
	b := g.AddChild(a, geom.Vec{Y: -2}, Stem)
	side := g.AddBranch(a, geom.Vec{X: 1, Y: -1}, 2)
	g.AddChild(side, geom.Vec{X: 2, Y: -1}, Side)

	assert.Equal(t, []NodeID{a, b}, g.Lineage(a))
	assert.Equal(t, geom.Polyline{{}, {Y: -1}, {Y: -2}}, g.Curve(a))
	assert.Equal(t, geom.Polyline{{Y: -1}, {X: 1, Y: -1}, {X: 2, Y: -1}}, g.Curve(side))
	assert.Len(t, g.Edges(), 4)

	g.TurnOff(side)
	assert.Len(t, g.Edges(), 2)
	assert.Nil(t, g.Lineage(side))

	var seen []NodeID
	g.Walk(func(n *Node) bool {
		seen = append(seen, n.ID)
		return true
	})
	require.Equal(t, []NodeID{0, a, b}, seen)
}
