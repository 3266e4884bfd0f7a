package phase

import (
	"math"

	"rootweave/internal/geom"
)

// Radius is the largest in-plane distance from anchor to any branch. Each
// curve is sampled at ceil(len*density)+1 points.
func (c *Collections) Radius(anchor geom.Vec, pl geom.Plane, density float64) float64 {
	au, av := pl.Project(anchor)
	best := 0.0
	for _, b := range c.All() {
		n := int(math.Ceil(b.Curve.Len()*density)) + 1
		for _, p := range b.Curve.Divide(n) {
			u, v := pl.Project(p)
			best = math.Max(best, math.Hypot(u-au, v-av))
		}
	}
	return best
}

// Rescale scales every branch uniformly about anchor so that Radius equals
// target, and returns the factor applied. Nothing happens when the system
// has no horizontal extent.
func (c *Collections) Rescale(anchor geom.Vec, pl geom.Plane, target, density float64) float64 {
	r := c.Radius(anchor, pl, density)
	if r == 0 || target <= 0 {
		return 1
	}
	f := target / r
	for _, set := range [][]Branch{c.Master, c.Tap, c.Explorer} {
		for i := range set {
			set[i].Curve = set[i].Curve.ScaleAbout(anchor, f)
		}
	}
	return f
}

// Tree is one member of a stand.
type Tree struct {
	Anchor geom.Vec
	Roots  *Collections
}

// FitStand shrinks each tree whose radius exceeds half the in-plane distance
// to its nearest neighbour, so neighbouring systems do not overlap. It
// returns the factor applied to each tree.
func FitStand(trees []Tree, pl geom.Plane, density float64) []float64 {
	factors := make([]float64, len(trees))
	for i, t := range trees {
		factors[i] = 1
		limit := math.Inf(1)
		iu, iv := pl.Project(t.Anchor)
		for j, o := range trees {
			if i == j {
				continue
			}
			ju, jv := pl.Project(o.Anchor)
			limit = math.Min(limit, math.Hypot(iu-ju, iv-jv)/2)
		}
		if math.IsInf(limit, 1) || t.Roots == nil {
			continue
		}
		if t.Roots.Radius(t.Anchor, pl, density) > limit {
			factors[i] = t.Roots.Rescale(t.Anchor, pl, limit, density)
		}
	}
	return factors
}
