// Package steer bends growth directions around attractor and repeller
// regions. A Field is built once per growth run from the region curves and is
// then a pure function of (point, direction).
package steer

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"

	"rootweave/internal/geom"
)

const (
	// Samples taken along a region boundary to find its facing cone.
	coneSamples = 100
	// Degrees added on both sides of the facing cone.
	coneEnlarge = 15.0

	insideAttractorScale = 2.0
	insideRepellerScale  = 0.3

	attractorForceCap = 1.5
	repellerForceCap  = 0.5

	rtreeMinChildren = 2
	rtreeMaxChildren = 8
)

// Kind tells whether a region pulls or pushes growth.
type Kind uint8

const (
	Attractor Kind = iota
	Repeller
)

func (k Kind) String() string {
	if k == Repeller {
		return "repeller"
	}
	return "attractor"
}

// Region is an obstacle or lure described by its boundary curve.
type Region struct {
	id       int
	Kind     Kind
	Boundary geom.Polyline

	samples  []geom.Vec
	centroid geom.Vec
	rect     rtreego.Rect
}

// Bounds implements rtreego.Spatial. The rectangle is the region's plane
// bounding box grown by the field's detection radius.
func (r *Region) Bounds() rtreego.Rect { return r.rect }

// Cone is the angular wedge a region occupies as seen from a point. Angles are
// signed degrees relative to the direction from the point to the region
// centroid.
type Cone struct {
	V0, V1                 geom.Vec
	V0Enlarged, V1Enlarged geom.Vec
	Angle0, Angle1         float64
}

// Field holds the regions of one growth run.
type Field struct {
	plane   geom.Plane
	radius  float64
	enabled bool
	regions []*Region
	tree    *rtreego.Rtree
}

// NewField indexes attractor and repeller curves.
func NewField(pl geom.Plane, attractors, repellers []geom.Polyline, detectRadius float64, enabled bool) *Field {
	f := &Field{plane: pl, radius: math.Max(detectRadius, 0), enabled: enabled}
	f.tree = rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	add := func(kind Kind, curves []geom.Polyline) {
		for _, c := range curves {
			if len(c) == 0 {
				continue
			}
			r := f.newRegion(len(f.regions), kind, c)
			f.regions = append(f.regions, r)
			f.tree.Insert(r)
		}
	}
	add(Attractor, attractors)
	add(Repeller, repellers)
	return f
}

func (f *Field) newRegion(id int, kind Kind, c geom.Polyline) *Region {
	samples := c.Divide(coneSamples)
	b := c.Bounds(f.plane)
	pad := f.radius + 1e-6
	rect, err := rtreego.NewRect(
		rtreego.Point{b.UMin - pad, b.VMin - pad},
		[]float64{b.UMax - b.UMin + 2*pad, b.VMax - b.VMin + 2*pad},
	)
	if err != nil {
		// Lengths are strictly positive, so NewRect cannot fail here.
		panic(err)
	}
	return &Region{
		id:       id,
		Kind:     kind,
		Boundary: c,
		samples:  samples,
		centroid: geom.Centroid(samples),
		rect:     rect,
	}
}

// Enabled reports whether steering is active.
func (f *Field) Enabled() bool { return f != nil && f.enabled }

// Regions returns every region in insertion order.
func (f *Field) Regions() []*Region { return f.regions }

// Steer returns the endpoint of dir applied at p after regional influence.
func (f *Field) Steer(p, dir geom.Vec) geom.Vec {
	plain := geom.Add(p, dir)
	if !f.Enabled() || len(f.regions) == 0 {
		return plain
	}

	near := f.candidates(p)
	for _, r := range near {
		if r.Kind == Attractor && r.Boundary.Contains(f.plane, p) {
			return geom.Add(p, geom.Scale(dir, insideAttractorScale))
		}
	}
	for _, r := range near {
		if r.Kind == Repeller && r.Boundary.Contains(f.plane, p) {
			return geom.Add(p, geom.Scale(dir, insideRepellerScale))
		}
	}

	// Distances are measured in the plane so depth below a region does not
	// push it out of range.
	onPlane := f.plane.At(f.plane.Project(p))
	var ends []geom.Vec
	for _, r := range near {
		d := r.Boundary.ClosestDistance(onPlane)
		if d <= 0 || d > f.radius {
			continue
		}
		if end, ok := f.influence(r, p, dir, d); ok {
			ends = append(ends, end)
		}
	}
	if len(ends) == 0 {
		return plain
	}
	return geom.Centroid(ends)
}

func (f *Field) candidates(p geom.Vec) []*Region {
	u, v := f.plane.Project(p)
	found := f.tree.SearchIntersect(rtreego.Point{u, v}.ToRect(1e-9))
	out := make([]*Region, 0, len(found))
	for _, s := range found {
		out = append(out, s.(*Region))
	}
	slices.SortFunc(out, func(a, b *Region) int { return a.id - b.id })
	return out
}

// FacingCone computes the wedge region r subtends as seen from p.
func (f *Field) FacingCone(r *Region, p geom.Vec) (Cone, bool) {
	n := f.plane.Normal
	toCenter := f.plane.Flatten(geom.Sub(r.centroid, p))
	if geom.IsZero(geom.Unit(toCenter)) {
		return Cone{}, false
	}
	c := Cone{Angle0: math.Inf(1), Angle1: math.Inf(-1)}
	for _, s := range r.samples {
		v := geom.Unit(f.plane.Flatten(geom.Sub(s, p)))
		if geom.IsZero(v) {
			continue
		}
		a := geom.SignedAngle(toCenter, v, n)
		if a < c.Angle0 {
			c.Angle0, c.V0 = a, v
		}
		if a > c.Angle1 {
			c.Angle1, c.V1 = a, v
		}
	}
	if math.IsInf(c.Angle0, 1) {
		return Cone{}, false
	}
	c.V0Enlarged = geom.Rotate(c.V0, -coneEnlarge, n)
	c.V1Enlarged = geom.Rotate(c.V1, coneEnlarge, n)
	return c, true
}

func (f *Field) influence(r *Region, p, dir geom.Vec, dist float64) (geom.Vec, bool) {
	cone, ok := f.FacingCone(r, p)
	if !ok {
		return geom.Vec{}, false
	}
	flat := f.plane.Flatten(dir)
	if geom.IsZero(geom.Unit(flat)) {
		return geom.Vec{}, false
	}
	toCenter := f.plane.Flatten(geom.Sub(r.centroid, p))
	a := geom.SignedAngle(toCenter, flat, f.plane.Normal)

	forceCap := attractorForceCap
	toward := 1.0
	if r.Kind == Repeller {
		forceCap = repellerForceCap
		toward = -1
	}
	force := math.Min(f.radius*f.radius/(dist*dist), forceCap)

	var moved geom.Vec
	switch {
	case a >= cone.Angle0 && a <= cone.Angle1:
		moved = geom.Scale(dir, force)
	case a >= cone.Angle0-coneEnlarge && a < cone.Angle0:
		moved = geom.Scale(geom.Rotate(dir, toward*coneEnlarge, f.plane.Normal), force)
	case a > cone.Angle1 && a <= cone.Angle1+coneEnlarge:
		moved = geom.Scale(geom.Rotate(dir, -toward*coneEnlarge, f.plane.Normal), force)
	default:
		return geom.Vec{}, false
	}
	return geom.Add(p, moved), true
}

// Steer is the one-shot form of Field.Steer for callers without a prepared
// field.
func Steer(pl geom.Plane, p, dir geom.Vec, attractors, repellers []geom.Polyline, detectRadius float64, enabled bool) geom.Vec {
	if !enabled {
		return geom.Add(p, dir)
	}
	return NewField(pl, attractors, repellers, detectRadius, enabled).Steer(p, dir)
}
