package geom

import "math"

// Plane is an oriented reference frame. XAxis and YAxis are orthonormal and
// Normal is their cross product.
type Plane struct {
	Origin Vec
	XAxis  Vec
	YAxis  Vec
	Normal Vec
}

// WorldXY is the horizontal plane through the origin with +Z as normal.
func WorldXY() Plane {
	return Plane{XAxis: Vec{X: 1}, YAxis: Vec{Y: 1}, Normal: Vec{Z: 1}}
}

// NewPlane builds an orthonormal plane from an origin and two in-plane
// directions. The y direction is re-orthogonalised against x.
func NewPlane(origin, x, y Vec) Plane {
	xa := Unit(x)
	n := Unit(Cross(xa, y))
	ya := Cross(n, xa)
	return Plane{Origin: origin, XAxis: xa, YAxis: ya, Normal: n}
}

// Project returns the parametric coordinates of p in the plane.
func (pl Plane) Project(p Vec) (u, v float64) {
	d := Sub(p, pl.Origin)
	return Dot(d, pl.XAxis), Dot(d, pl.YAxis)
}

// Elevation returns the signed distance of p along the normal.
func (pl Plane) Elevation(p Vec) float64 {
	return Dot(Sub(p, pl.Origin), pl.Normal)
}

// At returns the world point at parametric coordinates (u, v).
func (pl Plane) At(u, v float64) Vec {
	return Add(pl.Origin, Add(Scale(pl.XAxis, u), Scale(pl.YAxis, v)))
}

// Flatten removes the normal component of v.
func (pl Plane) Flatten(v Vec) Vec {
	return Sub(v, Scale(pl.Normal, Dot(v, pl.Normal)))
}

// SectionDown is "down" for growth drawn inside the plane (a soil profile):
// the negative y axis.
func (pl Plane) SectionDown() Vec { return Scale(pl.YAxis, -1) }

// GroundDown is "down" for growth below the plane (a ground surface): the
// negative normal.
func (pl Plane) GroundDown() Vec { return Scale(pl.Normal, -1) }

// Bounds2 is an axis aligned box in plane coordinates.
type Bounds2 struct {
	UMin, UMax float64
	VMin, VMax float64
}

// EmptyBounds2 returns an inverted box that any Extend call replaces.
func EmptyBounds2() Bounds2 {
	return Bounds2{UMin: math.Inf(1), UMax: math.Inf(-1), VMin: math.Inf(1), VMax: math.Inf(-1)}
}

// Extend grows b to include (u, v).
func (b *Bounds2) Extend(u, v float64) {
	b.UMin = math.Min(b.UMin, u)
	b.UMax = math.Max(b.UMax, u)
	b.VMin = math.Min(b.VMin, v)
	b.VMax = math.Max(b.VMax, v)
}

// Empty reports whether nothing has been added to b.
func (b Bounds2) Empty() bool { return b.UMin > b.UMax || b.VMin > b.VMax }

// Inside reports whether (u, v) lies inside b, edges included, with slack eps.
func (b Bounds2) Inside(u, v, eps float64) bool {
	return u >= b.UMin-eps && u <= b.UMax+eps && v >= b.VMin-eps && v <= b.VMax+eps
}

// Center returns the middle of the box.
func (b Bounds2) Center() (u, v float64) {
	return (b.UMin + b.UMax) / 2, (b.VMin + b.VMax) / 2
}
