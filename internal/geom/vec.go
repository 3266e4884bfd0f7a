// Package geom is the small geometry kernel shared by the soil index, the
// steering field and the growth engines. Vectors are gonum r3 vectors; angles
// crossing the package boundary are in degrees.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D point or vector.
type Vec = r3.Vec

// DotTolerance clamps normalised dot products before acos so that nearly
// parallel vectors report exact 0 or 180 degree angles.
const DotTolerance = 0.9999999

// Zero is the origin.
var Zero = Vec{}

// Add returns a+b.
func Add(a, b Vec) Vec { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec) Vec { return r3.Sub(a, b) }

// Scale returns v*f.
func Scale(v Vec, f float64) Vec { return r3.Scale(f, v) }

// Dot returns the dot product.
func Dot(a, b Vec) float64 { return r3.Dot(a, b) }

// Cross returns the cross product.
func Cross(a, b Vec) Vec { return r3.Cross(a, b) }

// Len returns the Euclidean length of v.
func Len(v Vec) float64 { return r3.Norm(v) }

// Dist returns the distance between two points.
func Dist(a, b Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

// DistSq returns the squared distance between two points.
func DistSq(a, b Vec) float64 { return r3.Norm2(r3.Sub(a, b)) }

// IsZero reports whether v has zero length.
func IsZero(v Vec) bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Unit returns v scaled to length one, or the zero vector for degenerate input.
func Unit(v Vec) Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return Vec{}
	}
	return r3.Scale(1/n, v)
}

// Rotate rotates v by deg degrees around axis following the right-hand rule.
func Rotate(v Vec, deg float64, axis Vec) Vec {
	axis = Unit(axis)
	if IsZero(axis) || deg == 0 {
		return v
	}
	return r3.Rotate(v, deg*math.Pi/180, axis)
}

// Angle returns the unsigned angle between a and b in degrees.
func Angle(a, b Vec) float64 {
	ua, ub := Unit(a), Unit(b)
	if IsZero(ua) || IsZero(ub) {
		return 0
	}
	d := r3.Dot(ua, ub)
	switch {
	case d > DotTolerance:
		return 0
	case d < -DotTolerance:
		return 180
	}
	return math.Acos(d) * 180 / math.Pi
}

// SignedAngle returns the angle from a to b in degrees, negative when the
// rotation from a to b is clockwise about normal. The result lies in
// [-180, 180].
func SignedAngle(a, b, normal Vec) float64 {
	ang := Angle(a, b)
	if ang == 0 || ang == 180 {
		return ang
	}
	if r3.Dot(r3.Cross(a, b), normal) < 0 {
		return -ang
	}
	return ang
}

// Lerp interpolates between a and b.
func Lerp(a, b Vec, t float64) Vec {
	return Add(a, Scale(Sub(b, a), t))
}

// Centroid returns the arithmetic mean of pts, or the zero vector for none.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, p := range pts {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(pts)), sum)
}
