package geom

import "math"

// containsEps is how close to a boundary a point may be and still count as on it.
const containsEps = 1e-9

// Segment is a straight line between two points.
type Segment struct {
	A, B Vec
}

// Len returns the segment length.
func (s Segment) Len() float64 { return Dist(s.A, s.B) }

// ClosestPoint returns the point on s nearest to p.
func (s Segment) ClosestPoint(p Vec) Vec {
	d := Sub(s.B, s.A)
	l2 := Dot(d, d)
	if l2 == 0 {
		return s.A
	}
	t := Dot(Sub(p, s.A), d) / l2
	t = math.Max(0, math.Min(1, t))
	return Add(s.A, Scale(d, t))
}

// Polyline is a piecewise linear curve. A polyline whose last point equals its
// first is closed.
type Polyline []Vec

// Circle approximates a circle in pl around center with n segments. The
// result is closed.
func Circle(pl Plane, center Vec, radius float64, n int) Polyline {
	if n < 3 {
		n = 3
	}
	out := make(Polyline, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		off := Add(Scale(pl.XAxis, radius*math.Cos(a)), Scale(pl.YAxis, radius*math.Sin(a)))
		out = append(out, Add(center, off))
	}
	return append(out, out[0])
}

// Closed reports whether the curve ends where it starts.
func (c Polyline) Closed() bool {
	return len(c) > 2 && DistSq(c[0], c[len(c)-1]) < containsEps*containsEps
}

// Len returns the total arc length.
func (c Polyline) Len() float64 {
	total := 0.0
	for i := 1; i < len(c); i++ {
		total += Dist(c[i-1], c[i])
	}
	return total
}

// Segments returns the straight pieces of the curve.
func (c Polyline) Segments() []Segment {
	if len(c) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(c)-1)
	for i := 1; i < len(c); i++ {
		out = append(out, Segment{A: c[i-1], B: c[i]})
	}
	return out
}

// PointAt returns the point at arc-length fraction t in [0, 1].
func (c Polyline) PointAt(t float64) Vec {
	switch len(c) {
	case 0:
		return Vec{}
	case 1:
		return c[0]
	}
	total := c.Len()
	if total == 0 {
		return c[0]
	}
	target := math.Max(0, math.Min(1, t)) * total
	walked := 0.0
	for i := 1; i < len(c); i++ {
		seg := Dist(c[i-1], c[i])
		if walked+seg >= target {
			if seg == 0 {
				return c[i]
			}
			return Lerp(c[i-1], c[i], (target-walked)/seg)
		}
		walked += seg
	}
	return c[len(c)-1]
}

// Divide returns n points evenly spaced by arc length. Closed curves do not
// repeat the start point; open curves include both ends.
func (c Polyline) Divide(n int) []Vec {
	if n <= 0 || len(c) == 0 {
		return nil
	}
	if n == 1 {
		return []Vec{c[0]}
	}
	out := make([]Vec, n)
	denom := float64(n - 1)
	if c.Closed() {
		denom = float64(n)
	}
	for i := range out {
		out[i] = c.PointAt(float64(i) / denom)
	}
	return out
}

// ClosestDistance returns the distance from p to the nearest point on c.
func (c Polyline) ClosestDistance(p Vec) float64 {
	switch len(c) {
	case 0:
		return math.Inf(1)
	case 1:
		return Dist(c[0], p)
	}
	best := math.Inf(1)
	for i := 1; i < len(c); i++ {
		q := Segment{A: c[i-1], B: c[i]}.ClosestPoint(p)
		if d := Dist(p, q); d < best {
			best = d
		}
	}
	return best
}

// Contains reports whether p, projected onto pl, lies inside or on the closed
// curve. Open curves contain nothing.
func (c Polyline) Contains(pl Plane, p Vec) bool {
	if !c.Closed() {
		return false
	}
	if c.ClosestDistance(p) <= containsEps {
		return true
	}
	pu, pv := pl.Project(p)
	inside := false
	for i, j := 0, len(c)-2; i < len(c)-1; j, i = i, i+1 {
		ui, vi := pl.Project(c[i])
		uj, vj := pl.Project(c[j])
		if (vi > pv) != (vj > pv) {
			x := (uj-ui)*(pv-vi)/(vj-vi) + ui
			if pu < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the curve's extent in plane coordinates.
func (c Polyline) Bounds(pl Plane) Bounds2 {
	b := EmptyBounds2()
	for _, p := range c {
		u, v := pl.Project(p)
		b.Extend(u, v)
	}
	return b
}

// ScaleAbout returns a copy of c scaled uniformly by f around center.
func (c Polyline) ScaleAbout(center Vec, f float64) Polyline {
	out := make(Polyline, len(c))
	for i, p := range c {
		out[i] = Add(center, Scale(Sub(p, center), f))
	}
	return out
}
