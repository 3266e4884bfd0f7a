package render

import (
	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/phase"
)

var roleClass = map[phase.Role]uint8{
	phase.Master:   CellMaster,
	phase.Tap:      CellTap,
	phase.Explorer: CellExplorer,
}

// Graph draws every active edge whose child is at most maxStep steps from the
// anchor. Level 0 edges are main roots. A negative maxStep draws everything.
func (r *Raster) Graph(g *growth.Graph, maxStep int) {
	g.Walk(func(n *growth.Node) bool {
		if n.Parent == growth.NoNode {
			return true
		}
		if maxStep >= 0 && n.Step > maxStep {
			return false
		}
		class := CellSecondary
		if n.Level == 0 {
			class = CellMain
		}
		r.Line(g.Node(n.Parent).Pos, n.Pos, class)
		return true
	})
}

// Roots draws a phased system as seen at phase p, or every branch when p is
// negative. The first master is the main tap root and is drawn as main.
func (r *Raster) Roots(res *growth.PhasedResult, p int) {
	for _, role := range []phase.Role{phase.Explorer, phase.Tap, phase.Master} {
		branches := res.Roots.Role(role)
		if p >= 0 {
			visible, err := res.Roots.VisibleAt(role, p)
			if err != nil {
				continue
			}
			branches = visible
		}
		for i, b := range branches {
			class := roleClass[role]
			if role == phase.Master && i == 0 {
				class = CellMain
			}
			r.Polyline(b.Curve, class)
		}
	}
	r.Point(res.Anchor, CellAnchor)
}

// Regions outlines attractor and repeller polylines of an enabled environment.
func (r *Raster) Regions(env growth.Environment) {
	if !env.Enabled {
		return
	}
	for _, set := range [][]geom.Polyline{env.Attractors, env.Repellers} {
		for _, c := range set {
			r.Polyline(c, CellRegion)
		}
	}
}
