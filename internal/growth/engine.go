// Package growth grows root networks through a soil index. Both variants run
// the same breadth-first frontier loop: dequeue a node, prune it or expand it
// into a stem continuation and an optional side branch, steer each candidate,
// snap it onto the soil index and enqueue the accepted children.
package growth

import (
	"io"
	"log/slog"
	"math"

	"rootweave/internal/geom"
	"rootweave/internal/soil"
	"rootweave/internal/steer"
	"rootweave/pkg/core"
)

// keepLineage tells sprout to continue the parent's lineage.
const keepLineage = -2

// Stats counts what happened to the frontier during a run.
type Stats struct {
	Expanded         int
	PrunedByStep     int
	PrunedByLifespan int
	PrunedByBoundary int
	Bounced          int
	Rejected         int
	Stopped          int
}

// policy holds the variant-specific decisions of the frontier loop.
type policy interface {
	// bounce reports whether boundary contact reflects growth instead of
	// pruning it.
	bounce() bool
	// stop ends a lineage before the generic rules do.
	stop(g *grower, n *Node) bool
	// lateral returns a unit vector perpendicular to dir used for jitter.
	lateral(g *grower, dir geom.Vec) geom.Vec
	// branchAxis is the rotation axis for a side branch off dir.
	branchAxis(g *grower, dir geom.Vec) geom.Vec
	// adjust post-processes the stem step before steering.
	adjust(g *grower, n *Node, step geom.Vec) geom.Vec
	// placed is told about every accepted node.
	placed(g *grower, id NodeID)
}

// grower is the mutable state of one run. It is owned by a single goroutine.
type grower struct {
	ix     *soil.Index
	field  *steer.Field
	rng    *core.RNG
	params Params
	plane  geom.Plane
	down   geom.Vec
	unit   float64
	snap   SnapMode
	usage  map[soil.Key]int
	// origin is the step count that run treats as step zero.
	origin int
	policy policy
	logger *slog.Logger

	graph     *Graph
	main      []geom.Segment
	secondary []geom.Segment
	stats     Stats
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGrower(ix *soil.Index, field *steer.Field, rng *core.RNG, params Params, down geom.Vec, pol policy, logger *slog.Logger) *grower {
	if logger == nil {
		logger = discardLogger()
	}
	return &grower{
		ix:     ix,
		field:  field,
		rng:    rng,
		params: params,
		plane:  ix.Plane(),
		down:   geom.Unit(down),
		unit:   ix.UnitLen(),
		snap:   SnapNearest,
		usage:  make(map[soil.Key]int),
		policy: pol,
		logger: logger,
	}
}

// fanDirections spreads n seed directions over the lower half circle: the
// outermost two lie at 90 and 270 degrees from down, measured about axis.
func fanDirections(down, axis geom.Vec, n int) []geom.Vec {
	if n == 1 {
		return []geom.Vec{down}
	}
	out := make([]geom.Vec, n)
	for i := range out {
		ang := 90 - 180*float64(i)/float64(n-1)
		if ang < 0 {
			ang += 360
		}
		out[i] = geom.Unit(geom.Rotate(down, ang, axis))
	}
	return out
}

// start opens a graph at anchor.
func (g *grower) start(anchor geom.Vec) {
	g.graph = NewGraph(anchor, g.down, g.params.Lifespan)
	g.usage[soil.KeyOf(anchor)]++
}

// sprout places one unsteered child of parent per direction, one unit step
// away. With lifespan == keepLineage the children continue parent's lineage;
// otherwise each starts a branch with that lifespan. The returned ids join
// the frontier.
func (g *grower) sprout(parent NodeID, dirs []geom.Vec, lifespan int) []NodeID {
	from := g.graph.Node(parent).Pos
	var frontier []NodeID
	for _, d := range dirs {
		target := geom.Add(from, geom.Scale(d, g.unit))
		pos, ok := g.ix.NearestPoint(target)
		if !ok || !g.acceptable(from, pos) {
			g.stats.Rejected++
			g.logger.Warn("seed branch rejected", "from", from, "dir", d)
			continue
		}
		var id NodeID
		if lifespan == keepLineage {
			id = g.graph.AddChild(parent, pos, g.graph.Node(parent).Type)
		} else {
			id = g.graph.AddBranch(parent, pos, lifespan)
		}
		if id := g.commit(id); id != NoNode {
			frontier = append(frontier, id)
		}
	}
	return frontier
}

// run drains the frontier.
func (g *grower) run(frontier []NodeID) {
	for head := 0; head < len(frontier); head++ {
		id := frontier[head]
		n := *g.graph.Node(id)
		step := n.Step - g.origin

		switch {
		case step >= g.params.TotalSteps:
			g.stats.PrunedByStep++
			continue
		case n.Lifespan == 0:
			g.stats.PrunedByLifespan++
			continue
		case g.policy.stop(g, &n):
			g.stats.Stopped++
			continue
		}

		dir := n.Dir
		if g.ix.IsOnBoundary(n.Pos) {
			if !g.policy.bounce() {
				g.stats.PrunedByBoundary++
				continue
			}
			g.stats.Bounced++
			dir = geom.Sub(dir, geom.Scale(g.down, 2*geom.Dot(dir, g.down)))
		}

		g.stats.Expanded++
		stem := g.policy.adjust(g, &n, g.stemStep(&n, dir))
		if child := g.place(id, stem, Stem, false); child != NoNode {
			frontier = append(frontier, child)
		}

		interval := g.params.BranchingInterval
		if step > 0 && step%interval == 0 && n.Level < g.params.MaxBranchLevel {
			sign := 1.0
			if (step/interval)%2 == 1 {
				sign = -1
			}
			side := geom.Rotate(stem, sign*g.params.BranchAngle, g.policy.branchAxis(g, stem))
			if child := g.place(id, side, Side, true); child != NoNode {
				frontier = append(frontier, child)
			}
		}
	}
	g.logger.Debug("frontier drained",
		"nodes", g.graph.Len(),
		"expanded", g.stats.Expanded,
		"rejected", g.stats.Rejected)
}

// stemStep computes the continuation step of n heading along dir.
func (g *grower) stemStep(n *Node, dir geom.Vec) geom.Vec {
	p := g.params
	t := g.progress(n)
	bias := p.DownBiasEarly + (p.DownBiasLate-p.DownBiasEarly)*t

	heading := geom.Unit(dir)
	if geom.IsZero(heading) {
		heading = g.down
	}
	jitter := geom.Scale(g.policy.lateral(g, heading), p.Perturbation*g.rng.Signed())
	base := geom.Unit(geom.Add(geom.Add(heading, geom.Scale(g.down, bias)), jitter))
	if geom.IsZero(base) {
		base = g.down
	}
	length := g.rng.Range(p.MinStepFactor, p.MaxStepFactor) * g.unit
	return geom.Scale(base, length)
}

// progress is the fraction of the step budget n has used.
func (g *grower) progress(n *Node) float64 {
	return float64(n.Step-g.origin) / float64(g.params.TotalSteps)
}

// place steers and snaps a candidate step from parent and records it when
// accepted. It returns the id to enqueue, or NoNode.
func (g *grower) place(parent NodeID, step geom.Vec, typ NodeType, branch bool) NodeID {
	from := g.graph.Node(parent).Pos
	end := g.field.Steer(from, step)

	var pos geom.Vec
	var ok bool
	if g.snap == SnapTopology {
		pos, ok = g.ix.TopologyStep(from, geom.Sub(end, from))
	} else {
		pos, ok = g.ix.NearestPoint(end)
	}
	if !ok || !g.acceptable(from, pos) {
		g.stats.Rejected++
		return NoNode
	}

	var id NodeID
	if branch {
		id = g.graph.AddBranch(parent, pos, g.params.SideLifespan)
	} else {
		if g.graph.Node(parent).Type == Side {
			typ = Side
		}
		id = g.graph.AddChild(parent, pos, typ)
	}
	return g.commit(id)
}

func (g *grower) acceptable(from, pos geom.Vec) bool {
	minSq := g.params.MinStepSq * g.unit * g.unit
	if geom.DistSq(from, pos) <= minSq {
		return false
	}
	return g.usage[soil.KeyOf(pos)] < g.params.MaxUses
}

// commit books a freshly created node and reports whether it joins the
// frontier.
func (g *grower) commit(id NodeID) NodeID {
	n := g.graph.Node(id)
	g.usage[soil.KeyOf(n.Pos)]++
	seg := geom.Segment{A: g.graph.Node(n.Parent).Pos, B: n.Pos}
	if n.Level == 0 {
		g.main = append(g.main, seg)
	} else {
		g.secondary = append(g.secondary, seg)
	}
	g.policy.placed(g, id)
	if g.graph.Node(id).Lifespan == 0 {
		return NoNode
	}
	return id
}

// perpendicular returns a unit vector orthogonal to both v and ref, or to v
// and fallback when v is parallel to ref.
func perpendicular(v, ref, fallback geom.Vec) geom.Vec {
	axis := geom.Unit(geom.Cross(v, ref))
	if geom.IsZero(axis) {
		axis = geom.Unit(geom.Cross(v, fallback))
	}
	return axis
}

// gravity grows exponentially with the run fraction t.
func gravity(base, rate, t float64) float64 {
	return base * math.Exp(rate*t)
}
