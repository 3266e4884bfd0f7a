package growth

import (
	"fmt"
	"math"

	"rootweave/internal/geom"
	"rootweave/internal/soil"
	"rootweave/internal/steer"
	"rootweave/pkg/core"
)

// Result is the outcome of a sectional run.
type Result struct {
	Graph  *Graph
	Anchor geom.Vec
	// Main holds level 0 edges, Secondary every deeper one.
	Main      []geom.Segment
	Secondary []geom.Segment
	Stats     Stats
}

// Extension is the summed length of every placed edge.
func (r *Result) Extension() float64 {
	total := 0.0
	for _, s := range r.Main {
		total += s.Len()
	}
	for _, s := range r.Secondary {
		total += s.Len()
	}
	return total
}

// Depth is the largest step count of any node.
func (r *Result) Depth() int {
	depth := 0
	for _, n := range r.Graph.Nodes() {
		depth = max(depth, n.Step)
	}
	return depth
}

// ScoreMap accumulates how crowded each soil point is.
type ScoreMap map[soil.Key]float64

// NewScoreMap seeds a zero score for every indexed key.
func NewScoreMap(ix *soil.Index) ScoreMap {
	m := make(ScoreMap, ix.Len())
	for _, k := range ix.Keys() {
		m[k] = 0
	}
	return m
}

// Deposit adds 1/(1+d) to the k points nearest p, d being their distance.
func (m ScoreMap) Deposit(ix *soil.Index, p geom.Vec, k int) {
	for _, h := range ix.NearestHits(p, k) {
		m[h.Key] += 1 / (1 + h.Dist)
	}
}

// Avoidance is the unit vector pointing away from the crowded part of the k
// nearest points. It is zero when none of them carries a score.
func (m ScoreMap) Avoidance(ix *soil.Index, p geom.Vec, k int) geom.Vec {
	var pull geom.Vec
	for _, h := range ix.NearestHits(p, k) {
		s := m[h.Key]
		if s == 0 {
			continue
		}
		pull = geom.Add(pull, geom.Scale(geom.Unit(geom.Sub(h.Pos, p)), s))
	}
	return geom.Scale(geom.Unit(pull), -1)
}

type sectional struct {
	scoring Scoring
	scores  ScoreMap
}

func (s *sectional) bounce() bool { return false }

func (s *sectional) stop(*grower, *Node) bool { return false }

func (s *sectional) lateral(g *grower, dir geom.Vec) geom.Vec {
	return perpendicular(dir, g.plane.Normal, g.plane.XAxis)
}

func (s *sectional) branchAxis(g *grower, _ geom.Vec) geom.Vec { return g.plane.Normal }

func (s *sectional) adjust(g *grower, n *Node, step geom.Vec) geom.Vec {
	length := geom.Len(step)
	if length == 0 {
		return step
	}
	sc := s.scoring
	dir := geom.Unit(step)
	dir = geom.Add(dir, geom.Scale(s.scores.Avoidance(g.ix, n.Pos, sc.Neighbors), sc.DensityWeight))
	dir = geom.Add(dir, geom.Scale(g.down, gravity(sc.GravityBase, sc.GravityRate, g.progress(n))))
	// Push further out on whichever side of the anchor the step heads.
	if side := geom.Dot(step, g.plane.XAxis); side != 0 {
		push := math.Copysign(sc.LateralScale*g.rng.Float64(), side)
		dir = geom.Add(dir, geom.Scale(g.plane.XAxis, push))
	}
	dir = geom.Unit(dir)
	if geom.IsZero(dir) {
		return step
	}
	return geom.Scale(dir, length)
}

func (s *sectional) placed(g *grower, id NodeID) {
	n := g.graph.Node(id)
	if n.Step-g.origin > s.scoring.Warmup {
		s.scores.Deposit(g.ix, n.Pos, s.scoring.Neighbors)
	}
}

// Grow runs the sectional variant: roots spread from anchor through a planar
// soil index, pulled down by gravity and pushed away from crowded ground.
func Grow(ix *soil.Index, anchor geom.Vec, cfg SectionalConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ix == nil || ix.Len() == 0 {
		return nil, fmt.Errorf("grow: %w", soil.ErrEmptyIndex)
	}
	if ix.UnitLen() == 0 {
		return nil, fmt.Errorf("%w: %d point(s) cannot define a step length", ErrInsufficientDensity, ix.Len())
	}
	if cfg.Snap == SnapTopology && !ix.HasTopology() {
		return nil, fmt.Errorf("%w: topology snapping needs BuildTopology first", ErrInvalidConfig)
	}

	pl := ix.Plane()
	env := cfg.Environment
	field := steer.NewField(pl, env.Attractors, env.Repellers, env.DetectRadius, env.Enabled)
	pol := &sectional{scoring: cfg.Scoring, scores: NewScoreMap(ix)}
	g := newGrower(ix, field, core.NewRNGFrom(cfg.Seed), cfg.Params, pl.SectionDown(), pol, cfg.Logger)
	g.snap = cfg.Snap

	start, _ := ix.NearestPoint(anchor)
	g.start(start)
	frontier := g.sprout(g.graph.Anchor(), fanDirections(g.down, pl.Normal, cfg.Params.BranchCount), keepLineage)
	g.run(frontier)

	res := &Result{
		Graph:     g.graph,
		Anchor:    start,
		Main:      g.main,
		Secondary: g.secondary,
		Stats:     g.stats,
	}
	g.logger.Info("sectional growth finished",
		"nodes", g.graph.Len(),
		"main", len(res.Main),
		"secondary", len(res.Secondary),
		"extension", res.Extension())
	return res, nil
}
