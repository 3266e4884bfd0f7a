package growth

import (
	"fmt"
	"math"

	"rootweave/internal/geom"
	"rootweave/internal/phase"
	"rootweave/internal/soil"
	"rootweave/internal/steer"
	"rootweave/pkg/core"
)

// tapOvershoot is how much longer than its target height a tap root may get
// before the soil is judged too sparse.
const tapOvershoot = 1.5

// PhasedResult is the outcome of a phased run.
type PhasedResult struct {
	// Graph holds the grown nodes at soil coordinates, before any rescaling.
	Graph  *Graph
	Anchor geom.Vec
	// TapRoot is the main downward lineage the levels hang from, at the same
	// scale as Roots.
	TapRoot geom.Polyline
	Roots   *phase.Collections
	// Scale is the uniform factor applied to Roots by rescaling.
	Scale float64
	Stats Stats
}

type phased struct {
	anchor geom.Vec
	// stopDepth ends lineages at this depth below the anchor. Zero disables.
	stopDepth float64
}

func (p *phased) bounce() bool { return true }

func (p *phased) stop(g *grower, n *Node) bool {
	return p.stopDepth > 0 && p.depth(g, n.Pos) >= p.stopDepth
}

func (p *phased) depth(g *grower, pos geom.Vec) float64 {
	return geom.Dot(geom.Sub(pos, p.anchor), g.down)
}

// lateral picks a random direction around dir.
func (p *phased) lateral(g *grower, dir geom.Vec) geom.Vec {
	base := perpendicular(dir, g.down, g.plane.XAxis)
	return geom.Rotate(base, g.rng.Range(0, 360), dir)
}

func (p *phased) branchAxis(g *grower, dir geom.Vec) geom.Vec { return p.lateral(g, dir) }

func (p *phased) adjust(_ *grower, _ *Node, step geom.Vec) geom.Vec { return step }

func (p *phased) placed(*grower, NodeID) {}

// spawn remembers where a phased branch starts and when.
type spawn struct {
	role  phase.Role
	id    NodeID
	phase int
}

// GrowPhased runs the 3D variant. A main tap root is grown down to
// cfg.Height; then, level by level along it, rounds of master roots fan out,
// side branches become explorers and every master tip sends down a short
// tap. Each round advances the spawn phase by one.
func GrowPhased(ix *soil.Index, anchor geom.Vec, cfg PhasedConfig) (*PhasedResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ix == nil || ix.Len() == 0 {
		return nil, fmt.Errorf("grow phased: %w", soil.ErrEmptyIndex)
	}
	if ix.UnitLen() == 0 {
		return nil, fmt.Errorf("%w: %d point(s) cannot define a step length", ErrInsufficientDensity, ix.Len())
	}

	pl := ix.Plane()
	env := cfg.Environment
	field := steer.NewField(pl, env.Attractors, env.Repellers, env.DetectRadius, env.Enabled)
	pol := &phased{}
	g := newGrower(ix, field, core.NewRNGFrom(cfg.Seed), cfg.Params, pl.GroundDown(), pol, cfg.Logger)

	start, _ := ix.NearestPoint(anchor)
	pol.anchor = start

	tap, err := g.growTapRoot(pol, cfg)
	if err != nil {
		g.logger.Warn("phased growth aborted", "err", err)
		return nil, err
	}

	spawns := []spawn{{role: phase.Master, id: tap[0], phase: 0}}
	spawns = append(spawns, g.growLevels(tap, cfg)...)
	g.prune(spawns[1:], cfg.MinBranchNodes)

	roots := phase.NewCollections(cfg.MaxPhase)
	for _, s := range spawns {
		if !g.graph.Node(s.id).Active {
			continue
		}
		roots.Add(phase.NewBranch(s.role, g.graph.Curve(s.id), s.phase, cfg.MaxPhase))
	}

	res := &PhasedResult{
		Graph:   g.graph,
		Anchor:  start,
		TapRoot: g.graph.Curve(tap[0]),
		Roots:   roots,
		Scale:   1,
		Stats:   g.stats,
	}
	if cfg.TargetRadius > 0 {
		res.Scale = roots.Rescale(start, pl, cfg.TargetRadius, cfg.SampleDensity)
		res.TapRoot = roots.Master[0].Curve
	}
	g.logger.Info("phased growth finished",
		"nodes", g.graph.Len(),
		"masters", len(roots.Master),
		"taps", len(roots.Tap),
		"explorers", len(roots.Explorer),
		"scale", res.Scale)
	return res, nil
}

// growTapRoot grows the main lineage straight down and returns its node ids.
func (g *grower) growTapRoot(pol *phased, cfg PhasedConfig) ([]NodeID, error) {
	p := cfg.Params
	p.Lifespan = Unlimited
	p.MaxBranchLevel = 0
	p.DownBiasEarly, p.DownBiasLate = 1, 1
	p.TotalSteps = int(math.Ceil(tapOvershoot*cfg.Height/g.unit)) + 1
	g.params = p

	g.start(pol.anchor)
	seeds := g.sprout(g.graph.Anchor(), []geom.Vec{g.down}, keepLineage)
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no soil point below the anchor (%d points, unitLen %.3f)",
			ErrInsufficientDensity, g.ix.Len(), g.unit)
	}
	pol.stopDepth = cfg.Height
	g.run(seeds)
	pol.stopDepth = 0

	ids := g.graph.Lineage(seeds[0])
	curve := g.graph.Curve(seeds[0])
	reached := pol.depth(g, g.graph.Node(ids[len(ids)-1]).Pos)
	if err := checkTapRoot(curve.Len(), reached, cfg.Height); err != nil {
		return nil, fmt.Errorf("%w (%d points, unitLen %.3f)", err, g.ix.Len(), g.unit)
	}
	return ids, nil
}

// checkTapRoot rejects a tap root that wandered far past its target length
// or never got down to it.
func checkTapRoot(length, reached, height float64) error {
	if length > tapOvershoot*height {
		return fmt.Errorf("%w: tap root is %.2f long for a target height of %.2f",
			ErrInsufficientDensity, length, height)
	}
	if reached < height {
		return fmt.Errorf("%w: tap root stalled at depth %.2f of %.2f",
			ErrInsufficientDensity, reached, height)
	}
	return nil
}

// growLevels runs the branching rounds along the tap root.
func (g *grower) growLevels(tap []NodeID, cfg PhasedConfig) []spawn {
	round := cfg.Params
	round.MaxBranchLevel = cfg.Params.MaxBranchLevel + 1

	tip := cfg.Params
	tip.MaxBranchLevel = 0
	tip.DownBiasEarly, tip.DownBiasLate = 1, 1
	tip.TotalSteps = cfg.TapSteps + 1

	var spawns []spawn
	ph := 0
	for lvl := 0; lvl < cfg.Levels && ph < cfg.MaxPhase; lvl++ {
		origin := tap[(len(tap)-1)*lvl/cfg.Levels]
		for r := 0; r < cfg.RoundsPerLevel && ph < cfg.MaxPhase; r++ {
			g.params = round
			g.origin = g.graph.Node(origin).Step
			mark := NodeID(g.graph.Len())
			dirs := masterDirections(g.plane, g.down, cfg.Params.BranchCount, r, cfg.MasterTilt)
			masters := g.sprout(origin, dirs, Unlimited)
			g.run(masters)

			for _, id := range masters {
				spawns = append(spawns, spawn{role: phase.Master, id: id, phase: ph})
			}
			for id := mark; id < NodeID(g.graph.Len()); id++ {
				n := g.graph.Node(id)
				if n.Parent != origin && n.Level > g.graph.Node(n.Parent).Level {
					spawns = append(spawns, spawn{role: phase.Explorer, id: id, phase: ph})
				}
			}

			if cfg.TapSteps > 0 {
				g.params = tip
				for _, id := range masters {
					lin := g.graph.Lineage(id)
					end := lin[len(lin)-1]
					g.origin = g.graph.Node(end).Step
					taps := g.sprout(end, []geom.Vec{g.down}, cfg.TapSteps)
					for _, t := range taps {
						spawns = append(spawns, spawn{role: phase.Tap, id: t, phase: ph})
					}
					g.run(taps)
				}
			}
			g.logger.Debug("phased round grown", "level", lvl, "round", r, "phase", ph, "masters", len(masters))
			ph++
		}
	}
	return spawns
}

// prune turns off spawned lineages with fewer than minNodes nodes.
func (g *grower) prune(spawns []spawn, minNodes int) {
	for _, s := range spawns {
		if !g.graph.Node(s.id).Active {
			continue
		}
		if len(g.graph.Lineage(s.id)) < minNodes {
			g.graph.TurnOff(s.id)
		}
	}
}

// masterDirections fans n directions around the plane normal, turned by half
// a slot per round, and tilts them down.
func masterDirections(pl geom.Plane, down geom.Vec, n, round int, tilt float64) []geom.Vec {
	out := make([]geom.Vec, n)
	for i := range out {
		az := 360*float64(i)/float64(n) + float64(round)*180/float64(n)
		h := geom.Rotate(pl.XAxis, az, pl.Normal)
		out[i] = geom.Unit(geom.Add(h, geom.Scale(down, tilt)))
	}
	return out
}
