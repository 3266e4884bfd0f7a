package soil

import (
	"math"

	"rootweave/internal/geom"
)

const (
	topologySectors   = 6
	topologyCandidate = 12
)

type sectorSlot struct {
	key  Key
	dist float64
	ok   bool
}

// BuildTopology records, for every point, the nearest neighbour in each of six
// 60 degree sectors centred on the index plane's x axis and its rotations. It is only
// needed by the sectional topology snapping mode.
func (ix *Index) BuildTopology() {
	ix.topo = make(map[Key][]Key, len(ix.order))
	for _, k := range ix.order {
		p := ix.pos[k]
		var slots [topologySectors]sectorSlot
		for _, h := range ix.NearestHits(p, topologyCandidate+1) {
			if h.Key == k {
				continue
			}
			s := sectorOf(ix.plane, geom.Sub(h.Pos, p))
			cur := &slots[s]
			if !cur.ok || h.Dist < cur.dist || (h.Dist == cur.dist && h.Key.Less(cur.key)) {
				*cur = sectorSlot{key: h.Key, dist: h.Dist, ok: true}
			}
		}
		var nbs []Key
		for _, s := range slots {
			if s.ok {
				nbs = append(nbs, s.key)
			}
		}
		ix.topo[k] = nbs
	}
}

func sectorOf(pl geom.Plane, d geom.Vec) int {
	ang := math.Atan2(geom.Dot(d, pl.YAxis), geom.Dot(d, pl.XAxis))*180/math.Pi + 30
	if ang < 0 {
		ang += 360
	}
	return int(ang/60) % topologySectors
}

// HasTopology reports whether BuildTopology has run.
func (ix *Index) HasTopology() bool { return ix.topo != nil }

// Neighbors returns the sector neighbours of k ordered by sector.
func (ix *Index) Neighbors(k Key) []Key {
	return ix.topo[k]
}

// TopologyStep moves one neighbour hop from the point nearest to from, picking
// the neighbour best aligned with dir.
func (ix *Index) TopologyStep(from, dir geom.Vec) (geom.Vec, bool) {
	k, ok := ix.NearestKey(from)
	if !ok {
		return geom.Vec{}, false
	}
	origin := ix.pos[k]
	want := geom.Unit(dir)
	best, bestDot := geom.Vec{}, math.Inf(-1)
	found := false
	for _, nk := range ix.topo[k] {
		np := ix.pos[nk]
		d := geom.Dot(geom.Unit(geom.Sub(np, origin)), want)
		if d > bestDot {
			best, bestDot, found = np, d, true
		}
	}
	return best, found
}
