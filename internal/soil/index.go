// Package soil indexes the soil sample points that root networks grow
// through. An Index is built once per growth session and is read-only
// afterwards, so a single Index may be shared by concurrent growth runs.
package soil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/kdtree"

	"rootweave/internal/geom"
	"rootweave/pkg/core"
)

const (
	// boundaryTolerance is compared against squared plane-coordinate offsets.
	boundaryTolerance = 1e-2

	unitLenSampleRatio = 0.4
	unitLenSampleCap   = 100

	// buildChunk is the number of points hashed per worker task.
	buildChunk = 4096
)

// ErrEmptyIndex is returned by operations that need at least one point.
var ErrEmptyIndex = errors.New("soil: index is empty")

// Options tune Build.
type Options struct {
	// Seed drives the unit spacing sample.
	Seed int64
	// Workers bounds the goroutines used to hash input points. Zero uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Hit is a single nearest-neighbour result.
type Hit struct {
	Key  Key
	Pos  geom.Vec
	Dist float64
}

// Index is the spatial soil index.
type Index struct {
	plane   geom.Plane
	tree    *kdtree.Tree
	pos     map[Key]geom.Vec
	order   []Key
	bounds  geom.Bounds2
	unitLen float64
	topo    map[Key][]Key
}

// Build indexes points. Exact key collisions keep the first point seen.
func Build(ctx context.Context, plane geom.Plane, points []geom.Vec, opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	keys, err := hashPoints(ctx, points, opts.Workers)
	if err != nil {
		return nil, err
	}

	ix := &Index{plane: plane, pos: make(map[Key]geom.Vec, len(points))}
	for i, k := range keys {
		if _, ok := ix.pos[k]; ok {
			continue
		}
		ix.pos[k] = points[i]
		ix.order = append(ix.order, k)
	}
	slices.SortFunc(ix.order, Key.Compare)

	pts := make(kdtree.Points, len(ix.order))
	for i, k := range ix.order {
		p := ix.pos[k]
		pts[i] = kdtree.Point{p.X, p.Y, p.Z}
	}
	if len(pts) > 0 {
		ix.tree = kdtree.New(pts, false)
	}
	ix.BuildBound()
	ix.unitLen = ix.sampleUnitLen(core.NewRNG(opts.Seed))

	if len(ix.order) == 0 {
		logger.Warn("soil index built without points")
	} else {
		logger.Info("soil index built",
			"input", len(points), "unique", len(ix.order), "unitLen", ix.unitLen)
	}
	return ix, nil
}

func hashPoints(ctx context.Context, points []geom.Vec, workers int) ([]Key, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	keys := make([]Key, len(points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(points); start += buildChunk {
		start := start
		end := min(start+buildChunk, len(points))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				keys[i] = KeyOf(points[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

// BuildBound records the plane-coordinate extremes of every indexed point.
func (ix *Index) BuildBound() {
	b := geom.EmptyBounds2()
	for _, k := range ix.order {
		u, v := ix.plane.Project(ix.pos[k])
		b.Extend(u, v)
	}
	ix.bounds = b
}

func (ix *Index) sampleUnitLen(rng *core.RNG) float64 {
	n := len(ix.order)
	if n < 2 {
		return 0
	}
	m := min(int(unitLenSampleRatio*float64(n)), unitLenSampleCap)
	if m < 1 {
		m = 1
	}
	dists := make([]float64, 0, m)
	for _, i := range rng.Sample(n, m) {
		hits := ix.NearestHits(ix.pos[ix.order[i]], 2)
		if len(hits) < 2 {
			continue
		}
		dists = append(dists, hits[1].Dist)
	}
	if len(dists) == 0 {
		return 0
	}
	return floats.Sum(dists) / float64(len(dists))
}

// Plane returns the reference plane of the index.
func (ix *Index) Plane() geom.Plane { return ix.plane }

// Len reports the number of unique points.
func (ix *Index) Len() int { return len(ix.order) }

// UnitLen is the sampled average nearest-neighbour spacing.
func (ix *Index) UnitLen() float64 { return ix.unitLen }

// Bounds returns the plane-coordinate extent recorded by BuildBound.
func (ix *Index) Bounds() geom.Bounds2 { return ix.bounds }

// Keys returns every key in lexicographic order. The slice must not be modified.
func (ix *Index) Keys() []Key { return ix.order }

// Position returns the stored position for k.
func (ix *Index) Position(k Key) (geom.Vec, bool) {
	p, ok := ix.pos[k]
	return p, ok
}

// Contains reports whether k is indexed.
func (ix *Index) Contains(k Key) bool {
	_, ok := ix.pos[k]
	return ok
}

// Points returns every stored position in key order.
func (ix *Index) Points() []geom.Vec {
	out := make([]geom.Vec, len(ix.order))
	for i, k := range ix.order {
		out[i] = ix.pos[k]
	}
	return out
}

// NearestHits returns up to k points nearest to p ordered by distance, ties
// broken by key order.
func (ix *Index) NearestHits(p geom.Vec, k int) []Hit {
	n := len(ix.order)
	if n == 0 || k <= 0 {
		return nil
	}
	k = min(k, n)
	q := kdtree.Point{p.X, p.Y, p.Z}

	keep := kdtree.NewNKeeper(k)
	ix.tree.NearestSet(keep, q)
	radius := 0.0
	for _, c := range keep.Heap {
		if c.Comparable != nil && c.Dist > radius {
			radius = c.Dist
		}
	}

	// Collect everything at the k-th distance so equidistant candidates are
	// ordered by key rather than by tree layout.
	all := kdtree.NewDistKeeper(radius)
	ix.tree.NearestSet(all, q)
	hits := make([]Hit, 0, len(all.Heap))
	for _, c := range all.Heap {
		if c.Comparable == nil {
			continue
		}
		cp := c.Comparable.(kdtree.Point)
		pos := geom.Vec{X: cp[0], Y: cp[1], Z: cp[2]}
		hits = append(hits, Hit{Key: KeyOf(pos), Pos: pos, Dist: math.Sqrt(c.Dist)})
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Dist < b.Dist:
			return -1
		case a.Dist > b.Dist:
			return 1
		}
		return a.Key.Compare(b.Key)
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// NearestPoint returns the indexed point closest to p.
func (ix *Index) NearestPoint(p geom.Vec) (geom.Vec, bool) {
	hits := ix.NearestHits(p, 1)
	if len(hits) == 0 {
		return geom.Vec{}, false
	}
	return hits[0].Pos, true
}

// NearestPoints returns up to k indexed points closest to p.
func (ix *Index) NearestPoints(p geom.Vec, k int) []geom.Vec {
	hits := ix.NearestHits(p, k)
	if len(hits) == 0 {
		return nil
	}
	out := make([]geom.Vec, len(hits))
	for i, h := range hits {
		out[i] = h.Pos
	}
	return out
}

// NearestKey returns the key of the indexed point closest to p.
func (ix *Index) NearestKey(p geom.Vec) (Key, bool) {
	hits := ix.NearestHits(p, 1)
	if len(hits) == 0 {
		return Key{}, false
	}
	return hits[0].Key, true
}

// NearestKeys returns the keys of up to k indexed points closest to p.
func (ix *Index) NearestKeys(p geom.Vec, k int) []Key {
	hits := ix.NearestHits(p, k)
	if len(hits) == 0 {
		return nil
	}
	out := make([]Key, len(hits))
	for i, h := range hits {
		out[i] = h.Key
	}
	return out
}

// IsOnBoundary reports whether p projects onto one of the four extremal
// lines of the indexed domain.
func (ix *Index) IsOnBoundary(p geom.Vec) bool {
	if ix.bounds.Empty() {
		return false
	}
	u, v := ix.plane.Project(p)
	b := ix.bounds
	sq := func(x float64) float64 { return x * x }
	return sq(u-b.UMin) < boundaryTolerance ||
		sq(u-b.UMax) < boundaryTolerance ||
		sq(v-b.VMin) < boundaryTolerance ||
		sq(v-b.VMax) < boundaryTolerance
}

// InDomain reports whether p projects inside the recorded bounds.
func (ix *Index) InDomain(p geom.Vec) bool {
	u, v := ix.plane.Project(p)
	return ix.bounds.Inside(u, v, 1e-9)
}
