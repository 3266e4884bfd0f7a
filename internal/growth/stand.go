package growth

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rootweave/internal/geom"
	"rootweave/internal/phase"
	"rootweave/internal/soil"
)

// Member is one tree of a stand. Result is nil when Status reports a failure.
type Member struct {
	Anchor geom.Vec
	Result *PhasedResult
	Status Status
}

// GrowStand grows one phased root system per anchor concurrently over a shared
// index, then shrinks overlapping systems with phase.FitStand. Instance i is
// seeded with cfg.Seed+i. A failing instance is reported in its Status and
// does not stop the others; only an invalid config or a cancelled ctx fail the
// whole call.
func GrowStand(ctx context.Context, ix *soil.Index, anchors []geom.Vec, cfg PhasedConfig) ([]Member, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	members := make([]Member, len(anchors))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range anchors {
		i, a := i, a
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := cfg
			if cfg.Seed != nil {
				s := *cfg.Seed + int64(i)
				c.Seed = &s
			}
			res, err := GrowPhased(ix, a, c)
			members[i] = Member{Anchor: a, Result: res, Status: Describe(err)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var trees []phase.Tree
	var grown []*PhasedResult
	for _, m := range members {
		if m.Result == nil {
			continue
		}
		trees = append(trees, phase.Tree{Anchor: m.Result.Anchor, Roots: m.Result.Roots})
		grown = append(grown, m.Result)
	}
	density := cfg.SampleDensity
	if density <= 0 {
		density = 1
	}
	if len(trees) > 0 {
		for i, f := range phase.FitStand(trees, ix.Plane(), density) {
			grown[i].Scale *= f
			grown[i].TapRoot = grown[i].Roots.Master[0].Curve
		}
	}
	return members, nil
}
