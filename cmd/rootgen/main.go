// Command rootgen grows a root network from a YAML run file and writes it as
// a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"rootweave/internal/app"
	"rootweave/internal/config"
	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/render"
	"rootweave/internal/soil"
)

func main() {
	path := flag.String("config", "", "YAML run file; defaults are used when empty")
	writeDefault := flag.String("write-default", "", "write the default run file to this path and exit")
	out := flag.String("out", "", "image path, overriding output.image")
	verbose := flag.Bool("v", false, "log growth progress")
	overrides := app.Pairs{}
	flag.Var(overrides, "set", "growth override in key=value form (repeatable)")
	flag.Parse()

	if *writeDefault != "" {
		if err := config.WriteDefault(*writeDefault); err != nil {
			log.Fatalf("rootgen: %v", err)
		}
		fmt.Printf("Wrote %s\n", *writeDefault)
		return
	}

	cfg := config.Default()
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			log.Fatalf("rootgen: %v", err)
		}
		cfg = *loaded
	}
	cfg.Overrides(overrides)
	if *out != "" {
		cfg.Output.Image = *out
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("rootgen: %v", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	ix, err := cfg.BuildIndex(ctx, logger)
	if err != nil {
		log.Fatalf("rootgen: %v", err)
	}
	fmt.Printf("Soil: %d points, unit length %.3f\n", ix.Len(), ix.UnitLen())

	var raster *render.Raster
	if cfg.Mode == config.ModePhased {
		raster, err = growPhased(ctx, ix, cfg, logger)
	} else {
		raster, err = growSectional(ix, cfg, logger)
	}
	if err != nil {
		log.Fatalf("rootgen: %v", err)
	}
	if err := render.WritePNG(cfg.Output.Image, raster.Image(render.DefaultPalette)); err != nil {
		log.Fatalf("rootgen: %v", err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", cfg.Output.Image, raster.Grid.W, raster.Grid.H)
}

func newRaster(view geom.Plane, ix *soil.Index, cfg config.Config) *render.Raster {
	pts := ix.Points()
	r := render.NewRaster(view, render.ViewBounds(view, pts), cfg.Output.PixelsPerUnit, cfg.Soil.Pitch)
	for _, p := range pts {
		r.Point(p, render.CellSoil)
	}
	return r
}

// growSectional grows one network per anchor, seeding anchor i with seed+i.
func growSectional(ix *soil.Index, cfg config.Config, logger *slog.Logger) (*render.Raster, error) {
	r := newRaster(geom.WorldXY(), ix, cfg)
	r.Regions(cfg.Sectional.Environment)
	for i, a := range cfg.Anchors {
		gc := cfg.Sectional
		gc.Logger = logger
		if gc.Seed != nil {
			s := *gc.Seed + int64(i)
			gc.Seed = &s
		}
		res, err := growth.Grow(ix, a, gc)
		if err != nil {
			return nil, fmt.Errorf("anchor %d: %w", i, err)
		}
		st := res.Stats
		fmt.Printf("Anchor %d (%.2f, %.2f): nodes=%d depth=%d extension=%.2f main=%d secondary=%d rejected=%d bounced=%d\n",
			i, a.X, a.Y, res.Graph.Len(), res.Depth(), res.Extension(), len(res.Main), len(res.Secondary), st.Rejected, st.Bounced)
		r.Graph(res.Graph, -1)
		r.Point(res.Anchor, render.CellAnchor)
	}
	return r, nil
}

// growPhased grows the whole stand and draws it from the side.
func growPhased(ctx context.Context, ix *soil.Index, cfg config.Config, logger *slog.Logger) (*render.Raster, error) {
	view := geom.NewPlane(geom.Vec{}, geom.Vec{X: 1}, geom.Vec{Z: 1})
	r := newRaster(view, ix, cfg)
	r.Regions(cfg.Phased.Environment)

	gc := cfg.Phased
	gc.Logger = logger
	members, err := growth.GrowStand(ctx, ix, cfg.Anchors, gc)
	if err != nil {
		return nil, err
	}
	grown := 0
	for i, m := range members {
		if m.Result == nil {
			fmt.Printf("Anchor %d (%.2f, %.2f): %s\n", i, m.Anchor.X, m.Anchor.Y, m.Status.Message)
			continue
		}
		grown++
		roots := m.Result.Roots
		fmt.Printf("Anchor %d (%.2f, %.2f): masters=%d taps=%d explorers=%d tap root=%.2f scale=%.3f\n",
			i, m.Anchor.X, m.Anchor.Y, len(roots.Master), len(roots.Tap), len(roots.Explorer), m.Result.TapRoot.Len(), m.Result.Scale)
		if cfg.Output.Phase > roots.MaxPhase {
			return nil, fmt.Errorf("output.phase %d is past maxPhase %d", cfg.Output.Phase, roots.MaxPhase)
		}
		r.Roots(m.Result, cfg.Output.Phase)
	}
	if grown == 0 {
		return nil, fmt.Errorf("none of %d anchors grew a root system", len(members))
	}
	return r, nil
}
