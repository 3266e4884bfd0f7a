// Package scenes adapts the growth engines to core.Scene so the viewer can
// regrow and replay them. Each scene builds its soil once from a run
// configuration and redraws a palette-coded raster after every change.
package scenes

import (
	"context"
	"log/slog"
	"strconv"

	"rootweave/internal/config"
	"rootweave/internal/core"
	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/render"
	"rootweave/internal/soil"
)

func init() {
	core.Register(config.ModeSectional, func(kv map[string]string) core.Scene {
		return NewSectional(FromMap(config.ModeSectional, kv), nil)
	})
	core.Register(config.ModePhased, func(kv map[string]string) core.Scene {
		return NewPhased(FromMap(config.ModePhased, kv), nil)
	})
}

// FromMap builds a run configuration for a scene. Soil keys (w, h, d, pitch,
// jitter, lattice, ppu) shape the lattice; everything else goes to the growth
// section of mode. The anchor is placed one row below the top of the section
// for sectional scenes and at the surface centre for phased ones.
func FromMap(mode string, kv map[string]string) config.Config {
	cfg := config.Default()
	cfg.Mode = mode
	if mode == config.ModePhased {
		cfg.Soil.Lattice = config.LatticeVolume
		cfg.Soil.NX, cfg.Soil.NY, cfg.Soil.NZ = 16, 16, 14
		cfg.Output.PixelsPerUnit = 24
	} else {
		cfg.Soil.NX, cfg.Soil.NY = 40, 30
	}
	for key, v := range kv {
		switch key {
		case "w":
			setInt(v, &cfg.Soil.NX)
		case "h":
			setInt(v, &cfg.Soil.NY)
		case "d":
			setInt(v, &cfg.Soil.NZ)
		case "pitch":
			setFloat(v, &cfg.Soil.Pitch)
		case "jitter":
			setFloat(v, &cfg.Soil.Jitter)
		case "lattice":
			cfg.Soil.Lattice = v
		case "ppu":
			setInt(v, &cfg.Output.PixelsPerUnit)
		}
	}
	cfg.Overrides(kv)

	s := cfg.Soil
	cu := float64(s.NX-1) * s.Pitch / 2
	if mode == config.ModePhased {
		cfg.Anchors = []geom.Vec{{X: cu, Y: float64(s.NY-1) * s.Pitch / 2}}
	} else {
		cfg.Anchors = []geom.Vec{{X: cu, Y: float64(s.NY-2) * s.Pitch}}
	}
	return cfg
}

// base carries what both scenes share: soil, raster, status and the
// parameter plumbing used by the HUD.
type base struct {
	name     string
	cfg      config.Config
	logger   *slog.Logger
	ix       *soil.Index
	soilPts  []geom.Vec
	raster   *render.Raster
	status   growth.Status
	seed     int64
	showSoil bool
	controls []core.ParameterControl
}

func newBase(name string, cfg config.Config, logger *slog.Logger, view geom.Plane, controls []core.ParameterControl) base {
	b := base{name: name, cfg: cfg, logger: logger, showSoil: true, controls: controls}
	err := cfg.Validate()
	var ix *soil.Index
	if err == nil {
		ix, err = cfg.BuildIndex(context.Background(), logger)
	}
	if err != nil {
		b.status = growth.Describe(err)
		b.raster = render.NewRaster(view, geom.Bounds2{}, 1, 0)
		return b
	}
	b.ix = ix
	b.soilPts = ix.Points()
	b.raster = render.NewRaster(view, render.ViewBounds(view, b.soilPts), cfg.Output.PixelsPerUnit, cfg.Soil.Pitch)
	return b
}

// Name returns the scene identifier.
func (b *base) Name() string { return b.name }

// Size reports the raster dimensions. It does not change after construction.
func (b *base) Size() core.Size { return b.raster.Size() }

// Cells exposes the raster.
func (b *base) Cells() []uint8 { return b.raster.Grid.Cells() }

// Status is the outcome of the last regrow.
func (b *base) Status() growth.Status { return b.status }

// Config returns the run configuration currently in effect.
func (b *base) Config() config.Config { return b.cfg }

// ToggleSoil shows or hides the soil points.
func (b *base) ToggleSoil() { b.showSoil = !b.showSoil }

// ParameterControls lists the HUD-adjustable keys.
func (b *base) ParameterControls() []core.ParameterControl { return b.controls }

// apply pushes one clamped override into the growth section.
func (b *base) apply(key string, value float64, integer bool) bool {
	for _, c := range b.controls {
		if c.Key != key {
			continue
		}
		v := c.Clamp(value)
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if integer {
			s = strconv.Itoa(int(v))
		}
		b.cfg.Overrides(map[string]string{key: s})
		return true
	}
	return false
}

func (b *base) clear() {
	b.raster.Grid.Clear()
	if !b.showSoil {
		return
	}
	for _, p := range b.soilPts {
		b.raster.Point(p, render.CellSoil)
	}
}

func setInt(v string, dst *int) {
	if parsed, err := strconv.Atoi(v); err == nil {
		*dst = parsed
	}
}

func setFloat(v string, dst *float64) {
	if parsed, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = parsed
	}
}
