package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/soil"
)

// Growth modes.
const (
	ModeSectional = "sectional"
	ModePhased    = "phased"
)

// Soil lattice kinds.
const (
	LatticeSquare     = "square"
	LatticeTriangular = "triangular"
	LatticeVolume     = "volume"
	LatticeRows       = "rows"
)

// Config is a complete generation run.
type Config struct {
	Mode      string                 `yaml:"mode"`
	Soil      SoilConfig             `yaml:"soil"`
	Anchors   []geom.Vec             `yaml:"anchors"`
	Sectional growth.SectionalConfig `yaml:"sectional"`
	Phased    growth.PhasedConfig    `yaml:"phased"`
	Output    OutputConfig           `yaml:"output"`
}

// SoilConfig describes the synthetic point set the roots grow through.
type SoilConfig struct {
	Lattice string  `yaml:"lattice"`
	NX      int     `yaml:"nx"`
	NY      int     `yaml:"ny"`
	NZ      int     `yaml:"nz"`
	Pitch   float64 `yaml:"pitch"`
	// Jitter is the Perlin displacement amplitude, in pitches.
	Jitter     float64 `yaml:"jitter"`
	JitterFreq float64 `yaml:"jitter_freq"`
	Seed       int64   `yaml:"seed"`
	Topology   bool    `yaml:"topology"`
	// Polylines, when set, replace the lattice and are sampled every pitch.
	Polylines []geom.Polyline `yaml:"polylines,omitempty"`
}

// OutputConfig controls the raster written by rootgen.
type OutputConfig struct {
	Image string `yaml:"image"`
	// PixelsPerUnit maps soil units to image pixels.
	PixelsPerUnit int `yaml:"pixels_per_unit"`
	// Phase selects which phased roots are drawn; -1 draws all.
	Phase int `yaml:"phase"`
}

// Default returns a runnable sectional configuration on a 20x20 lattice.
func Default() Config {
	return Config{
		Mode: ModeSectional,
		Soil: SoilConfig{
			Lattice:    LatticeSquare,
			NX:         20,
			NY:         20,
			NZ:         12,
			Pitch:      1,
			JitterFreq: 0.35,
			Seed:       1,
		},
		Anchors:   []geom.Vec{{X: 9.5, Y: 9.5}},
		Sectional: growth.DefaultSectionalConfig(),
		Phased:    growth.DefaultPhasedConfig(),
		Output: OutputConfig{
			Image:         "roots.png",
			PixelsPerUnit: 16,
			Phase:         -1,
		},
	}
}

// Load reads a YAML run file on top of Default and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the run and the growth section its mode selects.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSectional, ModePhased:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeSectional, ModePhased, c.Mode)
	}
	if len(c.Anchors) == 0 {
		return fmt.Errorf("anchors cannot be empty")
	}
	if err := c.Soil.Validate(); err != nil {
		return err
	}
	if c.Output.PixelsPerUnit <= 0 {
		return fmt.Errorf("output.pixels_per_unit must be positive, got %d", c.Output.PixelsPerUnit)
	}
	if c.Mode == ModePhased {
		return c.Phased.Validate()
	}
	return c.Sectional.Validate()
}

// Validate checks the soil dimensions.
func (s SoilConfig) Validate() error {
	if s.Pitch <= 0 {
		return fmt.Errorf("soil.pitch must be positive")
	}
	if s.Jitter < 0 {
		return fmt.Errorf("soil.jitter cannot be negative")
	}
	if len(s.Polylines) > 0 {
		return nil
	}
	switch s.Lattice {
	case LatticeSquare, LatticeTriangular, LatticeRows:
		if s.NX <= 0 || s.NY <= 0 {
			return fmt.Errorf("soil.nx and soil.ny must be positive")
		}
	case LatticeVolume:
		if s.NX <= 0 || s.NY <= 0 || s.NZ <= 0 {
			return fmt.Errorf("soil.nx, soil.ny and soil.nz must be positive")
		}
	default:
		return fmt.Errorf("soil.lattice %q is not one of square, triangular, volume, rows", s.Lattice)
	}
	return nil
}

// Points generates the soil point set on pl.
func (s SoilConfig) Points(ctx context.Context, pl geom.Plane) ([]geom.Vec, error) {
	var pts []geom.Vec
	switch {
	case len(s.Polylines) > 0:
		return soil.FlattenPolylines(ctx, s.Polylines, s.Pitch)
	case s.Lattice == LatticeTriangular:
		pts = soil.TriangularLattice(pl, s.NX, s.NY, s.Pitch)
	case s.Lattice == LatticeVolume:
		pts = soil.VolumeLattice(pl, s.NX, s.NY, s.NZ, s.Pitch)
	case s.Lattice == LatticeRows:
		var err error
		pts, err = soil.FlattenPolylines(ctx, soil.Rows(pl, s.NX, s.NY, s.Pitch), s.Pitch)
		if err != nil {
			return nil, err
		}
	default:
		pts = soil.SquareLattice(pl, s.NX, s.NY, s.Pitch)
	}
	if s.Jitter > 0 {
		pts = soil.Jitter(pl, pts, s.Jitter*s.Pitch, s.JitterFreq, s.Seed)
	}
	return pts, nil
}

// BuildIndex generates the soil and indexes it on the world XY plane.
func (c *Config) BuildIndex(ctx context.Context, logger *slog.Logger) (*soil.Index, error) {
	pl := geom.WorldXY()
	pts, err := c.Soil.Points(ctx, pl)
	if err != nil {
		return nil, fmt.Errorf("generate soil: %w", err)
	}
	ix, err := soil.Build(ctx, pl, pts, soil.Options{Seed: c.Soil.Seed, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("index soil: %w", err)
	}
	if c.Soil.Topology || (c.Mode == ModeSectional && c.Sectional.Snap == growth.SnapTopology) {
		ix.BuildTopology()
	}
	return ix, nil
}

// Overrides applies flag-style key=value pairs to the growth section of the
// active mode.
func (c *Config) Overrides(kv map[string]string) {
	if len(kv) == 0 {
		return
	}
	if c.Mode == ModePhased {
		c.Phased.FromMap(kv)
		return
	}
	c.Sectional.FromMap(kv)
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	cfg := Default()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
