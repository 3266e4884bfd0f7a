package growth

import (
	"fmt"
	"log/slog"
	"strconv"

	"rootweave/internal/geom"
)

// SnapMode selects how a steered endpoint is put back onto the soil index.
type SnapMode string

const (
	// SnapNearest moves the endpoint to the closest indexed point.
	SnapNearest SnapMode = "nearest"
	// SnapTopology takes one hop along the six-sector adjacency. The index
	// must have its topology built.
	SnapTopology SnapMode = "topology"
)

// Params are the step and branching rules shared by both growth variants.
type Params struct {
	TotalSteps  int `yaml:"totalSteps"`
	BranchCount int `yaml:"branchCount"`
	// Lifespan of the primary lineage, Unlimited (-1) for none.
	Lifespan          int     `yaml:"lifespan"`
	BranchingInterval int     `yaml:"branchingInterval"`
	MaxBranchLevel    int     `yaml:"maxBranchLevel"`
	BranchAngle       float64 `yaml:"branchAngle"` // degrees
	SideLifespan      int     `yaml:"sideLifespan"`

	// Step length is drawn from [MinStepFactor, MaxStepFactor) times unitLen.
	MinStepFactor float64 `yaml:"minStepFactor"`
	MaxStepFactor float64 `yaml:"maxStepFactor"`
	DownBiasEarly float64 `yaml:"downBiasEarly"`
	DownBiasLate  float64 `yaml:"downBiasLate"`
	Perturbation  float64 `yaml:"perturbation"`

	// MinStepSq is the squared accepted step as a fraction of unitLen².
	MinStepSq float64 `yaml:"minStepSq"`
	// MaxUses caps how many nodes may land on one soil point.
	MaxUses int `yaml:"maxUses"`
}

// DefaultParams returns the documented growth constants.
func DefaultParams() Params {
	return Params{
		TotalSteps:        40,
		BranchCount:       2,
		Lifespan:          Unlimited,
		BranchingInterval: 3,
		MaxBranchLevel:    2,
		BranchAngle:       35,
		SideLifespan:      6,
		MinStepFactor:     0.8,
		MaxStepFactor:     1.5,
		DownBiasEarly:     0.6,
		DownBiasLate:      0.15,
		Perturbation:      0.25,
		MinStepSq:         0.25,
		MaxUses:           20,
	}
}

// Validate rejects parameter sets that could not terminate or grow.
func (p Params) Validate() error {
	switch {
	case p.TotalSteps <= 0:
		return fmt.Errorf("%w: totalSteps must be positive, got %d", ErrInvalidConfig, p.TotalSteps)
	case p.BranchCount < 1:
		return fmt.Errorf("%w: branchCount must be at least 1, got %d", ErrInvalidConfig, p.BranchCount)
	case p.Lifespan < Unlimited:
		return fmt.Errorf("%w: lifespan must be -1 or non-negative, got %d", ErrInvalidConfig, p.Lifespan)
	case p.BranchingInterval <= 0:
		return fmt.Errorf("%w: branchingInterval must be positive, got %d", ErrInvalidConfig, p.BranchingInterval)
	case p.MaxBranchLevel < 0:
		return fmt.Errorf("%w: maxBranchLevel cannot be negative", ErrInvalidConfig)
	case p.SideLifespan <= 0:
		return fmt.Errorf("%w: sideLifespan must be positive, got %d", ErrInvalidConfig, p.SideLifespan)
	case p.MinStepFactor <= 0 || p.MaxStepFactor < p.MinStepFactor:
		return fmt.Errorf("%w: step factors must satisfy 0 < min <= max, got [%g, %g]",
			ErrInvalidConfig, p.MinStepFactor, p.MaxStepFactor)
	case p.MinStepSq < 0:
		return fmt.Errorf("%w: minStepSq cannot be negative", ErrInvalidConfig)
	case p.MaxUses < 1:
		return fmt.Errorf("%w: maxUses must be at least 1, got %d", ErrInvalidConfig, p.MaxUses)
	}
	return nil
}

// Environment configures attractor and repeller steering.
type Environment struct {
	Enabled      bool            `yaml:"enabled"`
	DetectRadius float64         `yaml:"detectRadius"`
	Attractors   []geom.Polyline `yaml:"attractors,omitempty"`
	Repellers    []geom.Polyline `yaml:"repellers,omitempty"`
}

// Validate checks the detection radius.
func (e Environment) Validate() error {
	if e.Enabled && e.DetectRadius < 0 {
		return fmt.Errorf("%w: environment.detectRadius cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Scoring tunes the density-avoidance post-processing of the sectional variant.
type Scoring struct {
	// Nodes beyond this step count add to the score map.
	Warmup int `yaml:"warmup"`
	// Neighbours touched by each score update and read by avoidance.
	Neighbors     int     `yaml:"neighbors"`
	DensityWeight float64 `yaml:"densityWeight"`
	GravityBase   float64 `yaml:"gravityBase"`
	GravityRate   float64 `yaml:"gravityRate"`
	LateralScale  float64 `yaml:"lateralScale"`
}

// SectionalConfig drives Grow, the 2D scored variant.
type SectionalConfig struct {
	Params      Params      `yaml:"params"`
	Scoring     Scoring     `yaml:"scoring"`
	Snap        SnapMode    `yaml:"snap"`
	Environment Environment `yaml:"environment"`
	// Seed makes a run reproducible. Nil draws from the process RNG.
	Seed   *int64       `yaml:"seed,omitempty"`
	Logger *slog.Logger `yaml:"-"`
}

// DefaultSectionalConfig returns the standard 2D configuration.
func DefaultSectionalConfig() SectionalConfig {
	return SectionalConfig{
		Params: DefaultParams(),
		Scoring: Scoring{
			Warmup:        2,
			Neighbors:     25,
			DensityWeight: 0.35,
			GravityBase:   0.05,
			GravityRate:   2.5,
			LateralScale:  0.1,
		},
		Snap:        SnapNearest,
		Environment: Environment{DetectRadius: 5},
	}
}

// Validate checks every section.
func (c SectionalConfig) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Scoring.Neighbors < 1 {
		return fmt.Errorf("%w: scoring.neighbors must be at least 1", ErrInvalidConfig)
	}
	if c.Scoring.Warmup < 0 {
		return fmt.Errorf("%w: scoring.warmup cannot be negative", ErrInvalidConfig)
	}
	switch c.Snap {
	case SnapNearest, SnapTopology:
	default:
		return fmt.Errorf("%w: unknown snap mode %q", ErrInvalidConfig, c.Snap)
	}
	return c.Environment.Validate()
}

// PhasedConfig drives GrowPhased, the 3D phase-lifetime variant.
type PhasedConfig struct {
	Params Params `yaml:"params"`
	// Height is the target depth of the main tap root.
	Height         float64 `yaml:"height"`
	Levels         int     `yaml:"levels"`
	RoundsPerLevel int     `yaml:"roundsPerLevel"`
	MaxPhase       int     `yaml:"maxPhase"`
	TapSteps       int     `yaml:"tapSteps"`
	// Downward tilt added to master roots leaving the tap root.
	MasterTilt float64 `yaml:"masterTilt"`
	// MinBranchNodes turns off lineages with fewer nodes.
	MinBranchNodes int `yaml:"minBranchNodes"`
	// TargetRadius rescales the finished system when positive.
	TargetRadius  float64      `yaml:"targetRadius"`
	SampleDensity float64      `yaml:"sampleDensity"`
	Environment   Environment  `yaml:"environment"`
	Seed          *int64       `yaml:"seed,omitempty"`
	Logger        *slog.Logger `yaml:"-"`
}

// DefaultPhasedConfig returns the standard 3D configuration.
func DefaultPhasedConfig() PhasedConfig {
	p := DefaultParams()
	p.TotalSteps = 12
	p.BranchCount = 4
	p.MaxBranchLevel = 1
	p.SideLifespan = 3
	p.DownBiasEarly = 0.1
	p.DownBiasLate = 0.3
	return PhasedConfig{
		Params:         p,
		Height:         8,
		Levels:         3,
		RoundsPerLevel: 2,
		MaxPhase:       10,
		TapSteps:       3,
		MasterTilt:     0.25,
		MinBranchNodes: 2,
		SampleDensity:  4,
		Environment:    Environment{DetectRadius: 3},
	}
}

// Validate checks every section.
func (c PhasedConfig) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	switch {
	case c.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %g", ErrInvalidConfig, c.Height)
	case c.Levels < 1:
		return fmt.Errorf("%w: levels must be at least 1", ErrInvalidConfig)
	case c.RoundsPerLevel < 1:
		return fmt.Errorf("%w: roundsPerLevel must be at least 1", ErrInvalidConfig)
	case c.MaxPhase < 1:
		return fmt.Errorf("%w: maxPhase must be at least 1", ErrInvalidConfig)
	case c.TapSteps < 0:
		return fmt.Errorf("%w: tapSteps cannot be negative", ErrInvalidConfig)
	case c.TargetRadius < 0:
		return fmt.Errorf("%w: targetRadius cannot be negative", ErrInvalidConfig)
	case c.TargetRadius > 0 && c.SampleDensity <= 0:
		return fmt.Errorf("%w: sampleDensity must be positive when rescaling", ErrInvalidConfig)
	}
	return c.Environment.Validate()
}

// FromMap applies flag-style key/value overrides to p. Unknown keys and
// unparsable values are ignored, matching how the command line tools treat
// -set pairs.
func (p *Params) FromMap(cfg map[string]string) {
	for key, v := range cfg {
		switch key {
		case "steps":
			setInt(v, &p.TotalSteps)
		case "branches":
			setInt(v, &p.BranchCount)
		case "lifespan":
			setInt(v, &p.Lifespan)
		case "branching_interval":
			setInt(v, &p.BranchingInterval)
		case "max_branch_level":
			setInt(v, &p.MaxBranchLevel)
		case "branch_angle":
			setFloat(v, &p.BranchAngle)
		case "side_lifespan":
			setInt(v, &p.SideLifespan)
		case "min_step":
			setFloat(v, &p.MinStepFactor)
		case "max_step":
			setFloat(v, &p.MaxStepFactor)
		case "down_bias_early":
			setFloat(v, &p.DownBiasEarly)
		case "down_bias_late":
			setFloat(v, &p.DownBiasLate)
		case "perturbation":
			setFloat(v, &p.Perturbation)
		case "min_step_sq":
			setFloat(v, &p.MinStepSq)
		case "max_uses":
			setInt(v, &p.MaxUses)
		}
	}
}

// FromMap applies overrides to the sectional configuration.
func (c *SectionalConfig) FromMap(cfg map[string]string) {
	c.Params.FromMap(cfg)
	for key, v := range cfg {
		switch key {
		case "seed":
			setSeed(v, &c.Seed)
		case "snap":
			c.Snap = SnapMode(v)
		case "env":
			setBool(v, &c.Environment.Enabled)
		case "env_range":
			setFloat(v, &c.Environment.DetectRadius)
		case "score_warmup":
			setInt(v, &c.Scoring.Warmup)
		case "score_neighbors":
			setInt(v, &c.Scoring.Neighbors)
		case "density_weight":
			setFloat(v, &c.Scoring.DensityWeight)
		case "gravity_base":
			setFloat(v, &c.Scoring.GravityBase)
		case "gravity_rate":
			setFloat(v, &c.Scoring.GravityRate)
		case "lateral_scale":
			setFloat(v, &c.Scoring.LateralScale)
		}
	}
}

// FromMap applies overrides to the phased configuration.
func (c *PhasedConfig) FromMap(cfg map[string]string) {
	c.Params.FromMap(cfg)
	for key, v := range cfg {
		switch key {
		case "seed":
			setSeed(v, &c.Seed)
		case "height":
			setFloat(v, &c.Height)
		case "levels":
			setInt(v, &c.Levels)
		case "rounds":
			setInt(v, &c.RoundsPerLevel)
		case "max_phase":
			setInt(v, &c.MaxPhase)
		case "tap_steps":
			setInt(v, &c.TapSteps)
		case "master_tilt":
			setFloat(v, &c.MasterTilt)
		case "min_branch_nodes":
			setInt(v, &c.MinBranchNodes)
		case "radius":
			setFloat(v, &c.TargetRadius)
		case "sample_density":
			setFloat(v, &c.SampleDensity)
		case "env":
			setBool(v, &c.Environment.Enabled)
		case "env_range":
			setFloat(v, &c.Environment.DetectRadius)
		}
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

func setBool(v string, dst *bool) {
	if parsed, err := strconv.ParseBool(v); err == nil {
		*dst = parsed
	}
}

func setSeed(v string, dst **int64) {
	if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
		*dst = &parsed
	}
}
