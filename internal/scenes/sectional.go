package scenes

import (
	"fmt"
	"log/slog"

	"rootweave/internal/config"
	"rootweave/internal/core"
	"rootweave/internal/geom"
	"rootweave/internal/growth"
	"rootweave/internal/render"
)

// Sectional grows a 2D root network and reveals it one step per frame.
type Sectional struct {
	base
	res      *growth.Result
	revealed int
}

var sectionalControls = []core.ParameterControl{
	{Key: "steps", Label: "Steps", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 200, HasMin: true, HasMax: true},
	{Key: "branches", Label: "Seeds", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 12, HasMin: true, HasMax: true},
	{Key: "branching_interval", Label: "Branch every", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 20, HasMin: true, HasMax: true},
	{Key: "max_branch_level", Label: "Max level", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 6, HasMin: true, HasMax: true},
	{Key: "branch_angle", Label: "Branch angle", Type: core.ParamTypeFloat, Step: 5, Min: 0, Max: 90, HasMin: true, HasMax: true},
	{Key: "perturbation", Label: "Wiggle", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	{Key: "density_weight", Label: "Avoidance", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
	{Key: "gravity_rate", Label: "Gravity rate", Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 10, HasMin: true, HasMax: true},
}

// NewSectional builds the soil for cfg and grows a first network with the
// configured seed, or zero when none is set.
func NewSectional(cfg config.Config, logger *slog.Logger) *Sectional {
	s := &Sectional{base: newBase(config.ModeSectional, cfg, logger, geom.WorldXY(), sectionalControls)}
	var seed int64
	if cfg.Sectional.Seed != nil {
		seed = *cfg.Sectional.Seed
	}
	s.Reset(seed)
	return s
}

// Reset regrows the network with seed and hides it again.
func (s *Sectional) Reset(seed int64) {
	s.seed = seed
	s.revealed = 0
	s.res = nil
	if s.ix == nil {
		s.draw()
		return
	}
	gc := s.cfg.Sectional
	gc.Seed = &seed
	gc.Logger = s.logger
	res, err := growth.Grow(s.ix, s.cfg.Anchors[0], gc)
	s.status = growth.Describe(err)
	s.res = res
	s.draw()
}

// Step reveals one more growth step. It is a no-op once the whole network
// is visible.
func (s *Sectional) Step() {
	if s.res == nil || s.Done() {
		return
	}
	s.revealed++
	s.draw()
}

// Done reports whether every step is visible.
func (s *Sectional) Done() bool {
	return s.res == nil || s.revealed >= s.res.Depth()
}

// Result is the last grown network, nil when growth failed.
func (s *Sectional) Result() *growth.Result { return s.res }

// Summary is a one-line description for the overlay.
func (s *Sectional) Summary() string {
	if s.res == nil {
		return s.status.Message
	}
	return fmt.Sprintf("seed %d  step %d/%d  nodes %d  extension %.1f",
		s.seed, s.revealed, s.res.Depth(), s.res.Graph.Len(), s.res.Extension())
}

// Parameters reports the current tunables.
func (s *Sectional) Parameters() core.ParameterSnapshot {
	p := s.cfg.Sectional.Params
	sc := s.cfg.Sectional.Scoring
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Growth",
			Params: []core.Parameter{
				core.Int64Param("seed", "Seed", s.seed),
				core.IntParam("steps", "Steps", p.TotalSteps),
				core.IntParam("branches", "Seeds", p.BranchCount),
				core.IntParam("branching_interval", "Branch every", p.BranchingInterval),
				core.IntParam("max_branch_level", "Max level", p.MaxBranchLevel),
				core.FloatParam("branch_angle", "Branch angle", p.BranchAngle),
				core.FloatParam("perturbation", "Wiggle", p.Perturbation),
			},
		},
		{
			Name: "Scoring",
			Params: []core.Parameter{
				core.FloatParam("density_weight", "Avoidance", sc.DensityWeight),
				core.FloatParam("gravity_rate", "Gravity rate", sc.GravityRate),
				core.BoolParam("env", "Regions", s.cfg.Sectional.Environment.Enabled),
			},
			Summary: string(s.cfg.Sectional.Snap),
		},
	}}
}

// SetIntParameter applies an integer control and regrows.
func (s *Sectional) SetIntParameter(key string, value int) bool {
	if !s.apply(key, float64(value), true) {
		return false
	}
	s.Reset(s.seed)
	return true
}

// SetFloatParameter applies a float control and regrows.
func (s *Sectional) SetFloatParameter(key string, value float64) bool {
	if !s.apply(key, value, false) {
		return false
	}
	s.Reset(s.seed)
	return true
}

// ToggleSoil shows or hides the soil points.
func (s *Sectional) ToggleSoil() {
	s.base.ToggleSoil()
	s.draw()
}

func (s *Sectional) draw() {
	s.clear()
	s.raster.Regions(s.cfg.Sectional.Environment)
	if s.res != nil {
		s.raster.Graph(s.res.Graph, s.revealed)
	}
	for _, a := range s.cfg.Anchors {
		s.raster.Point(a, render.CellAnchor)
	}
}
