package scenes

import (
	"fmt"
	"log/slog"

	"rootweave/internal/config"
	"rootweave/internal/core"
	"rootweave/internal/geom"
	"rootweave/internal/growth"
)

// DefaultTicksPerPhase paces the phase clock at the viewer's default TPS.
const DefaultTicksPerPhase = 20

// Phased grows a 3D root system and replays its phases in a side view,
// looking along +Y with depth running down the image.
type Phased struct {
	base
	res   *growth.PhasedResult
	clock *core.PhaseClock
}

var phasedControls = []core.ParameterControl{
	{Key: "steps", Label: "Steps", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 60, HasMin: true, HasMax: true},
	{Key: "branches", Label: "Masters", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 12, HasMin: true, HasMax: true},
	{Key: "levels", Label: "Levels", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 8, HasMin: true, HasMax: true},
	{Key: "rounds", Label: "Rounds", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 6, HasMin: true, HasMax: true},
	{Key: "tap_steps", Label: "Tap steps", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 10, HasMin: true, HasMax: true},
	{Key: "height", Label: "Height", Type: core.ParamTypeFloat, Step: 0.5, Min: 1, Max: 12, HasMin: true, HasMax: true},
	{Key: "master_tilt", Label: "Tilt", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
}

// NewPhased builds the soil volume for cfg and grows a first system.
func NewPhased(cfg config.Config, logger *slog.Logger) *Phased {
	view := geom.NewPlane(geom.Vec{}, geom.Vec{X: 1}, geom.Vec{Z: 1})
	p := &Phased{
		base:  newBase(config.ModePhased, cfg, logger, view, phasedControls),
		clock: core.NewPhaseClock(cfg.Phased.MaxPhase, DefaultTicksPerPhase, true),
	}
	var seed int64
	if cfg.Phased.Seed != nil {
		seed = *cfg.Phased.Seed
	}
	p.Reset(seed)
	return p
}

// Reset regrows the system with seed and rewinds the phase clock.
func (p *Phased) Reset(seed int64) {
	p.seed = seed
	p.res = nil
	p.clock = core.NewPhaseClock(p.cfg.Phased.MaxPhase, p.clock.TicksPerPhase(), true)
	if p.ix == nil {
		p.draw()
		return
	}
	gc := p.cfg.Phased
	gc.Seed = &seed
	gc.Logger = p.logger
	res, err := growth.GrowPhased(p.ix, p.cfg.Anchors[0], gc)
	p.status = growth.Describe(err)
	p.res = res
	p.draw()
}

// Step advances the phase clock and redraws on a phase change.
func (p *Phased) Step() {
	if p.clock.Tick() {
		p.draw()
	}
}

// Phase is the phase currently shown.
func (p *Phased) Phase() int { return p.clock.Phase() }

// Clock exposes the pacing so the viewer can speed it up.
func (p *Phased) Clock() *core.PhaseClock { return p.clock }

// Result is the last grown system, nil when growth failed.
func (p *Phased) Result() *growth.PhasedResult { return p.res }

// Summary is a one-line description for the overlay.
func (p *Phased) Summary() string {
	if p.res == nil {
		return p.status.Message
	}
	roots := p.res.Roots
	return fmt.Sprintf("seed %d  phase %d/%d  masters %d  taps %d  explorers %d",
		p.seed, p.clock.Phase(), p.clock.Max(), len(roots.Master), len(roots.Tap), len(roots.Explorer))
}

// Parameters reports the current tunables.
func (p *Phased) Parameters() core.ParameterSnapshot {
	c := p.cfg.Phased
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Growth",
			Params: []core.Parameter{
				core.Int64Param("seed", "Seed", p.seed),
				core.IntParam("steps", "Steps", c.Params.TotalSteps),
				core.IntParam("branches", "Masters", c.Params.BranchCount),
				core.FloatParam("height", "Height", c.Height),
				core.FloatParam("master_tilt", "Tilt", c.MasterTilt),
			},
		},
		{
			Name: "Phases",
			Params: []core.Parameter{
				core.IntParam("levels", "Levels", c.Levels),
				core.IntParam("rounds", "Rounds", c.RoundsPerLevel),
				core.IntParam("tap_steps", "Tap steps", c.TapSteps),
				core.IntParam("max_phase", "Max phase", c.MaxPhase),
			},
			Summary: fmt.Sprintf("phase %d", p.clock.Phase()),
		},
	}}
}

// SetIntParameter applies an integer control and regrows.
func (p *Phased) SetIntParameter(key string, value int) bool {
	if !p.apply(key, float64(value), true) {
		return false
	}
	p.Reset(p.seed)
	return true
}

// SetFloatParameter applies a float control and regrows.
func (p *Phased) SetFloatParameter(key string, value float64) bool {
	if !p.apply(key, value, false) {
		return false
	}
	p.Reset(p.seed)
	return true
}

// ToggleSoil shows or hides the soil points.
func (p *Phased) ToggleSoil() {
	p.base.ToggleSoil()
	p.draw()
}

func (p *Phased) draw() {
	p.clear()
	p.raster.Regions(p.cfg.Phased.Environment)
	if p.res != nil {
		p.raster.Roots(p.res, p.clock.Phase())
	}
}
