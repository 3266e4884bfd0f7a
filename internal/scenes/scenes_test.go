package scenes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rootweave/internal/config"
	"rootweave/internal/core"
	"rootweave/internal/geom"
	"rootweave/internal/render"
)

func count(cells []uint8, class uint8) int {
	n := 0
	for _, c := range cells {
		if c == class {
			n++
		}
	}
	return n
}

func TestFromMapPlacesAnchor(t *testing.T) {
	cfg := FromMap(config.ModeSectional, nil)
	assert.Equal(t, []geom.Vec{{X: 19.5, Y: 28}}, cfg.Anchors)

	cfg = FromMap(config.ModeSectional, map[string]string{"w": "10", "h": "8", "steps": "7", "ppu": "4"})
	assert.Equal(t, []geom.Vec{{X: 4.5, Y: 6}}, cfg.Anchors)
	assert.Equal(t, 7, cfg.Sectional.Params.TotalSteps)
	assert.Equal(t, 4, cfg.Output.PixelsPerUnit)

	cfg = FromMap(config.ModePhased, map[string]string{"levels": "2"})
	assert.Equal(t, config.LatticeVolume, cfg.Soil.Lattice)
	assert.Equal(t, []geom.Vec{{X: 7.5, Y: 7.5}}, cfg.Anchors)
	assert.Equal(t, 2, cfg.Phased.Levels)
	assert.NoError(t, cfg.Validate())
}

func sectionalScene(t *testing.T, seed string) *Sectional {
	t.Helper()
	s := NewSectional(FromMap(config.ModeSectional, map[string]string{"w": "12", "h": "12", "seed": seed}), nil)
	require.True(t, s.Status().Success, s.Status().Message)
	return s
}

func TestSectionalRevealsStepByStep(t *testing.T) {
	s := sectionalScene(t, "4")
	size := s.Size()
	require.Len(t, s.Cells(), size.W*size.H)
	assert.Equal(t, config.ModeSectional, s.Name())
	assert.Equal(t, 0, count(s.Cells(), render.CellMain))
	assert.Equal(t, 1, count(s.Cells(), render.CellAnchor))
	assert.Greater(t, count(s.Cells(), render.CellSoil), 0)

	for i := 0; !s.Done(); i++ {
		require.Less(t, i, 1000)
		s.Step()
	}
	revealed := count(s.Cells(), render.CellMain)
	assert.Greater(t, revealed, 0)

	s.Step()
	assert.Equal(t, revealed, count(s.Cells(), render.CellMain))
	assert.Contains(t, s.Summary(), "seed 4")
	assert.Equal(t, size, s.Size())
}

func TestSectionalDeterministic(t *testing.T) {
	a := sectionalScene(t, "9")
	b := sectionalScene(t, "9")
	for !a.Done() {
		a.Step()
	}
	for !b.Done() {
		b.Step()
	}
	assert.Equal(t, a.Cells(), b.Cells())
	assert.Equal(t, a.Result().Extension(), b.Result().Extension())
}

func TestSectionalParameters(t *testing.T) {
	s := sectionalScene(t, "2")
	assert.True(t, s.SetIntParameter("steps", 1000))
	assert.Equal(t, 200, s.Config().Sectional.Params.TotalSteps)
	assert.True(t, s.SetFloatParameter("branch_angle", 45))
	assert.Equal(t, 45.0, s.Config().Sectional.Params.BranchAngle)
	assert.False(t, s.SetIntParameter("unknown", 1))

	p, ok := s.Parameters().Lookup("steps")
	require.True(t, ok)
	assert.Equal(t, "200", p.Value)
	p, ok = s.Parameters().Lookup("seed")
	require.True(t, ok)
	assert.Equal(t, "2", p.Value)
	assert.Len(t, s.ParameterControls(), len(sectionalControls))

	s.ToggleSoil()
	assert.Equal(t, 0, count(s.Cells(), render.CellSoil))
}

func TestPhasedReplaysPhases(t *testing.T) {
	p := NewPhased(FromMap(config.ModePhased, map[string]string{"w": "12", "h": "12", "d": "12", "seed": "3"}), nil)
	require.True(t, p.Status().Success, p.Status().Message)
	require.NotNil(t, p.Result())
	assert.Equal(t, 0, p.Phase())
	assert.Greater(t, count(p.Cells(), render.CellMaster)+count(p.Cells(), render.CellMain), 0)

	for i := 0; i < DefaultTicksPerPhase; i++ {
		p.Step()
	}
	assert.Equal(t, 1, p.Phase())
	assert.Contains(t, p.Summary(), "phase 1/10")

	_, ok := p.Parameters().Lookup("levels")
	assert.True(t, ok)
	assert.True(t, p.SetIntParameter("levels", 2))
	assert.Equal(t, 0, p.Phase())
	assert.Equal(t, 2, p.Config().Phased.Levels)
}

func TestPhasedReportsShallowSoil(t *testing.T) {
	p := NewPhased(FromMap(config.ModePhased, map[string]string{"w": "6", "h": "6", "d": "2", "seed": "1"}), nil)
	assert.False(t, p.Status().Success)
	assert.Contains(t, p.Summary(), "insufficient soil density")
	assert.Nil(t, p.Result())

	p.Step()
	assert.Equal(t, p.Size().W*p.Size().H, len(p.Cells()))
}

func TestSectionalReportsInvalidConfig(t *testing.T) {
	s := NewSectional(FromMap(config.ModeSectional, map[string]string{"w": "8", "h": "8", "ppu": "0"}), nil)
	assert.False(t, s.Status().Success)
	assert.Contains(t, s.Summary(), "pixels_per_unit")
	assert.Nil(t, s.Result())
	assert.True(t, s.Done())
}

func TestScenesRegister(t *testing.T) {
	for _, name := range []string{config.ModeSectional, config.ModePhased} {
		f, ok := core.Scenes()[name]
		require.True(t, ok, name)
		s := f(map[string]string{"w": "12", "h": "12", "d": "12", "seed": "3"})
		assert.Equal(t, name, s.Name())
	}
}
