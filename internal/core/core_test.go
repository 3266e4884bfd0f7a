package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseClockHoldsAtMax(t *testing.T) {
	c := NewPhaseClock(2, 3, false)
	var changes []int
	for i := 0; i < 12; i++ {
		if c.Tick() {
			changes = append(changes, c.Phase())
		}
	}
	assert.Equal(t, []int{1, 2}, changes)
	assert.Equal(t, 2, c.Phase())

	c.Reset()
	assert.Equal(t, 0, c.Phase())
}

func TestPhaseClockLoops(t *testing.T) {
	c := NewPhaseClock(1, 0, true)
	require.Equal(t, 1, c.TicksPerPhase())
	seen := []int{}
	for i := 0; i < 4; i++ {
		c.Tick()
		seen = append(seen, c.Phase())
	}
	assert.Equal(t, []int{1, 0, 1, 0}, seen)
}

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Set(-1, 0, 9)
	g.Set(4, 0, 9)
	g.Set(1, 2, 5)
	g.Raise(1, 2, 3)
	g.Raise(0, 0, 2)
	assert.Equal(t, uint8(5), g.At(1, 2))
	assert.Equal(t, uint8(2), g.At(0, 0))
	assert.Equal(t, uint8(0), g.At(7, 7))
	assert.Equal(t, 10, g.Count(0))

	g.Clear()
	assert.Equal(t, 12, g.Count(0))
	assert.Equal(t, 1, NewByteGrid(0, -3).W)
}

func TestSnapshotLookup(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "A", Params: []Parameter{IntParam("steps", "Steps", 10)}},
		{Name: "B", Params: []Parameter{FloatParam("angle", "Angle", 35.5), BoolParam("env", "Env", true)}},
	}}
	p, ok := s.Lookup("angle")
	require.True(t, ok)
	assert.Equal(t, "35.5", p.Value)
	assert.Equal(t, ParamTypeFloat, p.Type)

	p, ok = s.Lookup("env")
	require.True(t, ok)
	assert.Equal(t, "true", p.Value)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "-4", Int64Param("seed", "Seed", -4).Value)
}

func TestControlClamp(t *testing.T) {
	c := ParameterControl{Min: 1, Max: 5, HasMin: true, HasMax: true}
	assert.Equal(t, 1.0, c.Clamp(-2))
	assert.Equal(t, 5.0, c.Clamp(9))
	assert.Equal(t, 3.0, c.Clamp(3))
	assert.Equal(t, 9.0, ParameterControl{}.Clamp(9))
}

func TestRegistry(t *testing.T) {
	Register("", func(map[string]string) Scene { return nil })
	Register("nil-factory", nil)
	Register("zz-test", func(map[string]string) Scene { return nil })
	_, ok := Scenes()["zz-test"]
	assert.True(t, ok)
	_, ok = Scenes()["nil-factory"]
	assert.False(t, ok)
	names := SceneNames()
	assert.Equal(t, "zz-test", names[len(names)-1])
}
