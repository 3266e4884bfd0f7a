package core

// PhaseClock turns frame ticks into growth phases: every TicksPerPhase calls
// to Tick advance the phase by one until Max, after which it either holds or
// wraps to zero.
type PhaseClock struct {
	max         int
	perPhase    int
	accumulator int
	phase       int
	loop        bool
}

// NewPhaseClock constructs a clock over [0, max].
func NewPhaseClock(max, ticksPerPhase int, loop bool) *PhaseClock {
	c := &PhaseClock{max: max, loop: loop}
	c.SetTicksPerPhase(ticksPerPhase)
	return c
}

// SetTicksPerPhase changes the pace. It is safe to call from the main loop.
func (c *PhaseClock) SetTicksPerPhase(n int) {
	if n <= 0 {
		n = 1
	}
	c.perPhase = n
}

// TicksPerPhase reports the current pace.
func (c *PhaseClock) TicksPerPhase() int { return c.perPhase }

// Tick advances the clock by one frame and reports whether the phase changed.
func (c *PhaseClock) Tick() bool {
	c.accumulator++
	if c.accumulator < c.perPhase {
		return false
	}
	c.accumulator = 0
	switch {
	case c.phase < c.max:
		c.phase++
	case c.loop:
		c.phase = 0
	default:
		return false
	}
	return true
}

// Phase is the current phase.
func (c *PhaseClock) Phase() int { return c.phase }

// Max is the last phase.
func (c *PhaseClock) Max() int { return c.max }

// Reset rewinds to phase zero.
func (c *PhaseClock) Reset() {
	c.phase = 0
	c.accumulator = 0
}
