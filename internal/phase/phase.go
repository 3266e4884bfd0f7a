// Package phase tracks when each root of a phased system is alive. Every
// branch carries a half-open phase interval [Start, End) decided by its role
// at creation; queries filter the three role collections by phase.
package phase

import (
	"errors"
	"fmt"

	"rootweave/internal/geom"
)

// ErrPhaseOutOfRange is returned by queries outside [0, MaxPhase].
var ErrPhaseOutOfRange = errors.New("phase out of range")

// Role separates the three independently tracked root collections.
type Role uint8

const (
	// Master roots are the long-lived primary lineages.
	Master Role = iota
	// Tap roots anchor downward for a few phases.
	Tap
	// Explorer roots live for a fixed short span.
	Explorer
)

// Lifetimes in phases, before clamping to the ceiling.
const (
	TapLife      = 4
	ExplorerLife = 2
)

func (r Role) String() string {
	switch r {
	case Master:
		return "master"
	case Tap:
		return "tap"
	case Explorer:
		return "explorer"
	}
	return fmt.Sprintf("role(%d)", r)
}

// Branch is one generated root curve and its lifetime.
type Branch struct {
	Role  Role
	Curve geom.Polyline
	Start int
	End   int
}

// NewBranch assigns the role's interval to a curve spawned at start. Masters
// live until maxPhase; every end is clamped to maxPhase.
func NewBranch(role Role, curve geom.Polyline, start, maxPhase int) Branch {
	end := maxPhase
	switch role {
	case Tap:
		end = start + TapLife
	case Explorer:
		end = start + ExplorerLife
	}
	return Branch{Role: role, Curve: curve, Start: start, End: min(end, maxPhase)}
}

// ActiveAt reports start <= p < end.
func (b Branch) ActiveAt(p int) bool { return b.Start <= p && p < b.End }

// DeadAt reports p >= end.
func (b Branch) DeadAt(p int) bool { return p >= b.End }

// VisibleAt is the inclusive variant of ActiveAt used when drawing the last
// frame of a branch.
func (b Branch) VisibleAt(p int) bool { return b.Start <= p && p <= b.End }

// Collections holds the branches of one root system by role.
type Collections struct {
	MaxPhase int
	Master   []Branch
	Tap      []Branch
	Explorer []Branch
}

// NewCollections returns empty collections with the given phase ceiling.
func NewCollections(maxPhase int) *Collections {
	return &Collections{MaxPhase: maxPhase}
}

// Add files b under its role.
func (c *Collections) Add(b Branch) {
	switch b.Role {
	case Master:
		c.Master = append(c.Master, b)
	case Tap:
		c.Tap = append(c.Tap, b)
	default:
		c.Explorer = append(c.Explorer, b)
	}
}

// Role returns the branches of one role.
func (c *Collections) Role(r Role) []Branch {
	switch r {
	case Master:
		return c.Master
	case Tap:
		return c.Tap
	default:
		return c.Explorer
	}
}

// All returns masters, taps and explorers in that order.
func (c *Collections) All() []Branch {
	out := make([]Branch, 0, c.Len())
	out = append(out, c.Master...)
	out = append(out, c.Tap...)
	return append(out, c.Explorer...)
}

// Len counts every branch.
func (c *Collections) Len() int { return len(c.Master) + len(c.Tap) + len(c.Explorer) }

// ActiveAt returns the branches of role alive at p.
func (c *Collections) ActiveAt(role Role, p int) ([]Branch, error) {
	return c.filter(role, p, Branch.ActiveAt)
}

// DeadAt returns the branches of role that have ended by p.
func (c *Collections) DeadAt(role Role, p int) ([]Branch, error) {
	return c.filter(role, p, Branch.DeadAt)
}

// VisibleAt returns the branches of role drawn at p.
func (c *Collections) VisibleAt(role Role, p int) ([]Branch, error) {
	return c.filter(role, p, Branch.VisibleAt)
}

func (c *Collections) filter(role Role, p int, keep func(Branch, int) bool) ([]Branch, error) {
	if p < 0 || p > c.MaxPhase {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrPhaseOutOfRange, p, c.MaxPhase)
	}
	var out []Branch
	for _, b := range c.Role(role) {
		if keep(b, p) {
			out = append(out, b)
		}
	}
	return out, nil
}
